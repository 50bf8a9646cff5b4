package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
	"github.com/dmitrijs2005/socialhub/internal/client/posts"
)

var errNoPost = errors.New("post not found")

// Feed prints the current feed.
func (a *App) Feed(ctx context.Context, _ []string) error {
	list, err := a.posts.List(ctx)
	if err != nil {
		return err
	}
	a.printPosts(list)
	return nil
}

// Refresh reloads the feed from the backend and prints it. When offline the
// cached feed is printed together with a notice.
func (a *App) Refresh(ctx context.Context, args []string) error {
	err := a.posts.Refresh(ctx)
	if err != nil && !errors.Is(err, posts.ErrOffline) {
		return err
	}
	if err != nil {
		a.printf("%s\n", posts.ErrOffline)
	}
	return a.Feed(ctx, args)
}

func (a *App) Mine(ctx context.Context, _ []string) error {
	return a.gate.Enter(ctx, func() error {
		list, err := a.posts.ListMine(ctx)
		if err != nil {
			return err
		}
		a.printPosts(list)
		return nil
	})
}

// Post prompts for a new post and publishes it.
func (a *App) Post(ctx context.Context, _ []string) error {
	return a.gate.Enter(ctx, func() error {
		var d models.Draft
		var err error
		if d.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
			return err
		}
		if d.Body, err = getMultiline(a.reader, "Text", a.out); err != nil {
			return err
		}
		if d.OrganizationName, err = getSimpleText(a.reader, "Organization (optional)", a.out); err != nil {
			return err
		}

		p, err := a.posts.Create(ctx, d)
		if err != nil {
			return err
		}
		a.printf("Published post %s\n", p.ID)
		return nil
	})
}

// Edit changes the title and/or text of a post. Empty answers keep the
// current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	return a.gate.Enter(ctx, func() error {
		id, err := a.postID(args)
		if err != nil {
			return err
		}
		current, ok := a.posts.FindByID(id)
		if !ok {
			return errNoPost
		}

		var patch models.Patch
		title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", current.Title), a.out)
		if err != nil {
			return err
		}
		if title != "" {
			patch.Title = &title
		}
		body, err := getMultiline(a.reader, "Text (empty keeps the current text)", a.out)
		if err != nil {
			return err
		}
		if body != "" {
			patch.Body = &body
		}
		if patch.Empty() {
			a.printf("Nothing to change.\n")
			return nil
		}

		if err := a.posts.Edit(ctx, id, patch); err != nil {
			return err
		}
		a.printf("Post %s updated\n", id)
		return nil
	})
}

func (a *App) Delete(ctx context.Context, args []string) error {
	return a.gate.Enter(ctx, func() error {
		id, err := a.postID(args)
		if err != nil {
			return err
		}
		if err := a.posts.Delete(ctx, id); err != nil {
			return err
		}
		a.printf("Post %s deleted\n", id)
		return nil
	})
}

// Show prints one post in full.
func (a *App) Show(_ context.Context, args []string) error {
	id, err := a.postID(args)
	if err != nil {
		return err
	}
	p, ok := a.posts.FindByID(id)
	if !ok {
		return errNoPost
	}
	a.printf("%s", formatPost(p))
	return nil
}

// postID takes the id from the command arguments or asks for it.
func (a *App) postID(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	id, err := getSimpleText(a.reader, "Post id", a.out)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", errNoPost
	}
	return id, nil
}

func (a *App) printPosts(list []models.Post) {
	if len(list) == 0 {
		a.printf("No posts yet.\n")
		return
	}
	for _, p := range list {
		a.printf("%s\n", formatSummary(p))
	}
}
