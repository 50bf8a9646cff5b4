package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
	"github.com/dmitrijs2005/socialhub/internal/client/session"
)

const timeLayout = "2006-01-02 15:04"

func formatSummary(p models.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s by %s, %s", p.ID, p.Title, author(p), p.CreatedAt.Local().Format(timeLayout))
	if p.Edited() {
		b.WriteString(" (edited)")
	}
	return b.String()
}

func formatPost(p models.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.Title)
	fmt.Fprintf(&b, "by %s", author(p))
	if p.OrganizationName != "" {
		fmt.Fprintf(&b, " for %s", p.OrganizationName)
	}
	fmt.Fprintf(&b, ", %s\n", p.CreatedAt.Local().Format(timeLayout))
	if p.Edited() {
		fmt.Fprintf(&b, "edited %s\n", p.EditedAt.Local().Format(time.RFC822))
	}
	fmt.Fprintf(&b, "\n%s\n", p.Body)
	return b.String()
}

func author(p models.Post) string {
	if p.AuthorDisplayName == "" {
		return "anonymous"
	}
	return p.AuthorDisplayName
}

func formatIdentity(id session.Identity) string {
	s := id.Email
	if id.Name != "" {
		s = fmt.Sprintf("%s <%s>", id.Name, id.Email)
	}
	if id.Role != "" {
		s += " role=" + id.Role
	}
	if id.UserID != 0 {
		s += fmt.Sprintf(" id=%d", id.UserID)
	}
	if id.OrganizationID != nil {
		s += fmt.Sprintf(" org=%d", *id.OrganizationID)
	}
	return s
}
