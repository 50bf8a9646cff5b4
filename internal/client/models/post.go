// Package models defines the client-side data shared by the stores, the API
// client and the local repositories.
package models

import "time"

// Post is a feed entry. ID is unique and stable for the life of the post;
// CreatedAt never changes after creation and EditedAt is zero until the
// first edit. JSON names follow the backend contract.
type Post struct {
	ID                string    `json:"id"`
	Title             string    `json:"titulo"`
	Body              string    `json:"conteudo"`
	AuthorDisplayName string    `json:"autor"`
	AuthorID          int64     `json:"usuarioId"`
	OrganizationName  string    `json:"instituicaoNome,omitempty"`
	CreatedAt         time.Time `json:"dataCriacao"`
	EditedAt          time.Time `json:"dataEdicao,omitzero"`
}

// Edited reports whether the post has been edited at least once.
func (p Post) Edited() bool {
	return !p.EditedAt.IsZero()
}

// Equal compares two posts field by field, using time.Time.Equal for the
// timestamps.
func (p Post) Equal(o Post) bool {
	return p.ID == o.ID &&
		p.Title == o.Title &&
		p.Body == o.Body &&
		p.AuthorDisplayName == o.AuthorDisplayName &&
		p.AuthorID == o.AuthorID &&
		p.OrganizationName == o.OrganizationName &&
		p.CreatedAt.Equal(o.CreatedAt) &&
		p.EditedAt.Equal(o.EditedAt)
}

// Draft is what a view submits to create a post. Identity, authorship and
// timestamps are assigned by the store.
type Draft struct {
	Title            string
	Body             string
	OrganizationName string
}

// Patch carries the fields of an edit. Nil fields are left untouched.
type Patch struct {
	Title            *string `json:"titulo,omitempty"`
	Body             *string `json:"conteudo,omitempty"`
	OrganizationName *string `json:"instituicaoNome,omitempty"`
}

// Apply returns p with the non-nil fields of patch merged in.
func (patch Patch) Apply(p Post) Post {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Body != nil {
		p.Body = *patch.Body
	}
	if patch.OrganizationName != nil {
		p.OrganizationName = *patch.OrganizationName
	}
	return p
}

// Empty reports whether the patch changes nothing.
func (patch Patch) Empty() bool {
	return patch.Title == nil && patch.Body == nil && patch.OrganizationName == nil
}

// Author is the denormalized attribution copied into a post at creation.
type Author struct {
	DisplayName string
	ID          int64
}
