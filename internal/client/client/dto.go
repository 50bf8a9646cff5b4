package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Name               string `json:"nome"`
	Email              string `json:"email"`
	Password           string `json:"senha"`
	AccountType        string `json:"tipo"`
	RegistrationNumber string `json:"cnpj,omitempty"`
	Description        string `json:"descricao,omitempty"`
}

func newRegisterRequest(r models.Registration) registerRequest {
	req := registerRequest{
		Name:        r.Name,
		Email:       r.Email,
		Password:    r.Password,
		AccountType: r.AccountType,
	}
	if r.IsOrganization() {
		req.RegistrationNumber = r.RegistrationNumber
		req.Description = r.Description
	}
	return req
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"novaSenha"`
}

type createPostRequest struct {
	Title            string `json:"titulo"`
	Body             string `json:"conteudo"`
	OrganizationName string `json:"instituicaoNome,omitempty"`
}

// postDTO is the wire form of a post. The backend may send numeric ids and
// timestamps without a zone.
type postDTO struct {
	ID                flexID   `json:"id"`
	Title             string   `json:"titulo"`
	Body              string   `json:"conteudo"`
	AuthorDisplayName string   `json:"autor"`
	AuthorID          int64    `json:"usuarioId"`
	OrganizationName  string   `json:"instituicaoNome"`
	CreatedAt         flexTime `json:"dataCriacao"`
	EditedAt          flexTime `json:"dataEdicao"`
}

func (d postDTO) model() models.Post {
	return models.Post{
		ID:                string(d.ID),
		Title:             d.Title,
		Body:              d.Body,
		AuthorDisplayName: d.AuthorDisplayName,
		AuthorID:          d.AuthorID,
		OrganizationName:  d.OrganizationName,
		CreatedAt:         d.CreatedAt.Time,
		EditedAt:          d.EditedAt.Time,
	}
}

func postsFromDTO(in []postDTO) []models.Post {
	out := make([]models.Post, 0, len(in))
	for _, d := range in {
		out = append(out, d.model())
	}
	return out
}

type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = flexID(n.String())
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
			return nil
		}
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}
