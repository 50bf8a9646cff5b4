package backend

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func newBody(b []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(b))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

func (b *Backend) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request"})
		return
	}

	u, ok := b.User(req.Email)
	if !ok || u.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "bad credentials"})
		return
	}

	b.mu.Lock()
	override := b.loginBody
	b.mu.Unlock()
	if override != nil {
		c.Data(http.StatusOK, "application/json", []byte(*override))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": b.Token(u)})
}

type registerRequest struct {
	Name        string `json:"nome"`
	Email       string `json:"email"`
	Password    string `json:"senha"`
	Type        string `json:"tipo"`
	CNPJ        string `json:"cnpj"`
	Description string `json:"descricao"`
}

func (b *Backend) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request"})
		return
	}

	fields := map[string][]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["nome"] = []string{"name is required"}
	}
	if !strings.Contains(req.Email, "@") {
		fields["email"] = []string{"email is invalid"}
	}
	if len(req.Password) < 6 {
		fields["senha"] = []string{"password must have at least 6 characters"}
	}
	if req.Type == "ONG" && req.CNPJ == "" {
		fields["cnpj"] = []string{"cnpj is required"}
	}
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, fields)
		return
	}

	if _, exists := b.User(req.Email); exists {
		c.JSON(http.StatusConflict, gin.H{"message": "email already in use"})
		return
	}

	u := User{Name: req.Name, Email: req.Email, Password: req.Password, Type: req.Type,
		CNPJ: req.CNPJ, Description: req.Description}
	b.mu.Lock()
	u.ID = b.nextUserID
	b.nextUserID++
	if u.Type == "ONG" {
		u.OrgID = u.ID
	}
	b.users[u.Email] = u
	b.mu.Unlock()

	c.Status(http.StatusCreated)
}

type resetRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"novaSenha"`
}

func (b *Backend) resetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"mensagem": "new password is required"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[req.Email]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	u.Password = req.NewPassword
	b.users[u.Email] = u
	c.Status(http.StatusOK)
}

func (b *Backend) me(c *gin.Context) {
	u := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"nome": u.Name, "email": u.Email, "tipo": u.Type})
}

func (b *Backend) listPosts(c *gin.Context) {
	c.JSON(http.StatusOK, postsJSON(b.Posts()))
}

func (b *Backend) listMyPosts(c *gin.Context) {
	u := currentUser(c)
	var mine []Post
	for _, p := range b.Posts() {
		if p.AuthorID == u.ID {
			mine = append(mine, p)
		}
	}
	c.JSON(http.StatusOK, postsJSON(mine))
}

type postRequest struct {
	Title            *string `json:"titulo"`
	Body             *string `json:"conteudo"`
	OrganizationName *string `json:"instituicaoNome"`
}

func (b *Backend) createPost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request"})
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"titulo": []string{"title is required"}}})
		return
	}

	u := currentUser(c)
	p := Post{Title: *req.Title, Author: u.Name, AuthorID: u.ID}
	if req.Body != nil {
		p.Body = *req.Body
	}
	if req.OrganizationName != nil {
		p.OrganizationName = *req.OrganizationName
	}

	p = b.AddPost(p)
	c.JSON(http.StatusCreated, postJSON(p))
}

func (b *Backend) updatePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.posts {
		if p.ID != id {
			continue
		}
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Body != nil {
			p.Body = *req.Body
		}
		if req.OrganizationName != nil {
			p.OrganizationName = *req.OrganizationName
		}
		p.EditedAt = time.Now().UTC().Truncate(time.Second)
		b.posts[i] = p
		c.JSON(http.StatusOK, postJSON(p))
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
}

func (b *Backend) deletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.posts {
		if p.ID == id {
			b.posts = append(b.posts[:i], b.posts[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
}
