// Package backend is an in-process fake of the SocialHub HTTP API for tests.
// It keeps users and posts in memory, signs real HS256 tokens, records every
// request, and lets a test inject failures or hold a request until released.
package backend

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// LocalDateTime is the timestamp layout the backend emits (no zone).
const LocalDateTime = "2006-01-02T15:04:05"

// User is an account known to the fake.
type User struct {
	ID          int64
	Name        string
	Email       string
	Password    string
	Type        string
	CNPJ        string
	Description string
	OrgID       int64
}

// Post is the stored form of a post.
type Post struct {
	ID               int64
	Title            string
	Body             string
	Author           string
	AuthorID         int64
	OrganizationName string
	CreatedAt        time.Time
	EditedAt         time.Time
}

// Request is a recorded request.
type Request struct {
	Method        string
	Path          string
	Authorization string
	Body          string
}

type failure struct {
	status int
	body   string
	times  int
}

type Backend struct {
	URL    string
	Secret []byte

	srv *httptest.Server

	mu         sync.Mutex
	users      map[string]User
	posts      []Post
	nextUserID int64
	nextPostID int64
	failures   map[string]*failure
	holds      map[string]chan struct{}
	revoked    map[string]bool
	loginBody  *string
	requests   []Request
}

// New starts the fake and stops it when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		Secret:     []byte("backend-test-secret"),
		users:      make(map[string]User),
		failures:   make(map[string]*failure),
		holds:      make(map[string]chan struct{}),
		revoked:    make(map[string]bool),
		nextUserID: 1,
		nextPostID: 1,
	}

	b.srv = httptest.NewServer(b.router())
	b.URL = b.srv.URL
	t.Cleanup(func() {
		b.releaseAll()
		b.srv.Close()
	})
	return b
}

// Close stops the server early, e.g. to simulate the backend going away.
func (b *Backend) Close() {
	b.releaseAll()
	b.srv.Close()
}

func (b *Backend) router() *gin.Engine {
	r := gin.New()
	r.Use(b.record, b.inject)

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	auth := r.Group("/auth")
	auth.POST("/login", b.login)
	auth.POST("/register", b.register)
	auth.POST("/reset-password", b.resetPassword)
	auth.GET("/me", b.authenticate, b.me)

	r.GET("/postagens", b.listPosts)
	r.GET("/postagens/usuario", b.authenticate, b.listMyPosts)
	r.POST("/postagens", b.authenticate, b.createPost)
	r.PUT("/postagens/:id", b.authenticate, b.updatePost)
	r.DELETE("/postagens/:id", b.authenticate, b.deletePost)

	return r
}

// AddUser stores u, assigning an id when it has none.
func (b *Backend) AddUser(u User) User {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u.ID == 0 {
		u.ID = b.nextUserID
		b.nextUserID++
	}
	b.users[u.Email] = u
	return u
}

// User returns the stored user for email.
func (b *Backend) User(email string) (User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[email]
	return u, ok
}

// AddPost stores p at the head of the feed, assigning id and timestamps.
func (b *Backend) AddPost(p Post) Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addPostLocked(p)
}

func (b *Backend) addPostLocked(p Post) Post {
	if p.ID == 0 {
		p.ID = b.nextPostID
		b.nextPostID++
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	b.posts = append([]Post{p}, b.posts...)
	return p
}

// Posts returns a copy of the stored feed, newest first.
func (b *Backend) Posts() []Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Post(nil), b.posts...)
}

// Token signs a token for u the way the real backend does.
func (b *Backend) Token(u User) string {
	claims := jwt.MapClaims{
		"sub":  u.Email,
		"nome": u.Name,
		"id":   u.ID,
		"tipo": u.Type,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	if u.OrgID != 0 {
		claims["ongId"] = u.OrgID
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.Secret)
	if err != nil {
		panic(err)
	}
	return s
}

// Revoke makes the backend answer 401 to requests carrying token.
func (b *Backend) Revoke(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = true
}

// SetLoginBody replaces the body of every successful login response.
func (b *Backend) SetLoginBody(body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loginBody = &body
}

// Fail makes requests matching "METHOD path" answer status with body. path
// may be a literal path or a route pattern such as /postagens/:id. times
// limits how many requests fail; 0 means all of them.
func (b *Backend) Fail(method, path string, status int, body string, times int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = &failure{status: status, body: body, times: times}
}

// ClearFailures removes every injected failure.
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]*failure)
}

// Hold blocks requests matching "METHOD path" until the returned function
// is called. Requests are counted as received before they block.
func (b *Backend) Hold(method, path string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.holds[method+" "+path] = ch
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.holds[method+" "+path] == ch {
				delete(b.holds, method+" "+path)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Backend) releaseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, ch := range b.holds {
		close(ch)
		delete(b.holds, k)
	}
}

// Requests returns the recorded requests in arrival order.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// RequestCount counts recorded requests matching method and path.
func (b *Backend) RequestCount(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) record(c *gin.Context) {
	body, _ := c.GetRawData()
	c.Request.Body = newBody(body)

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		Body:          string(body),
	})
	b.mu.Unlock()
	c.Next()
}

func (b *Backend) inject(c *gin.Context) {
	keys := []string{c.Request.Method + " " + c.Request.URL.Path, c.Request.Method + " " + c.FullPath()}

	b.mu.Lock()
	var hold chan struct{}
	for _, k := range keys {
		if ch, ok := b.holds[k]; ok {
			hold = ch
			break
		}
	}
	b.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}

	b.mu.Lock()
	var f *failure
	for _, k := range keys {
		if ff, ok := b.failures[k]; ok {
			f = ff
			if f.times > 0 {
				f.times--
				if f.times == 0 {
					delete(b.failures, k)
				}
			}
			break
		}
	}
	b.mu.Unlock()

	if f != nil {
		c.Data(f.status, "application/json", []byte(f.body))
		c.Abort()
		return
	}
	c.Next()
}

func (b *Backend) authenticate(c *gin.Context) {
	raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	b.mu.Lock()
	revoked := b.revoked[raw]
	b.mu.Unlock()
	if revoked {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token revoked"})
		return
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) { return b.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}

	sub, _ := claims.GetSubject()
	u, found := b.User(sub)
	if !found {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
		return
	}
	c.Set("user", u)
	c.Next()
}

func currentUser(c *gin.Context) User {
	u, _ := c.Get("user")
	return u.(User)
}

func postJSON(p Post) gin.H {
	h := gin.H{
		"id":          p.ID,
		"titulo":      p.Title,
		"conteudo":    p.Body,
		"autor":       p.Author,
		"usuarioId":   p.AuthorID,
		"dataCriacao": p.CreatedAt.Format(LocalDateTime),
	}
	if p.OrganizationName != "" {
		h["instituicaoNome"] = p.OrganizationName
	}
	if !p.EditedAt.IsZero() {
		h["dataEdicao"] = p.EditedAt.Format(LocalDateTime)
	}
	return h
}

func postsJSON(posts []Post) []gin.H {
	out := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		out = append(out, postJSON(p))
	}
	return out
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		return 0, false
	}
	return id, true
}
