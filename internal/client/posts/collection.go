package posts

import (
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
	"github.com/google/uuid"
)

type Option func(*Collection)

// WithClock replaces time.Now as the source of creation and edit times.
func WithClock(now func() time.Time) Option {
	return func(c *Collection) { c.now = now }
}

// WithIDs replaces the id generator used by Create.
func WithIDs(next func() string) Option {
	return func(c *Collection) { c.newID = next }
}

// Collection is the canonical, newest-first list of posts. It is safe for
// concurrent use; every method is atomic. Subscribers are told about every
// change with a fresh copy of the list.
type Collection struct {
	now   func() time.Time
	newID func() string

	mu      sync.RWMutex
	posts   []models.Post
	version uint64
	subs    map[int]*subscriber
	seq     int

	// At most one goroutine delivers at a time. Changes made while a
	// delivery runs, including from inside a subscriber, set pending and are
	// delivered by that goroutine once the current round ends.
	deliverMu  sync.Mutex
	delivering bool
	pending    bool
}

type subscriber struct {
	fn func([]models.Post)
	// delivered is the version last sent to fn. Only the delivering
	// goroutine touches it.
	delivered uint64
}

func NewCollection(opts ...Option) *Collection {
	c := &Collection{
		now:     time.Now,
		newID:   uuid.NewString,
		subs:    make(map[int]*subscriber),
		version: 1,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// List returns a copy of the posts, newest first.
func (c *Collection) List() []models.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.posts)
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.posts)
}

func (c *Collection) FindByID(id string) (models.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.posts[i], true
	}
	return models.Post{}, false
}

// Create stores a new post built from d and attributed to a, at the head of
// the list, and returns it.
func (c *Collection) Create(d models.Draft, a models.Author) models.Post {
	c.mu.Lock()
	p := models.Post{
		ID:                c.uniqueIDLocked(),
		Title:             d.Title,
		Body:              d.Body,
		AuthorDisplayName: a.DisplayName,
		AuthorID:          a.ID,
		OrganizationName:  d.OrganizationName,
		CreatedAt:         c.now(),
	}
	c.posts = slices.Insert(c.posts, 0, p)
	c.version++
	c.mu.Unlock()

	c.notify()
	return p
}

// Edit merges patch into the post with id and stamps EditedAt. A missing
// id is a no-op and returns false.
func (c *Collection) Edit(id string, patch models.Patch) bool {
	_, _, ok := c.edit(id, patch)
	return ok
}

func (c *Collection) edit(id string, patch models.Patch) (before, after models.Post, ok bool) {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return models.Post{}, models.Post{}, false
	}
	before = c.posts[i]
	after = patch.Apply(before)
	after.EditedAt = c.now()
	c.posts[i] = after
	c.version++
	c.mu.Unlock()

	c.notify()
	return before, after, true
}

// Delete removes the post with id. A missing id is a no-op and returns
// false.
func (c *Collection) Delete(id string) bool {
	_, _, ok := c.remove(id)
	return ok
}

func (c *Collection) remove(id string) (removed models.Post, index int, ok bool) {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return models.Post{}, -1, false
	}
	removed = c.posts[i]
	c.posts = slices.Delete(c.posts, i, i+1)
	c.version++
	c.mu.Unlock()

	c.notify()
	return removed, i, true
}

// Replace swaps the whole list for posts. Later duplicates of an id are
// dropped.
func (c *Collection) Replace(posts []models.Post) {
	seen := make(map[string]struct{}, len(posts))
	next := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		next = append(next, p)
	}

	c.mu.Lock()
	c.posts = next
	c.version++
	c.mu.Unlock()

	c.notify()
}

// Insert puts p at index (clamped to the list bounds) unless a post with
// the same id is already present.
func (c *Collection) Insert(index int, p models.Post) bool {
	c.mu.Lock()
	if c.indexLocked(p.ID) >= 0 {
		c.mu.Unlock()
		return false
	}
	index = max(0, min(index, len(c.posts)))
	c.posts = slices.Insert(c.posts, index, p)
	c.version++
	c.mu.Unlock()

	c.notify()
	return true
}

// compareAndSwap replaces the post with id by next only if it still equals
// expected.
func (c *Collection) compareAndSwap(id string, expected, next models.Post) bool {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 || !c.posts[i].Equal(expected) {
		c.mu.Unlock()
		return false
	}
	if next.ID != id && c.indexLocked(next.ID) >= 0 {
		c.posts = slices.Delete(c.posts, i, i+1)
	} else {
		c.posts[i] = next
	}
	c.version++
	c.mu.Unlock()

	c.notify()
	return true
}

// Subscribe registers fn and calls it with the current list, then again
// after every change. Deliveries are serialized and never overlap. fn may
// change the collection; the resulting list is delivered after fn returns.
// Changes made in quick succession by other goroutines may be coalesced
// into one delivery of the latest list.
func (c *Collection) Subscribe(fn func([]models.Post)) (cancel func()) {
	c.mu.Lock()
	c.seq++
	id := c.seq
	c.subs[id] = &subscriber{fn: fn}
	c.mu.Unlock()

	c.notify()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// notify delivers the current list to every subscriber that has not seen
// it yet. If another delivery is running, it is left to finish the job.
func (c *Collection) notify() {
	c.deliverMu.Lock()
	if c.delivering {
		c.pending = true
		c.deliverMu.Unlock()
		return
	}
	c.delivering = true
	c.deliverMu.Unlock()

	for {
		c.deliver()

		c.deliverMu.Lock()
		if !c.pending {
			c.delivering = false
			c.deliverMu.Unlock()
			return
		}
		c.pending = false
		c.deliverMu.Unlock()
	}
}

func (c *Collection) deliver() {
	c.mu.RLock()
	v := c.version
	snap := slices.Clone(c.posts)
	var due []*subscriber
	for _, id := range sortedKeys(c.subs) {
		if sub := c.subs[id]; sub.delivered < v {
			due = append(due, sub)
		}
	}
	c.mu.RUnlock()

	for _, sub := range due {
		sub.delivered = v
		sub.fn(slices.Clone(snap))
	}
}

func (c *Collection) indexLocked(id string) int {
	return slices.IndexFunc(c.posts, func(p models.Post) bool { return p.ID == id })
}

func (c *Collection) uniqueIDLocked() string {
	for {
		id := c.newID()
		if c.indexLocked(id) < 0 {
			return id
		}
	}
}

func sortedKeys(m map[int]*subscriber) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
