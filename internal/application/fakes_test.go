package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/policy"
)

var (
	alice   = policy.Subject{UserID: "alice", Role: entity.RoleCustom}
	bob     = policy.Subject{UserID: "bob", Role: entity.RoleCustom}
	manager = policy.Subject{UserID: "mia", Role: entity.RoleManager}
	admin   = policy.Subject{UserID: "root", Role: entity.RoleAdmin}
	nobody  = policy.Subject{}
)

// plainHasher prefixes instead of hashing so tests stay fast and readable.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, d string) bool       { return d == "hashed:"+p }

type stubTokens struct{ err error }

func (s stubTokens) GenerateAccessToken(userID, role string) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "tok:" + userID + ":" + role, time.Now().Add(time.Hour), nil
}

type published struct {
	typ  string
	body any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, typ string, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{typ: typ, body: body})
	return p.err
}

type fakeUsers struct {
	byID map[string]*entity.User
	seq  int
	fail error
	// onDelete mirrors ON DELETE CASCADE on the tables referencing users.
	onDelete []func(userID string)
}

func newFakeUsers(users ...*entity.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*entity.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	if f.fail != nil {
		return f.fail
	}
	for _, x := range f.byID {
		if x.Email == u.Email || x.Username == u.Username {
			return entity.ErrUserExists
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (f *fakeUsers) List(context.Context) ([]entity.User, error) {
	out := []entity.User{}
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id string, next func(string) (string, error)) error {
	u, ok := f.byID[id]
	if !ok {
		return entity.ErrUserNotFound
	}
	d, err := next(u.Password)
	if err != nil {
		return err
	}
	u.Password = d
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return entity.ErrUserNotFound
	}
	delete(f.byID, id)
	for _, fn := range f.onDelete {
		fn(id)
	}
	return nil
}

type fakePosts struct {
	byID     map[string]*entity.Post
	seq      int
	listErr  error
	onDelete []func(postID string)
}

func newFakePosts(posts ...*entity.Post) *fakePosts {
	f := &fakePosts{byID: map[string]*entity.Post{}}
	for _, p := range posts {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePosts) List(context.Context) ([]entity.Post, error) {
	out := []entity.Post{}
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePosts) ListByAuthor(_ context.Context, authorID string) ([]entity.Post, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []entity.Post{}
	for _, p := range f.byID {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePosts) GetByID(_ context.Context, id string) (*entity.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, entity.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) Create(_ context.Context, p *entity.Post) error {
	for _, x := range f.byID {
		if x.Title == p.Title {
			return entity.ErrPostTitleTaken
		}
	}
	f.seq++
	p.ID = fmt.Sprintf("post-%d", f.seq)
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePosts) Update(_ context.Context, id, authorID string, upd entity.PostUpdate) (bool, error) {
	p, ok := f.byID[id]
	if !ok || p.AuthorID != authorID {
		return false, nil
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description.Set {
		p.Description = upd.Description.Value
	}
	if upd.ImageLink.Set {
		p.ImageLink = upd.ImageLink.Value
	}
	return true, nil
}

func (f *fakePosts) Delete(_ context.Context, id, authorID string) (bool, error) {
	p, ok := f.byID[id]
	if !ok || p.AuthorID != authorID {
		return false, nil
	}
	f.remove(id)
	return true, nil
}

func (f *fakePosts) remove(id string) {
	delete(f.byID, id)
	for _, fn := range f.onDelete {
		fn(id)
	}
}

type fakeComments struct {
	posts *fakePosts
	byID  map[string]*entity.Comment
	seq   int
}

func (f *fakeComments) Create(_ context.Context, c *entity.Comment) error {
	if _, ok := f.posts.byID[c.PostID]; !ok {
		return entity.ErrPostNotFound
	}
	f.seq++
	c.ID = fmt.Sprintf("comment-%d", f.seq)
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeComments) ListByPost(_ context.Context, postID string) ([]entity.Comment, error) {
	if _, ok := f.posts.byID[postID]; !ok {
		return nil, entity.ErrPostNotFound
	}
	out := []entity.Comment{}
	for _, c := range f.byID {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeComments) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

type fakeLikes struct {
	users *fakeUsers
	posts *fakePosts
	set   map[string]map[string]bool
}

func newFakeLikes(users *fakeUsers, posts *fakePosts) *fakeLikes {
	return &fakeLikes{users: users, posts: posts, set: map[string]map[string]bool{}}
}

func (f *fakeLikes) exists(userID, postID string) bool {
	_, u := f.users.byID[userID]
	_, p := f.posts.byID[postID]
	return u && p
}

func (f *fakeLikes) Like(_ context.Context, userID, postID string) (bool, error) {
	if !f.exists(userID, postID) {
		return false, nil
	}
	if f.set[userID] == nil {
		f.set[userID] = map[string]bool{}
	}
	f.set[userID][postID] = true
	return true, nil
}

func (f *fakeLikes) Unlike(_ context.Context, userID, postID string) (bool, error) {
	if !f.exists(userID, postID) {
		return false, nil
	}
	delete(f.set[userID], postID)
	return true, nil
}

func (f *fakeLikes) LikedPosts(_ context.Context, userID string) ([]entity.Post, error) {
	if _, ok := f.users.byID[userID]; !ok {
		return nil, entity.ErrUserNotFound
	}
	out := []entity.Post{}
	for id := range f.set[userID] {
		if p, ok := f.posts.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeWatchlists struct {
	lists map[string]*entity.Watchlist
	posts *fakePosts
}

func (f *fakeWatchlists) Get(_ context.Context, userID string) (*entity.Watchlist, error) {
	w, ok := f.lists[userID]
	if !ok {
		return nil, entity.ErrWatchlistNotFound
	}
	return w, nil
}

func (f *fakeWatchlists) GetOrCreate(_ context.Context, userID string) (*entity.Watchlist, error) {
	w, ok := f.lists[userID]
	if !ok {
		w = &entity.Watchlist{ID: "wl-" + userID, UserID: userID, SavedPosts: []entity.Post{}}
		f.lists[userID] = w
	}
	return w, nil
}

func (f *fakeWatchlists) AddPost(ctx context.Context, userID, postID string) (*entity.Watchlist, error) {
	w, _ := f.GetOrCreate(ctx, userID)
	if p, ok := f.posts.byID[postID]; ok && !w.Contains(postID) {
		w.SavedPosts = append(w.SavedPosts, *p)
	}
	return w, nil
}

func (f *fakeWatchlists) RemovePost(ctx context.Context, userID, postID string) (*entity.Watchlist, error) {
	w, err := f.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	kept := w.SavedPosts[:0]
	for _, p := range w.SavedPosts {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	w.SavedPosts = kept
	return w, nil
}

// fakeBlog links the fakes so deletes cascade the way the schema does.
type fakeBlog struct {
	users      *fakeUsers
	posts      *fakePosts
	comments   *fakeComments
	likes      *fakeLikes
	watchlists *fakeWatchlists
}

func newFakeBlog(users []*entity.User, posts []*entity.Post) *fakeBlog {
	b := &fakeBlog{users: newFakeUsers(users...), posts: newFakePosts(posts...)}
	b.comments = &fakeComments{posts: b.posts, byID: map[string]*entity.Comment{}}
	b.likes = newFakeLikes(b.users, b.posts)
	b.watchlists = &fakeWatchlists{lists: map[string]*entity.Watchlist{}, posts: b.posts}

	b.users.onDelete = append(b.users.onDelete, func(userID string) {
		for id, p := range b.posts.byID {
			if p.AuthorID == userID {
				b.posts.remove(id)
			}
		}
		for id, c := range b.comments.byID {
			if c.AuthorID == userID {
				delete(b.comments.byID, id)
			}
		}
		delete(b.likes.set, userID)
		delete(b.watchlists.lists, userID)
	})
	b.posts.onDelete = append(b.posts.onDelete, func(postID string) {
		for id, c := range b.comments.byID {
			if c.PostID == postID {
				delete(b.comments.byID, id)
			}
		}
		for _, liked := range b.likes.set {
			delete(liked, postID)
		}
		for _, w := range b.watchlists.lists {
			kept := w.SavedPosts[:0]
			for _, p := range w.SavedPosts {
				if p.ID != postID {
					kept = append(kept, p)
				}
			}
			w.SavedPosts = kept
		}
	})
	return b
}

type fakeIndex struct {
	docs      map[string]entity.Post
	searchIDs []string
	err       error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]entity.Post{}} }

func (f *fakeIndex) Put(_ context.Context, p *entity.Post) error {
	if f.err != nil {
		return f.err
	}
	f.docs[p.ID] = *p
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	delete(f.docs, id)
	return f.err
}

func (f *fakeIndex) Search(context.Context, string, int) ([]string, error) {
	return f.searchIDs, f.err
}

type fakeUploader struct {
	path string
	body string
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(r)
	f.path, f.body = objectPath, string(b)
	return "https://img.test/" + objectPath, nil
}

var errBoom = errors.New("boom")

func reader(s string) io.Reader { return strings.NewReader(s) }
