package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blog-api/internal/application"
	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/policy"
	"github.com/oksasatya/blog-api/internal/interface/middleware"
	"github.com/oksasatya/blog-api/pkg/helpers"
	"github.com/oksasatya/blog-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

var jwtm = helpers.NewJWTManager("test-secret", time.Hour, "blog-api")

func tokenFor(t *testing.T, id string, role entity.Role) string {
	t.Helper()
	tok, _, err := jwtm.GenerateAccessToken(id, role.String())
	require.NoError(t, err)
	return tok
}

type stubAccounts struct {
	register func(entity.NewUserInput) (*entity.User, error)
	login    func(email, password string) (*application.AccessToken, error)
	reset    func(sub policy.Subject, old, next string) error
	list     func(sub policy.Subject) ([]entity.User, error)
	del      func(sub policy.Subject, id string) error
}

func (s *stubAccounts) Register(_ context.Context, in entity.NewUserInput) (*entity.User, error) {
	return s.register(in)
}
func (s *stubAccounts) Login(_ context.Context, e, p string) (*application.AccessToken, error) {
	return s.login(e, p)
}
func (s *stubAccounts) ResetPassword(_ context.Context, sub policy.Subject, o, n string) error {
	return s.reset(sub, o, n)
}
func (s *stubAccounts) List(_ context.Context, sub policy.Subject) ([]entity.User, error) {
	return s.list(sub)
}
func (s *stubAccounts) Delete(_ context.Context, sub policy.Subject, id string) error {
	return s.del(sub, id)
}

type stubPosts struct {
	PostService
	create func(sub policy.Subject, in entity.NewPostInput) (*entity.Post, error)
	update func(sub policy.Subject, id string, upd entity.PostUpdate) (*entity.Post, error)
	get    func(id string) (*entity.Post, error)
	search func(q string) ([]entity.Post, error)
	upload func(sub policy.Subject, id, filename, contentType string, body []byte) (*entity.Post, error)
}

func (s *stubPosts) Create(_ context.Context, sub policy.Subject, in entity.NewPostInput) (*entity.Post, error) {
	return s.create(sub, in)
}
func (s *stubPosts) Update(_ context.Context, sub policy.Subject, id string, upd entity.PostUpdate) (*entity.Post, error) {
	return s.update(sub, id, upd)
}
func (s *stubPosts) Get(_ context.Context, id string) (*entity.Post, error) { return s.get(id) }
func (s *stubPosts) Search(_ context.Context, q string) ([]entity.Post, error) {
	return s.search(q)
}
func (s *stubPosts) UploadImage(_ context.Context, sub policy.Subject, id, fn, ct string, r io.Reader) (*entity.Post, error) {
	b, _ := io.ReadAll(r)
	return s.upload(sub, id, fn, ct, b)
}

type stubComments struct {
	create func(sub policy.Subject, postID, text string) (*entity.Comment, error)
	del    func(sub policy.Subject, id string) error
}

func (s *stubComments) Create(_ context.Context, sub policy.Subject, postID, text string) (*entity.Comment, error) {
	return s.create(sub, postID, text)
}
func (s *stubComments) ListByPost(context.Context, policy.Subject, string) ([]entity.Comment, error) {
	return nil, entity.ErrPostNotFound
}
func (s *stubComments) Delete(_ context.Context, sub policy.Subject, id string) error {
	return s.del(sub, id)
}

type stubRelations struct {
	handle func(sub policy.Subject, postID, mode string) (bool, error)
	get    func(sub policy.Subject) (*entity.Watchlist, error)
}

func (s *stubRelations) Add(_ context.Context, sub policy.Subject, postID string) (*entity.Watchlist, error) {
	return &entity.Watchlist{ID: "w1", UserID: sub.UserID, SavedPosts: []entity.Post{{ID: postID, Title: "Hello"}}}, nil
}
func (s *stubRelations) Remove(_ context.Context, sub policy.Subject, _ string) (*entity.Watchlist, error) {
	return &entity.Watchlist{ID: "w1", UserID: sub.UserID}, nil
}
func (s *stubRelations) Get(_ context.Context, sub policy.Subject) (*entity.Watchlist, error) {
	return s.get(sub)
}
func (s *stubRelations) Handle(_ context.Context, sub policy.Subject, postID, mode string) (bool, error) {
	return s.handle(sub, postID, mode)
}
func (s *stubRelations) LikedPosts(context.Context, policy.Subject) ([]entity.Post, error) {
	return []entity.Post{}, nil
}

type testAPI struct {
	accounts  *stubAccounts
	posts     *stubPosts
	comments  *stubComments
	relations *stubRelations
	engine    *gin.Engine
}

func newTestAPI() *testAPI {
	a := &testAPI{accounts: &stubAccounts{}, posts: &stubPosts{}, comments: &stubComments{}, relations: &stubRelations{}}
	auth := NewAuthHandler(a.accounts, nil)
	users := NewUserHandler(a.accounts, nil)
	posts := NewPostHandler(a.posts, nil)
	comments := NewCommentHandler(a.comments, nil)
	rel := NewRelationHandler(a.relations, a.relations, nil)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	api := r.Group("/api")
	api.POST("/user_create", auth.Register)
	api.POST("/token", auth.Login)
	api.GET("/post/:post_id", posts.Get)
	api.GET("/posts/search", posts.Search)

	priv := api.Group("", middleware.Auth(jwtm, "X-Token"))
	priv.POST("/reset_password", auth.ResetPassword)
	priv.GET("/all_users", users.List)
	priv.DELETE("/delete_user/:user_id", users.Delete)
	priv.POST("/create_post", posts.Create)
	priv.PATCH("/update_post/:post_id", posts.Update)
	priv.POST("/post/:post_id/image", posts.UploadImage)
	priv.POST("/leave_comment", comments.Create)
	priv.GET("/post/:post_id/comments", comments.List)
	priv.DELETE("/comment_delete/:comment_id", comments.Delete)
	priv.POST("/add_to_watch_list/:post_id", rel.AddToWatchlist)
	priv.GET("/saved_posts", rel.SavedPosts)
	priv.POST("/post_like_handler", rel.Like)
	a.engine = r
	return a
}

type envelope struct {
	Status    int             `json:"status"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Token", token)
	}
	return a.serve(t, req)
}

func (a *testAPI) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestRegister(t *testing.T) {
	a := newTestAPI()
	var got entity.NewUserInput
	a.accounts.register = func(in entity.NewUserInput) (*entity.User, error) {
		got = in
		return &entity.User{ID: "u1", Username: in.Username, Email: in.Email, Password: "secret-digest", Role: entity.RoleCustom, IsActive: true}, nil
	}

	w, env := a.do(t, http.MethodPost, "/api/user_create", "", gin.H{"username": "alice", "email": "alice@example.com", "password": "AbCd!efg"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "custom", got.Role)
	assert.NotContains(t, string(env.Data), "secret-digest")
	assert.NotContains(t, string(env.Data), "password")
	assert.Contains(t, string(env.Data), `"posts":[]`)
	assert.NotEmpty(t, env.RequestID)
}

func TestRegister_Validation(t *testing.T) {
	a := newTestAPI()
	a.accounts.register = func(entity.NewUserInput) (*entity.User, error) { return nil, errors.New("must not be called") }

	w, env := a.do(t, http.MethodPost, "/api/user_create", "", gin.H{"username": "alice", "email": "alice@example.com", "password": "weakpass", "role": "root"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), `"password"`)
	assert.Contains(t, string(env.Error), `"role"`)
}

func TestRegister_Conflict(t *testing.T) {
	a := newTestAPI()
	a.accounts.register = func(entity.NewUserInput) (*entity.User, error) { return nil, entity.ErrUserExists }
	w, env := a.do(t, http.MethodPost, "/api/user_create", "", gin.H{"username": "alice", "email": "alice@example.com", "password": "AbCd!efg"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "user exists, try again", env.Message)
}

func TestLogin(t *testing.T) {
	a := newTestAPI()
	a.accounts.login = func(email, password string) (*application.AccessToken, error) {
		if password != "AbCd!efg" {
			return nil, entity.ErrInvalidCredentials
		}
		return &application.AccessToken{AccessToken: "tok", TokenType: "jwt", ExpiresAt: time.Now()}, nil
	}

	w, env := a.do(t, http.MethodPost, "/api/token", "", gin.H{"email": "alice@example.com", "password": "AbCd!efg"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access_token":"tok","token_type":"jwt"}`, string(env.Data))

	w, _ = a.do(t, http.MethodPost, "/api/token", "", gin.H{"email": "alice@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	a := newTestAPI()
	for _, path := range []string{"/api/all_users", "/api/saved_posts"} {
		w, env := a.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.False(t, env.Success)
	}
}

func TestResetPassword_PassesCaller(t *testing.T) {
	a := newTestAPI()
	var sub policy.Subject
	a.accounts.reset = func(s policy.Subject, old, next string) error {
		sub = s
		if old != "AbCd!efg" {
			return entity.ErrWrongPassword
		}
		return nil
	}
	tok := tokenFor(t, "alice", entity.RoleCustom)

	w, _ := a.do(t, http.MethodPost, "/api/reset_password", tok, gin.H{"old_password": "AbCd!efg", "password": "NeW!!pass"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, policy.Subject{UserID: "alice", Role: entity.RoleCustom}, sub)

	w, _ = a.do(t, http.MethodPost, "/api/reset_password", tok, gin.H{"old_password": "bad", "password": "NeW!!pass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsersAdmin(t *testing.T) {
	a := newTestAPI()
	a.accounts.list = func(sub policy.Subject) ([]entity.User, error) {
		if sub.Role != entity.RoleAdmin {
			return nil, entity.Forbidden("only for admins are allowed")
		}
		return []entity.User{{ID: "u1", Username: "alice", Role: entity.RoleCustom}}, nil
	}
	a.accounts.del = func(_ policy.Subject, id string) error {
		if id != "u1" {
			return entity.ErrUserNotFound
		}
		return nil
	}

	w, _ := a.do(t, http.MethodGet, "/api/all_users", tokenFor(t, "alice", entity.RoleCustom), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := tokenFor(t, "root", entity.RoleAdmin)
	w, env := a.do(t, http.MethodGet, "/api/all_users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"username":"alice"`)

	w, _ = a.do(t, http.MethodDelete, "/api/delete_user/u2", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = a.do(t, http.MethodDelete, "/api/delete_user/u1", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPosts(t *testing.T) {
	a := newTestAPI()
	a.posts.create = func(sub policy.Subject, in entity.NewPostInput) (*entity.Post, error) {
		if in.Title == "Taken" {
			return nil, entity.ErrPostTitleTaken
		}
		return &entity.Post{ID: "p1", Title: in.Title, AuthorID: sub.UserID}, nil
	}
	a.posts.update = func(sub policy.Subject, id string, upd entity.PostUpdate) (*entity.Post, error) {
		if sub.UserID != "alice" {
			return nil, entity.Forbidden("only the author can update this post")
		}
		assert.Nil(t, upd.Title)
		assert.False(t, upd.ImageLink.Set)
		require.True(t, upd.Description.Set)
		return &entity.Post{ID: id, Title: "Hello", Description: upd.Description.Value, AuthorID: "alice"}, nil
	}
	a.posts.get = func(id string) (*entity.Post, error) {
		if id != "p1" {
			return nil, entity.ErrPostNotFound
		}
		return &entity.Post{ID: "p1", Title: "Hello", Comments: []entity.Comment{{ID: "c1", Text: "nice"}}}, nil
	}
	alice := tokenFor(t, "alice", entity.RoleCustom)

	w, env := a.do(t, http.MethodPost, "/api/create_post", alice, gin.H{"title": "Hello", "author_id": "mallory"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, string(env.Data), `"author_id":"alice"`)

	w, _ = a.do(t, http.MethodPost, "/api/create_post", alice, gin.H{"title": "Taken"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = a.do(t, http.MethodPost, "/api/create_post", alice, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = a.do(t, http.MethodPatch, "/api/update_post/p1", alice, gin.H{"description": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"description":"edited"`)

	w, env = a.do(t, http.MethodPatch, "/api/update_post/p1", alice, gin.H{"description": nil})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"description":null`)

	w, _ = a.do(t, http.MethodPatch, "/api/update_post/p1", alice, gin.H{"image_link": "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(t, http.MethodPatch, "/api/update_post/p1", tokenFor(t, "bob", entity.RoleCustom), gin.H{"description": "edited"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = a.do(t, http.MethodGet, "/api/post/p1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"comment_text":"nice"`)

	w, _ = a.do(t, http.MethodGet, "/api/post/zzz", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearch(t *testing.T) {
	a := newTestAPI()
	a.posts.search = func(q string) ([]entity.Post, error) {
		return []entity.Post{{ID: "p1", Title: q}}, nil
	}
	w, _ := a.do(t, http.MethodGet, "/api/posts/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := a.do(t, http.MethodGet, "/api/posts/search?q=hello", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"title":"hello"`)
}

func multipartImage(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write(data)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	a := newTestAPI()
	a.posts.upload = func(sub policy.Subject, id, fn, ct string, body []byte) (*entity.Post, error) {
		link := "https://img.test/" + fn
		assert.Equal(t, "image/png", ct)
		assert.Equal(t, []byte("png"), body)
		return &entity.Post{ID: id, Title: "Hello", AuthorID: sub.UserID, ImageLink: &link}, nil
	}
	alice := tokenFor(t, "alice", entity.RoleCustom)

	body, ct := multipartImage(t, "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/api/post/p1/image", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("X-Token", alice)
	w, env := a.serve(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"image_link":"https://img.test/photo.png"`)

	body, ct = multipartImage(t, "text/plain", []byte("hi"))
	req = httptest.NewRequest(http.MethodPost, "/api/post/p1/image", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("X-Token", alice)
	w, _ = a.serve(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImage_StorageDisabled(t *testing.T) {
	a := newTestAPI()
	a.posts.upload = func(policy.Subject, string, string, string, []byte) (*entity.Post, error) {
		return nil, application.ErrImageStorageDisabled
	}
	body, ct := multipartImage(t, "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/api/post/p1/image", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("X-Token", tokenFor(t, "alice", entity.RoleCustom))
	w, _ := a.serve(t, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestComments(t *testing.T) {
	a := newTestAPI()
	a.comments.create = func(sub policy.Subject, postID, text string) (*entity.Comment, error) {
		return &entity.Comment{ID: "c1", Text: text, PostID: postID, AuthorID: sub.UserID}, nil
	}
	a.comments.del = func(sub policy.Subject, _ string) error {
		if sub.Role != entity.RoleManager {
			return entity.Forbidden("only managers can delete comments")
		}
		return nil
	}
	bob := tokenFor(t, "bob", entity.RoleCustom)

	w, env := a.do(t, http.MethodPost, "/api/leave_comment", bob, gin.H{"post_id": "p1", "comment_text": "nice", "author_id": "alice"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, string(env.Data), `"author_id":"bob"`)

	w, _ = a.do(t, http.MethodGet, "/api/post/p1/comments", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(t, http.MethodDelete, "/api/comment_delete/c1", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = a.do(t, http.MethodDelete, "/api/comment_delete/c1", tokenFor(t, "mia", entity.RoleManager), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLikesAndWatchlist(t *testing.T) {
	a := newTestAPI()
	a.relations.handle = func(_ policy.Subject, postID, _ string) (bool, error) { return postID == "p1", nil }
	a.relations.get = func(policy.Subject) (*entity.Watchlist, error) { return nil, entity.ErrWatchlistNotFound }
	alice := tokenFor(t, "alice", entity.RoleCustom)

	w, _ := a.do(t, http.MethodPost, "/api/post_like_handler", alice, gin.H{"post_id": "p1", "operation": "liking"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = a.do(t, http.MethodPost, "/api/post_like_handler", alice, gin.H{"post_id": "p9", "operation": "dislike"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = a.do(t, http.MethodPost, "/api/post_like_handler", alice, gin.H{"post_id": "p1", "operation": "love"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := a.do(t, http.MethodPost, "/api/add_to_watch_list/p1", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"saved_posts":[{"id":"p1"`)

	w, _ = a.do(t, http.MethodGet, "/api/saved_posts", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFail_HidesInternalErrors(t *testing.T) {
	a := newTestAPI()
	a.posts.get = func(string) (*entity.Post, error) { return nil, errors.New("pq: connection reset") }
	w, env := a.do(t, http.MethodGet, "/api/post/p1", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", env.Message)
}
