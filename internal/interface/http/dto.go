package handlers

import (
	"time"

	"github.com/oksasatya/blog-api/internal/domain/entity"
)

// Response shapes. Password digests have no field here and never leave the service.

type userResponse struct {
	ID         string         `json:"id"`
	Username   string         `json:"username"`
	Email      string         `json:"email"`
	Role       string         `json:"role"`
	IsActive   bool           `json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	Posts      []postResponse `json:"posts"`
	LikedPosts []postResponse `json:"liked_posts"`
}

type postResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	ImageLink   *string           `json:"image_link"`
	AuthorID    string            `json:"author_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Comments    []commentResponse `json:"comments"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"comment_text"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type watchlistResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	SavedDate  time.Time      `json:"saved_date"`
	SavedPosts []postResponse `json:"saved_posts"`
}

func toUser(u *entity.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role.String(),
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		Posts:      toPosts(u.Posts),
		LikedPosts: toPosts(u.LikedPosts),
	}
}

func toUsers(us []entity.User) []userResponse {
	out := make([]userResponse, 0, len(us))
	for i := range us {
		out = append(out, toUser(&us[i]))
	}
	return out
}

func toPost(p *entity.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		ImageLink:   p.ImageLink,
		AuthorID:    p.AuthorID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Comments:    toComments(p.Comments),
	}
}

func toPosts(ps []entity.Post) []postResponse {
	out := make([]postResponse, 0, len(ps))
	for i := range ps {
		out = append(out, toPost(&ps[i]))
	}
	return out
}

func toComment(c *entity.Comment) commentResponse {
	return commentResponse{ID: c.ID, Text: c.Text, PostID: c.PostID, AuthorID: c.AuthorID, CreatedAt: c.CreatedAt}
}

func toComments(cs []entity.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(cs))
	for i := range cs {
		out = append(out, toComment(&cs[i]))
	}
	return out
}

func toWatchlist(w *entity.Watchlist) watchlistResponse {
	return watchlistResponse{ID: w.ID, UserID: w.UserID, SavedDate: w.SavedDate, SavedPosts: toPosts(w.SavedPosts)}
}
