package entity

import (
	"strings"
	"time"
)

type Comment struct {
	ID        string
	Text      string
	PostID    string
	AuthorID  string
	CreatedAt time.Time
}

// NewComment binds the text to a post and to the authenticated author.
func NewComment(postID, authorID, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}
	return &Comment{Text: text, PostID: postID, AuthorID: authorID}, nil
}
