package entity

import (
	"encoding/json"
	"strings"
	"time"
)

// Post is authored by exactly one user; Title is unique across all posts.
type Post struct {
	ID          string
	Title       string
	Description *string
	ImageLink   *string
	AuthorID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Comments []Comment
}

type NewPostInput struct {
	Title       string
	Description *string
	ImageLink   *string
}

func NewPost(authorID string, in NewPostInput) (*Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	return &Post{
		Title:       title,
		Description: in.Description,
		ImageLink:   in.ImageLink,
		AuthorID:    authorID,
	}, nil
}

// OptionalString is a nullable field that remembers whether it was supplied.
// Set with a nil Value means an explicit null, which clears the column.
type OptionalString struct {
	Set   bool
	Value *string
}

func SetString(v string) OptionalString { return OptionalString{Set: true, Value: &v} }

func NullString() OptionalString { return OptionalString{Set: true} }

// UnmarshalJSON runs for null too, so a present key always marks the field set.
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// PostUpdate lists only the fields a caller explicitly supplied. Title cannot
// be cleared; Description and ImageLink can.
type PostUpdate struct {
	Title       *string
	Description OptionalString
	ImageLink   OptionalString
}

func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && !u.Description.Set && !u.ImageLink.Set
}

// Normalize trims the title the same way NewPost does.
func (u PostUpdate) Normalize() PostUpdate {
	if u.Title != nil {
		t := strings.TrimSpace(*u.Title)
		u.Title = &t
	}
	return u
}

func (u PostUpdate) Validate() error {
	if u.IsEmpty() {
		return ErrEmptyUpdate
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return ErrInvalidTitle
	}
	return nil
}
