package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/oksasatya/blog-api/internal/domain/entity"
)

// ErrImageStorageDisabled is returned by image uploads when no bucket is configured.
var ErrImageStorageDisabled = errors.New("image storage is not configured")

// PasswordHasher is the credential verifier.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenIssuer signs access tokens for a user id and role.
type TokenIssuer interface {
	GenerateAccessToken(userID, role string) (string, time.Time, error)
}

// EventPublisher emits domain events. Publishing is best effort.
type EventPublisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// PostSearchIndex mirrors posts into a full text index.
type PostSearchIndex interface {
	Put(ctx context.Context, p *entity.Post) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// ImageUploader stores an object and returns a public reference to it.
type ImageUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
