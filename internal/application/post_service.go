package application

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/policy"
	repo "github.com/oksasatya/blog-api/internal/domain/repository"
	"github.com/oksasatya/blog-api/pkg/helpers"
	"github.com/oksasatya/blog-api/pkg/metrics"
)

const searchPageSize = 20

type PostService struct {
	Posts  repo.PostRepository
	Index  PostSearchIndex // optional
	Images ImageUploader   // optional
	Logger *logrus.Logger
}

func (s *PostService) List(ctx context.Context) ([]entity.Post, error) {
	return s.Posts.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id string) (*entity.Post, error) {
	return s.Posts.GetByID(ctx, id)
}

func (s *PostService) Create(ctx context.Context, sub policy.Subject, in entity.NewPostInput) (*entity.Post, error) {
	if err := policy.Authorize(sub, policy.CreatePost); err != nil {
		return nil, err
	}
	p, err := entity.NewPost(sub.UserID, in)
	if err != nil {
		return nil, err
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	s.reindex(ctx, p)
	return p, nil
}

// Update applies only the supplied fields. The write is scoped to the caller
// as author; when it matches nothing the post is looked up to report
// not-found or forbidden.
func (s *PostService) Update(ctx context.Context, sub policy.Subject, id string, upd entity.PostUpdate) (*entity.Post, error) {
	if err := policy.Authorize(sub, policy.UpdatePost); err != nil {
		return nil, err
	}
	upd = upd.Normalize()
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	ok, err := s.Posts.Update(ctx, id, sub.UserID, upd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.explainMiss(ctx, sub, policy.UpdatePost, id)
	}
	p, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, p)
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, sub policy.Subject, id string) error {
	if err := policy.Authorize(sub, policy.DeletePost); err != nil {
		return err
	}
	ok, err := s.Posts.Delete(ctx, id, sub.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return s.explainMiss(ctx, sub, policy.DeletePost, id)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", id).Warn("search index remove failed")
		}
	}
	return nil
}

// Search returns posts matching q by relevance. Without an index it returns
// nothing.
func (s *PostService) Search(ctx context.Context, q string) ([]entity.Post, error) {
	out := []entity.Post{}
	if s.Index == nil || q == "" {
		return out, nil
	}
	ids, err := s.Index.Search(ctx, q, searchPageSize)
	if err != nil {
		helpers.LogError(s.Logger, "post search failed", err, logrus.Fields{"q": q})
		metrics.SearchFallbacksTotal.Inc()
		return out, nil
	}
	for _, id := range ids {
		p, err := s.Posts.GetByID(ctx, id)
		if errors.Is(err, entity.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// UploadImage stores the image and points the post's image reference at it.
func (s *PostService) UploadImage(ctx context.Context, sub policy.Subject, id, filename, contentType string, r io.Reader) (*entity.Post, error) {
	if err := policy.Authorize(sub, policy.UpdatePost); err != nil {
		return nil, err
	}
	p, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeOwner(sub, policy.UpdatePost, p.AuthorID); err != nil {
		return nil, err
	}
	if s.Images == nil {
		return nil, ErrImageStorageDisabled
	}
	objectPath := helpers.ObjectPath("posts", p.ID, uuid.NewString(), filename)
	link, err := s.Images.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		helpers.LogError(s.Logger, "image upload failed", err, logrus.Fields{"post_id": p.ID})
		return nil, err
	}
	return s.Update(ctx, sub, id, entity.PostUpdate{ImageLink: entity.SetString(link)})
}

func (s *PostService) explainMiss(ctx context.Context, sub policy.Subject, action policy.Action, id string) error {
	p, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeOwner(sub, action, p.AuthorID); err != nil {
		return err
	}
	// Owner matched but the write did not: the post vanished in between.
	return entity.ErrPostNotFound
}

func (s *PostService) reindex(ctx context.Context, p *entity.Post) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Put(ctx, p); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("post_id", p.ID).Warn("search index put failed")
	}
}
