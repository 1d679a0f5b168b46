package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/policy"
	repo "github.com/oksasatya/blog-api/internal/domain/repository"
	"github.com/oksasatya/blog-api/pkg/helpers"
	"github.com/oksasatya/blog-api/pkg/mailer"
)

type UserService struct {
	Users  repo.UserRepository
	Posts  repo.PostRepository
	Likes  repo.LikeRepository
	Hasher PasswordHasher
	Tokens TokenIssuer
	Events EventPublisher  // optional
	Index  PostSearchIndex // optional
	Logger *logrus.Logger
}

// AccessToken is what a successful login hands back to the client.
type AccessToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"-"`
}

// Register validates and stores a new account. The email is checked first so
// a duplicate reports a conflict before any hashing happens.
func (s *UserService) Register(ctx context.Context, in entity.NewUserInput) (*entity.User, error) {
	if err := entity.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, entity.ErrUserExists
	} else if !errors.Is(err, entity.ErrNotFound) {
		return nil, err
	}
	u, err := entity.NewUser(in, s.Hasher.Hash)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if !errors.Is(err, entity.ErrConflict) {
			helpers.LogError(s.Logger, "create user failed", err, logrus.Fields{"email": u.Email})
		}
		return nil, err
	}
	s.publish(ctx, mailer.EventUserRegistered, u)
	return u, nil
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*AccessToken, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsActive || !s.Hasher.Verify(password, u.Password) {
		return nil, entity.ErrInvalidCredentials
	}
	tok, exp, err := s.Tokens.GenerateAccessToken(u.ID, u.Role.String())
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, err
	}
	return &AccessToken{AccessToken: tok, TokenType: helpers.TokenType, ExpiresAt: exp}, nil
}

// ResetPassword replaces the caller's password after verifying the current
// one. The stored digest is untouched on any failure.
func (s *UserService) ResetPassword(ctx context.Context, sub policy.Subject, oldPassword, newPassword string) error {
	if sub.UserID == "" {
		return entity.ErrUnauthorized
	}
	if err := entity.ValidatePassword(newPassword); err != nil {
		return err
	}
	err := s.Users.UpdatePassword(ctx, sub.UserID, func(current string) (string, error) {
		if !s.Hasher.Verify(oldPassword, current) {
			return "", entity.ErrWrongPassword
		}
		return s.Hasher.Hash(newPassword)
	})
	if err != nil {
		return err
	}
	if u, err := s.Users.GetByID(ctx, sub.UserID); err == nil {
		s.publish(ctx, mailer.EventPasswordChanged, u)
	}
	return nil
}

// Get returns the user with their posts and liked posts inlined.
func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, sub policy.Subject) ([]entity.User, error) {
	if err := policy.Authorize(sub, policy.ListUsers); err != nil {
		return nil, err
	}
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if err := s.hydrate(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Delete removes a user and, through the store's cascade, everything they own.
func (s *UserService) Delete(ctx context.Context, sub policy.Subject, id string) error {
	if err := policy.Authorize(sub, policy.DeleteUser); err != nil {
		return err
	}
	var owned []entity.Post
	if s.Index != nil {
		var err error
		if owned, err = s.Posts.ListByAuthor(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("listing posts for index cleanup failed")
		}
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	for _, p := range owned {
		if err := s.Index.Remove(ctx, p.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", p.ID).Warn("search index remove failed")
		}
	}
	return nil
}

func (s *UserService) hydrate(ctx context.Context, u *entity.User) error {
	posts, err := s.Posts.ListByAuthor(ctx, u.ID)
	if err != nil {
		return err
	}
	liked, err := s.Likes.LikedPosts(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Posts, u.LikedPosts = posts, liked
	return nil
}

func (s *UserService) publish(ctx context.Context, typ string, u *entity.User) {
	if s.Events == nil {
		if s.Logger != nil {
			s.Logger.WithField("event", typ).Debug("events disabled, dropping")
		}
		return
	}
	ev := mailer.UserEvent{Type: typ, UserID: u.ID, Username: u.Username, Email: u.Email, OccurredAt: time.Now().UTC()}
	if err := s.Events.PublishJSON(ctx, typ, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"event": typ, "user_id": u.ID}).Warn("publish event failed")
	}
}
