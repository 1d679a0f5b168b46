package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/blog-api/pkg/helpers"
)

// Step is where a chat currently is in a dialogue.
type Step string

const (
	StepIdle             Step = ""
	StepAwaitEmail       Step = "await_email"
	StepAwaitPassword    Step = "await_password"
	StepAwaitOldPassword Step = "await_old_password"
	StepAwaitNewPassword Step = "await_new_password"
)

// Session holds the fields collected so far in the current dialogue.
type Session struct {
	Step        Step   `json:"step"`
	Email       string `json:"email,omitempty"`
	OldPassword string `json:"old_password,omitempty"`
}

const keyPrefix = "blog:bot:chat:"

// StateStore keeps per-chat sessions and access tokens in Redis.
type StateStore struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewStateStore(rdb *redis.Client, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &StateStore{RDB: rdb, TTL: ttl}
}

func sessionKey(chatID int64) string { return fmt.Sprintf("%s%d:session", keyPrefix, chatID) }
func tokenKey(chatID int64) string   { return fmt.Sprintf("%s%d:token", keyPrefix, chatID) }

// Session returns the idle session when none is stored.
func (s *StateStore) Session(ctx context.Context, chatID int64) (Session, error) {
	var sess Session
	if _, err := helpers.RedisGetJSON(ctx, s.RDB, sessionKey(chatID), &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *StateStore) SaveSession(ctx context.Context, chatID int64, sess Session) error {
	return helpers.RedisSetJSON(ctx, s.RDB, sessionKey(chatID), sess, s.TTL)
}

func (s *StateStore) ClearSession(ctx context.Context, chatID int64) error {
	return helpers.RedisDel(ctx, s.RDB, sessionKey(chatID))
}

// Token reports "" when the chat has not logged in.
func (s *StateStore) Token(ctx context.Context, chatID int64) (string, error) {
	var tok string
	if _, err := helpers.RedisGetJSON(ctx, s.RDB, tokenKey(chatID), &tok); err != nil {
		return "", err
	}
	return tok, nil
}

func (s *StateStore) SetToken(ctx context.Context, chatID int64, token string) error {
	return helpers.RedisSetJSON(ctx, s.RDB, tokenKey(chatID), token, s.TTL)
}

func (s *StateStore) ClearToken(ctx context.Context, chatID int64) error {
	return helpers.RedisDel(ctx, s.RDB, tokenKey(chatID))
}

// Forget drops everything stored for the chat.
func (s *StateStore) Forget(ctx context.Context, chatID int64) error {
	return helpers.RedisDel(ctx, s.RDB, sessionKey(chatID), tokenKey(chatID))
}
