package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNoSession = errors.New("admin session not found")

type Session struct {
	Token    string
	Username string
}

// Sessions keeps admin_session:{token} hashes with the isAdmin / adminUser
// fields. The token is opaque; holding it is what "logged in" means.
type Sessions struct{ Redis *redis.Client }

func (s *Sessions) Create(ctx context.Context, username string) (Session, error) {
	sess := Session{Token: uuid.NewString(), Username: username}
	key := fmt.Sprintf(redisx.KeyAdminSession, sess.Token)
	_, err := s.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, redisx.FieldIsAdmin, "1", redisx.FieldAdminUser, username)
		p.Expire(ctx, key, redisx.TTLAdminSession)
		return nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("create admin session: %w", err)
	}
	return sess, nil
}

func (s *Sessions) Get(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}
	vals, err := s.Redis.HGetAll(ctx, fmt.Sprintf(redisx.KeyAdminSession, token)).Result()
	if err != nil {
		return Session{}, fmt.Errorf("load admin session: %w", err)
	}
	if vals[redisx.FieldIsAdmin] != "1" {
		return Session{}, ErrNoSession
	}
	return Session{Token: token, Username: vals[redisx.FieldAdminUser]}, nil
}

func (s *Sessions) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyAdminSession, token)).Err()
}
