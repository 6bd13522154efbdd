// Package admin gates the admin panel. Credentials are checked against bcrypt
// hashes in the admins table, and a logged-in admin is remembered by an
// opaque session token kept in redis.
package admin

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

var (
	ErrBadCredentials  = errors.New("username / password admin salah")
	ErrTooManyAttempts = errors.New("terlalu banyak percobaan login, coba lagi nanti")
)

type Accounts interface {
	FindByUsername(ctx context.Context, username string) (Account, error)
}

type SessionStore interface {
	Create(ctx context.Context, username string) (Session, error)
}

// Authenticator throttles attempts per client IP before touching the DB.
type Authenticator struct {
	Accounts Accounts
	Sessions SessionStore

	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	lastSweep time.Time
	perMin    int
	now       func() time.Time
}

type ipLimiter struct {
	*rate.Limiter
	seen time.Time
}

// limiterIdle: setelah selama ini bucket sudah penuh lagi, jadi entry boleh dibuang.
const limiterIdle = time.Minute

func NewAuthenticator(acc Accounts, sessions SessionStore, attemptsPerMin int) *Authenticator {
	if attemptsPerMin <= 0 {
		attemptsPerMin = 10
	}
	return &Authenticator{
		Accounts: acc,
		Sessions: sessions,
		limiters: map[string]*ipLimiter{},
		perMin:   attemptsPerMin,
		now:      time.Now,
	}
}

func (a *Authenticator) allow(ip string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	if now.Sub(a.lastSweep) >= limiterIdle {
		for k, l := range a.limiters {
			if now.Sub(l.seen) >= limiterIdle {
				delete(a.limiters, k)
			}
		}
		a.lastSweep = now
	}
	l, ok := a.limiters[ip]
	if !ok {
		l = &ipLimiter{Limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(a.perMin)), a.perMin)}
		a.limiters[ip] = l
	}
	l.seen = now
	return l.AllowN(now, 1)
}

func (a *Authenticator) Login(ctx context.Context, ip, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, apperr.Invalid("username", "username dan password wajib diisi")
	}
	if !a.allow(ip) {
		log.Ctx(ctx).Warn().Str("ip", ip).Msg("admin login throttled")
		return Session{}, ErrTooManyAttempts
	}

	acc, err := a.Accounts.FindByUsername(ctx, username)
	if apperr.IsNotFound(err) {
		// tetap hitung bcrypt supaya timing tidak membocorkan username
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Session{}, ErrBadCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return Session{}, ErrBadCredentials
	}
	s, err := a.Sessions.Create(ctx, acc.Username)
	if err != nil {
		return Session{}, err
	}
	log.Ctx(ctx).Info().Str("admin", acc.Username).Msg("admin login")
	return s, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), hashCost)
