package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/rs/zerolog/log"
)

// ErrNoCart is returned by a Backend when nothing is stored for the session.
var ErrNoCart = errors.New("cart: not found")

// Backend persists the serialized cart of one session.
type Backend interface {
	Load(ctx context.Context, sid string) ([]byte, error)
	Save(ctx context.Context, sid string, b []byte) error
	Delete(ctx context.Context, sid string) error
}

// Store implements get/add/remove/clear over a Backend. Each operation is a
// read-then-write of the whole cart; a per-session lock serializes writers
// inside this process.
type Store struct {
	backend Backend

	mu    sync.Mutex
	locks map[string]*sidLock // hanya sid yang sedang dipakai
}

type sidLock struct {
	sync.Mutex
	refs int
}

func NewStore(b Backend) *Store { return &Store{backend: b, locks: map[string]*sidLock{}} }

// lock serializes writers of one sid. The entry is dropped once no caller
// holds or waits for it.
func (s *Store) lock(sid string) func() {
	s.mu.Lock()
	l, ok := s.locks[sid]
	if !ok {
		l = &sidLock{}
		s.locks[sid] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, sid)
		}
		s.mu.Unlock()
	}
}

// Get returns the stored cart, or an empty one if it is absent or unreadable.
func (s *Store) Get(ctx context.Context, sid string) Cart {
	b, err := s.backend.Load(ctx, sid)
	if err != nil {
		if !errors.Is(err, ErrNoCart) {
			log.Ctx(ctx).Warn().Err(err).Str("sid", sid).Msg("cart load failed, using empty cart")
		}
		return Cart{}
	}
	c, err := Unmarshal(b)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("sid", sid).Msg("cart unparsable, using empty cart")
		return Cart{}
	}
	return c
}

// Add puts one unit of p into the cart and returns the resulting item.
func (s *Store) Add(ctx context.Context, sid string, p catalog.Product) (Item, error) {
	defer s.lock(sid)()
	c, it := s.Get(ctx, sid).Add(p)
	return it, s.save(ctx, sid, c)
}

// Remove deletes the item at index; an invalid index leaves the cart as is.
func (s *Store) Remove(ctx context.Context, sid string, index int) error {
	defer s.lock(sid)()
	c, changed := s.Get(ctx, sid).Remove(index)
	if !changed {
		return nil
	}
	return s.save(ctx, sid, c)
}

// RemoveIDs deletes the items for the given product IDs.
func (s *Store) RemoveIDs(ctx context.Context, sid string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	defer s.lock(sid)()
	c := s.Get(ctx, sid).Without(ids...)
	if len(c) == 0 {
		return s.backend.Delete(ctx, sid)
	}
	return s.save(ctx, sid, c)
}

func (s *Store) Clear(ctx context.Context, sid string) error {
	defer s.lock(sid)()
	return s.backend.Delete(ctx, sid)
}

func (s *Store) save(ctx context.Context, sid string, c Cart) error {
	b, err := Marshal(c)
	if err != nil {
		return err
	}
	return s.backend.Save(ctx, sid, b)
}
