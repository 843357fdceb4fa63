package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/UmidYul/21-IDUM/internal/store"
	"github.com/UmidYul/21-IDUM/model"
)

var ErrSessionNotFound = errors.New("session not found")

// Store owns the session collection inside the shared document. No other
// component mutates that collection.
type Store struct {
	db     *store.DocumentStore
	maxAge time.Duration
}

func NewStore(db *store.DocumentStore, maxAge time.Duration) *Store {
	return &Store{db: db, maxAge: maxAge}
}

func (s *Store) MaxAge() time.Duration {
	return s.maxAge
}

// Create stores a new session for user under token. The session is only
// active once the document write completed; a persist failure bubbles up
// so the caller never hands out a token that was not durably stored.
func (s *Store) Create(ctx context.Context, token string, user model.Identity) (*model.Session, error) {
	now := time.Now().UTC()
	sess := model.Session{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.maxAge),
	}
	err := s.db.Update(func(doc *model.Document) error {
		doc.Sessions = append(doc.Sessions, sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Resolve maps a token to the identity captured at creation time. An
// expired session is deleted write-through and reported as not found.
// Role changes made to the user after login intentionally do not show
// up here until the session is re-issued.
func (s *Store) Resolve(ctx context.Context, token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, ErrSessionNotFound
	}

	var (
		found   model.Session
		expired bool
	)
	err := s.db.View(func(doc *model.Document) error {
		for i := range doc.Sessions {
			if doc.Sessions[i].Token == token {
				found = doc.Sessions[i]
				expired = found.Expired(time.Now().UTC())
				return nil
			}
		}
		return ErrSessionNotFound
	})
	if err != nil {
		return model.Identity{}, err
	}
	if expired {
		if err := s.Delete(ctx, token); err != nil {
			return model.Identity{}, err
		}
		return model.Identity{}, ErrSessionNotFound
	}
	return found.Identity(), nil
}

// Delete removes the session under token. Removing an unknown token is
// not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.db.Update(func(doc *model.Document) error {
		for i := range doc.Sessions {
			if doc.Sessions[i].Token == token {
				doc.Sessions = append(doc.Sessions[:i], doc.Sessions[i+1:]...)
				return nil
			}
		}
		return store.ErrNoChange
	})
}

// SweepExpired removes every expired session, persisting only when at
// least one was removed. Returns the number of sessions removed.
func (s *Store) SweepExpired(ctx context.Context) (int, error) {
	removed := 0
	err := s.db.Update(func(doc *model.Document) error {
		now := time.Now().UTC()
		kept := doc.Sessions[:0]
		for _, sess := range doc.Sessions {
			if sess.Expired(now) {
				removed++
				continue
			}
			kept = append(kept, sess)
		}
		doc.Sessions = kept
		if removed == 0 {
			return store.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
