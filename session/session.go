// Package session holds the authenticated user's profile and bearer token
// for the lifetime of the process. The refresh token is the only credential
// that outlives the process, persisted through the storage repo.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/Slayer-Regen/ecoquest-client/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

var ErrNoSession = errors.New("no active session")

// User is the denormalized profile snapshot served by GET /api/users. The
// aggregate fields are server-computed and refreshed opportunistically.
type User struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	DisplayName     string  `json:"displayName"`
	AvatarURL       string  `json:"avatarUrl,omitempty"`
	TotalCo2Kg      float64 `json:"totalCo2Kg"`
	PointsBalance   int64   `json:"pointsBalance"`
	TotalActivities int64   `json:"totalActivities"`
}

// Snapshot is a read-only projection of the store, safe to hand out across
// goroutines. IsAuthenticated is derived: true iff Token is non-empty.
type Snapshot struct {
	User            *User
	Token           string
	IsAuthenticated bool
	TokenExpiry     time.Time // zero when the token carries no exp claim
}

// Store is the single source of truth for "who is logged in". The bearer
// token lives only in memory; the refresh token goes through the storage
// repo so it survives restarts.
type Store struct {
	storage storage.Repo

	lock    sync.RWMutex
	user    *User
	token   string
	subs    map[int]chan Snapshot
	nextSub int
}

func NewStore(repo storage.Repo) *Store {
	return &Store{
		storage: repo,
		subs:    make(map[int]chan Snapshot),
	}
}

// SetCredentials replaces the user and token atomically. The refresh token
// is untouched. A user is never retained without a token.
func (s *Store) SetCredentials(user *User, token string) {
	s.lock.Lock()
	if token == "" {
		user = nil
	}
	s.user = user
	s.token = token
	snap := s.snapshotLocked()
	s.lock.Unlock()

	s.notify(snap)
}

// SetRefreshToken persists the refresh token to durable storage. It is kept
// separate from SetCredentials so credential replacement never touches it.
func (s *Store) SetRefreshToken(refreshToken string) error {
	return s.storage.Set(storage.KeyRefreshToken, refreshToken)
}

// RefreshToken returns the persisted refresh token, or ErrNoSession when
// none is stored.
func (s *Store) RefreshToken() (string, error) {
	value, err := s.storage.Get(storage.KeyRefreshToken)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", ErrNoSession
	}
	return value, err
}

// Logout clears the user, the token, and the persisted refresh token. The
// store never clears partially: even if the storage delete fails, the
// in-memory session is already gone and the error is reported for the
// caller to surface. Navigation back to the login route is the caller's
// responsibility.
func (s *Store) Logout() error {
	s.lock.Lock()
	s.user = nil
	s.token = ""
	snap := s.snapshotLocked()
	s.lock.Unlock()

	s.notify(snap)

	if err := s.storage.Delete(storage.KeyRefreshToken); err != nil {
		log.Err(err).Msg("Failed to clear persisted refresh token")
		return err
	}
	return nil
}

// Snapshot returns the current session fields.
func (s *Store) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	var user *User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return Snapshot{
		User:            user,
		Token:           s.token,
		IsAuthenticated: s.token != "",
		TokenExpiry:     tokenExpiry(s.token),
	}
}

// Token implements oauth2.TokenSource for the request layer. It returns
// ErrNoSession when unauthenticated; callers decide whether that means
// "send the request without credentials" or "refuse".
func (s *Store) Token() (*oauth2.Token, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.token == "" {
		return nil, ErrNoSession
	}
	return &oauth2.Token{
		AccessToken: s.token,
		TokenType:   "Bearer",
		Expiry:      tokenExpiry(s.token),
	}, nil
}

var _ oauth2.TokenSource = (*Store)(nil)

// Subscribe returns a channel carrying a snapshot after every mutation and
// a cancel function releasing it. Slow receivers only miss intermediate
// states, never the latest one.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.lock.Lock()
	defer s.lock.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	return ch, func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(snap Snapshot) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Replace the stale pending snapshot with the current one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// tokenExpiry peeks at the bearer token's exp claim without verifying the
// signature; the client has no signing key and only uses the expiry for
// display. Opaque (non-JWT) tokens yield a zero time.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
