// Package auth keeps registered users and the identity of the current
// user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/storage"
	"github.com/iliyamo/cinemax-booking/internal/utils"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalid            = errors.New("invalid registration")
)

// Registration is the input accepted by Register.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Store owns the users collection.  Email matching is exact and case
// sensitive.
type Store struct {
	mu        sync.RWMutex
	kv        storage.Store
	newID     utils.IDGenerator
	clock     clockwork.Clock
	cost      int
	validate  *validator.Validate
	users     []model.User
	currentID string
}

// Option customises a Store.
type Option func(*Store)

func WithIDGenerator(g utils.IDGenerator) Option { return func(s *Store) { s.newID = g } }
func WithClock(c clockwork.Clock) Option         { return func(s *Store) { s.clock = c } }
func WithBcryptCost(cost int) Option             { return func(s *Store) { s.cost = cost } }

// New returns an empty auth store.  Call Restore to load persisted users.
func New(kv storage.Store, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		newID:    utils.NewUUID,
		clock:    clockwork.NewRealClock(),
		validate: validator.New(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type currentPointer struct {
	UserID string `json:"userId"`
}

// Restore loads users and the persisted current identity.  A pointer to
// a user that no longer exists is dropped.
func (s *Store) Restore(ctx context.Context) error {
	var users []model.User
	if _, err := storage.GetJSON(ctx, s.kv, storage.KeyUsers, &users); err != nil {
		return fmt.Errorf("restore users: %w", err)
	}
	var cur currentPointer
	if _, err := storage.GetJSON(ctx, s.kv, storage.KeyAuth, &cur); err != nil {
		return fmt.Errorf("restore identity: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.currentID = ""
	if s.indexOf(cur.UserID) >= 0 {
		s.currentID = cur.UserID
	}
	return nil
}

// Register creates a user with role user and signs them in.  An email
// that is already registered fails with ErrDuplicateEmail before the
// rest of the input is looked at.
func (s *Store) Register(ctx context.Context, name, email, password string) (model.User, error) {
	s.mu.RLock()
	taken := s.byEmail(email) >= 0
	s.mu.RUnlock()
	if taken {
		return model.User{}, ErrDuplicateEmail
	}

	in := Registration{Name: name, Email: email, Password: password}
	if err := s.validate.Struct(in); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return model.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// re-check: another registration may have won while hashing
	if s.byEmail(email) >= 0 {
		return model.User{}, ErrDuplicateEmail
	}
	u := model.User{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      model.RoleUser,
		CreatedAt: s.clock.Now().UTC(),
	}
	next := append(append([]model.User{}, s.users...), u)

	b := storage.NewBatch()
	if err := b.Put(storage.KeyUsers, next); err != nil {
		return model.User{}, err
	}
	if err := b.Put(storage.KeyAuth, currentPointer{UserID: u.ID}); err != nil {
		return model.User{}, err
	}
	if err := b.Commit(ctx, s.kv); err != nil {
		return model.User{}, err
	}
	s.users = next
	s.currentID = u.ID
	return u, nil
}

// Authenticate returns the user whose email and password both match
// without touching the current identity.  An unknown email and a wrong
// password fail the same way.
func (s *Store) Authenticate(email, password string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.byEmail(email)
	if i < 0 || !utils.VerifyPassword(s.users[i].Password, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return s.users[i], nil
}

// Login authenticates and makes the user the persisted current identity.
func (s *Store) Login(ctx context.Context, email, password string) (model.User, error) {
	u, err := s.Authenticate(email, password)
	if err != nil {
		return model.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := storage.SetJSON(ctx, s.kv, storage.KeyAuth, currentPointer{UserID: u.ID}); err != nil {
		return model.User{}, err
	}
	s.currentID = u.ID
	return u, nil
}

// Logout forgets the current identity.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(ctx, storage.KeyAuth); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.currentID = ""
	return nil
}

// Current returns the signed-in user, if any.
func (s *Store) Current() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(s.currentID); i >= 0 && s.currentID != "" {
		return s.users[i], true
	}
	return model.User{}, false
}

// User looks a user up by id.
func (s *Store) User(id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.users[i], nil
	}
	return model.User{}, ErrUserNotFound
}

// Users lists every registered user.
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.User(nil), s.users...)
}

func (s *Store) indexOf(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) byEmail(email string) int {
	for i := range s.users {
		if s.users[i].Email == email {
			return i
		}
	}
	return -1
}
