package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/dmitrijs2005/gophprofile/internal/client/identity"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/repositories/profiles"
)

type fakeAccount struct {
	id       string
	password string
	name     string
}

// fakeIdentity is an in-memory identity backend that records every call.
type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]*fakeAccount
	current  *models.Session
	calls    []string
	nextID   int

	createErr  error
	signInErr  error
	signOutErr error
	setNameErr error
	reauthErr  error
	changeErr  error

	// afterSetName runs once SetDisplayName returns, outside the lock.
	afterSetName func()

	events chan *models.Session
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts: make(map[string]*fakeAccount),
		events:   make(chan *models.Session, 16),
	}
}

func (f *fakeIdentity) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeIdentity) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeIdentity) Called(call string) bool {
	for _, c := range f.Calls() {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeIdentity) CreateAccount(_ context.Context, email, password string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateAccount")

	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.accounts[email]; ok {
		return nil, &client.AccountError{Code: identity.CodeEmailAlreadyInUse}
	}
	f.nextID++
	acc := &fakeAccount{id: fmt.Sprintf("uid-%d", f.nextID), password: password}
	f.accounts[email] = acc
	f.current = &models.Session{UserID: acc.id, Email: email}
	return f.current.Clone(), nil
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignIn")

	if f.signInErr != nil {
		return nil, f.signInErr
	}
	acc, ok := f.accounts[email]
	if !ok {
		return nil, &client.AccountError{Code: identity.CodeUserNotFound}
	}
	if acc.password != password {
		return nil, &client.AccountError{Code: identity.CodeWrongPassword}
	}
	f.current = &models.Session{UserID: acc.id, Email: email, DisplayName: acc.name}
	return f.current.Clone(), nil
}

func (f *fakeIdentity) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignOut")
	f.current = nil
	return f.signOutErr
}

func (f *fakeIdentity) account() *fakeAccount {
	if f.current == nil {
		return nil
	}
	return f.accounts[f.current.Email]
}

func (f *fakeIdentity) SetDisplayName(_ context.Context, name string) error {
	err := f.setDisplayName(name)
	if f.afterSetName != nil {
		f.afterSetName()
	}
	return err
}

func (f *fakeIdentity) setDisplayName(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetDisplayName")

	if f.setNameErr != nil {
		return f.setNameErr
	}
	acc := f.account()
	if acc == nil {
		return client.ErrNotSignedIn
	}
	acc.name = name
	f.current.DisplayName = name
	return nil
}

func (f *fakeIdentity) ChangePassword(_ context.Context, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ChangePassword")

	if f.changeErr != nil {
		return f.changeErr
	}
	acc := f.account()
	if acc == nil {
		return client.ErrNotSignedIn
	}
	acc.password = newPassword
	return nil
}

func (f *fakeIdentity) Reauthenticate(_ context.Context, email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Reauthenticate")

	if f.reauthErr != nil {
		return f.reauthErr
	}
	acc, ok := f.accounts[email]
	if !ok || acc.password != password {
		return &client.AccountError{Code: identity.CodeWrongPassword}
	}
	return nil
}

func (f *fakeIdentity) SessionChanges(context.Context) <-chan *models.Session {
	return f.events
}

func (f *fakeIdentity) displayName(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if acc, ok := f.accounts[email]; ok {
		return acc.name
	}
	return ""
}

func (f *fakeIdentity) password(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if acc, ok := f.accounts[email]; ok {
		return acc.password
	}
	return ""
}

// fakeStore is an in-memory profiles.Store.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]models.ProfileRecord

	readErr   error
	writeErr  error
	updateErr error

	reads, writes, updates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]models.ProfileRecord)}
}

func (s *fakeStore) Read(_ context.Context, userID string) (*models.ProfileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}
	rec, ok := s.records[userID]
	if !ok {
		return nil, profiles.ErrNotFound
	}
	return &rec, nil
}

func (s *fakeStore) Write(_ context.Context, rec models.ProfileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	s.records[rec.UserID] = rec
	return nil
}

func (s *fakeStore) Update(_ context.Context, userID string, u models.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	rec, ok := s.records[userID]
	if !ok {
		return profiles.ErrNotFound
	}
	u.Apply(&rec)
	s.records[userID] = rec
	return nil
}

func (s *fakeStore) get(userID string) (models.ProfileRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	return rec, ok
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type fakeOracle struct {
	ch chan bool
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{ch: make(chan bool, 16)}
}

func (o *fakeOracle) Changes(context.Context) <-chan bool {
	return o.ch
}
