// Package session implements the Coordinator: the single authoritative
// source of who is signed in and what their profile is.
//
// The coordinator owns its state. It is changed by the four account
// operations and by two inbound event streams consumed in Run: session
// changes from the identity backend and reachability changes from the
// connectivity oracle. Screens read copies and observe changes through
// Subscribe.
package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/dmitrijs2005/gophprofile/internal/client/i18n"
	"github.com/dmitrijs2005/gophprofile/internal/client/metrics"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

// Operation names used in logs and metrics.
const (
	OpRegister      = "register"
	OpLogin         = "login"
	OpLogout        = "logout"
	OpUpdateProfile = "update_profile"
)

const (
	keyCredentialsRequired    = "error.credentials-required"
	keyCurrentPasswordMissing = "error.current-password-missing"
	keyGraduationYearRange    = "form.graduationYear.gradyear"
)

// Oracle reports backend reachability. Changes delivers observations in
// order and is closed when ctx is done.
type Oracle interface {
	Changes(ctx context.Context) <-chan bool
}

type Option func(*Coordinator)

func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

func WithTranslator(tr *i18n.Translator) Option {
	return func(c *Coordinator) { c.tr = tr }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Coordinator) { c.metrics = r }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

type Coordinator struct {
	identity client.Identity
	store    profiles.Store
	oracle   Oracle

	logger  logging.Logger
	tr      *i18n.Translator
	metrics *metrics.Recorder
	now     func() time.Time

	mu        sync.RWMutex
	state     State
	session   *models.Session
	profile   *models.ProfileRecord
	connected bool

	// obsMu is taken before mu when both are needed.
	obsMu     sync.Mutex
	observers map[int]chan Snapshot
	nextObs   int
}

// NewCoordinator builds a coordinator in StateUnknown. A nil oracle means
// the backend is always considered reachable.
func NewCoordinator(id client.Identity, store profiles.Store, oracle Oracle, opts ...Option) *Coordinator {
	c := &Coordinator{
		identity:  id,
		store:     store,
		oracle:    oracle,
		logger:    logging.Nop(),
		now:       time.Now,
		state:     StateUnknown,
		connected: true,
		observers: make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tr == nil {
		c.tr = i18n.NewTranslator(i18n.BaseLocale)
	}
	c.logger = c.logger.With("module", "session")
	c.metrics.SetSessionState(int(c.state))
	c.metrics.SetConnected(c.connected)
	return c
}

// Run consumes session and connectivity notifications until ctx is done
// or both streams are closed.
func (c *Coordinator) Run(ctx context.Context) {
	sessions := c.identity.SessionChanges(ctx)

	var reachability <-chan bool
	if c.oracle != nil {
		reachability = c.oracle.Changes(ctx)
	}

	for sessions != nil || reachability != nil {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-sessions:
			if !ok {
				sessions = nil
				continue
			}
			c.onSession(ctx, s)
		case up, ok := <-reachability:
			if !ok {
				reachability = nil
				continue
			}
			c.onConnectivity(ctx, up)
		}
	}
}

func (c *Coordinator) onSession(ctx context.Context, s *models.Session) {
	load := c.mergeSession(s)
	c.notify()
	if load != "" {
		c.loadProfile(ctx, load)
	}
}

// mergeSession applies a session notification. Applying the same
// notification twice leaves the state unchanged. It returns the user id
// whose profile is not cached yet, or "".
func (c *Coordinator) mergeSession(s *models.Session) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s == nil {
		c.session = nil
		c.profile = nil
		c.state = StateAnonymous
		return ""
	}

	next := s.Clone()
	if c.session != nil && c.session.UserID == next.UserID {
		if next.DisplayName == "" {
			next.DisplayName = c.session.DisplayName
		}
	} else {
		c.profile = nil
	}
	c.session = next
	c.state = StateAuthenticated

	if c.profile == nil {
		return next.UserID
	}
	return ""
}

func (c *Coordinator) onConnectivity(ctx context.Context, up bool) {
	c.mu.Lock()
	changed := c.connected != up
	c.connected = up
	c.mu.Unlock()

	if !changed {
		return
	}
	c.logger.Info(ctx, "connectivity changed", "connected", up)
	c.notify()
}

// loadProfile fills the profile cache of userID when it is still the
// signed-in user and nothing cached it meanwhile.
func (c *Coordinator) loadProfile(ctx context.Context, userID string) {
	rec, err := c.store.Read(ctx, userID)
	if err != nil {
		if !errors.Is(err, profiles.ErrNotFound) {
			c.logger.Warn(ctx, "profile load failed", "user_id", userID, "error", err)
		}
		return
	}

	c.mu.Lock()
	fill := c.session != nil && c.session.UserID == userID && c.profile == nil
	if fill {
		c.profile = rec.Clone()
	}
	c.mu.Unlock()

	if fill {
		c.notify()
	}
}

// Register creates an account, names it and writes its profile record.
func (c *Coordinator) Register(ctx context.Context, email, password string, fields models.ProfileFields) Result {
	start := time.Now()
	return c.finish(ctx, OpRegister, start, c.register(ctx, email, password, fields))
}

func (c *Coordinator) register(ctx context.Context, email, password string, fields models.ProfileFields) Result {
	if !c.IsConnected() {
		return c.fail(CodeNetworkOffline, "")
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return c.fail(CodeValidationFailed, keyCredentialsRequired)
	}

	now := c.now()
	year := 0
	if y := strings.TrimSpace(fields.GraduationYear); y != "" {
		var err error
		if year, err = models.ParseGraduationYear(y, now); err != nil {
			return c.yearOutOfRange(now)
		}
	}

	sess, err := c.identity.CreateAccount(ctx, email, password)
	if err != nil {
		return c.failFrom(err)
	}

	name := strings.TrimSpace(fields.Name)
	if name != "" {
		if err := c.identity.SetDisplayName(ctx, name); err != nil {
			c.logger.Warn(ctx, "failed to set display name", "user_id", sess.UserID, "error", err)
		} else {
			sess.DisplayName = name
		}
	}

	rec := c.minimalRecord(sess, now)
	rec.Email = email
	rec.DisplayName = name
	rec.DegreeTitle = strings.TrimSpace(fields.DegreeTitle)
	rec.GraduationYear = year

	if err := c.store.Write(ctx, rec); err != nil {
		c.logger.Warn(ctx, "profile write failed", "user_id", sess.UserID, "error", err)
	}

	c.setAuthenticated(sess, &rec)
	return succeeded(sess.Clone())
}

// Login signs in and makes sure a profile record exists for the user.
func (c *Coordinator) Login(ctx context.Context, email, password string) Result {
	start := time.Now()
	return c.finish(ctx, OpLogin, start, c.login(ctx, email, password))
}

func (c *Coordinator) login(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return c.fail(CodeValidationFailed, keyCredentialsRequired)
	}
	if !c.IsConnected() {
		return c.fail(CodeNetworkOffline, "")
	}

	sess, err := c.identity.SignIn(ctx, email, password)
	if err != nil {
		return c.failFrom(err)
	}

	c.setAuthenticated(sess, c.syncProfile(ctx, sess))
	return succeeded(sess.Clone())
}

// syncProfile reads the record of sess, creating a minimal one when it
// is missing, and refreshes its last access time. Failures are logged and
// yield whatever could be read.
func (c *Coordinator) syncProfile(ctx context.Context, sess *models.Session) *models.ProfileRecord {
	now := c.now()

	rec, err := c.store.Read(ctx, sess.UserID)
	switch {
	case errors.Is(err, profiles.ErrNotFound):
		repaired := c.minimalRecord(sess, now)
		if err := c.store.Write(ctx, repaired); err != nil {
			c.logger.Warn(ctx, "profile repair failed", "user_id", sess.UserID, "error", err)
		} else {
			c.logger.Info(ctx, "profile repaired", "user_id", sess.UserID)
		}
		return &repaired
	case err != nil:
		c.logger.Warn(ctx, "profile read failed", "user_id", sess.UserID, "error", err)
		return nil
	}

	if err := c.store.Update(ctx, sess.UserID, models.ProfileUpdate{LastAccessAt: &now}); err != nil {
		c.logger.Warn(ctx, "last access update failed", "user_id", sess.UserID, "error", err)
		return rec
	}
	rec.LastAccessAt = now
	return rec
}

func (c *Coordinator) minimalRecord(sess *models.Session, now time.Time) models.ProfileRecord {
	return models.ProfileRecord{
		UserID:       sess.UserID,
		Email:        sess.Email,
		DisplayName:  sess.DisplayName,
		CreatedAt:    now,
		LastAccessAt: now,
		Active:       true,
	}
}

// Logout ends the backend session and always clears the local one.
func (c *Coordinator) Logout(ctx context.Context) Result {
	start := time.Now()

	if err := c.identity.SignOut(ctx); err != nil {
		c.logger.Warn(ctx, "sign out failed", "error", err)
	}

	c.mu.Lock()
	c.session = nil
	c.profile = nil
	c.state = StateAnonymous
	c.mu.Unlock()
	c.notify()

	return c.finish(ctx, OpLogout, start, succeeded(nil))
}

// UpdateProfile renames the user, optionally changes the password and
// merges the non-empty fields into the profile record.
func (c *Coordinator) UpdateProfile(ctx context.Context, fields models.ProfileFields, newPassword string) Result {
	start := time.Now()
	return c.finish(ctx, OpUpdateProfile, start, c.updateProfile(ctx, fields, newPassword))
}

func (c *Coordinator) updateProfile(ctx context.Context, fields models.ProfileFields, newPassword string) Result {
	sess := c.CurrentSession()
	if sess == nil {
		return c.fail(CodeUnauthenticated, "")
	}
	if !c.IsConnected() {
		return c.fail(CodeNetworkOffline, "")
	}

	changePassword := strings.TrimSpace(newPassword) != ""
	if changePassword && fields.CurrentPassword == "" {
		return c.fail(CodeValidationFailed, keyCurrentPasswordMissing)
	}

	now := c.now()
	var update models.ProfileUpdate

	if y := strings.TrimSpace(fields.GraduationYear); y != "" {
		year, err := models.ParseGraduationYear(y, now)
		if err != nil {
			return c.yearOutOfRange(now)
		}
		update.GraduationYear = &year
	}

	name := strings.TrimSpace(fields.Name)
	if name == "" {
		name = sess.DisplayName
	}
	if name != "" {
		if err := c.identity.SetDisplayName(ctx, name); err != nil {
			return c.failFrom(err)
		}
		update.DisplayName = &name
	}

	if changePassword {
		err := c.identity.Reauthenticate(ctx, sess.Email, fields.CurrentPassword)
		if err == nil {
			err = c.identity.ChangePassword(ctx, newPassword)
		}
		if err != nil {
			// The backend already carries the new name.
			if update.DisplayName != nil && name != sess.DisplayName {
				c.keepName(ctx, sess.UserID, name)
			}
			return c.failFrom(err)
		}
	}

	if d := strings.TrimSpace(fields.DegreeTitle); d != "" {
		update.DegreeTitle = &d
	}
	update.LastAccessAt = &now

	if cur := c.CurrentSession(); cur == nil || cur.UserID != sess.UserID {
		return c.fail(CodeUnauthenticated, "")
	}

	var written *models.ProfileRecord
	if err := c.store.Update(ctx, sess.UserID, update); err != nil {
		if !errors.Is(err, profiles.ErrNotFound) {
			c.logger.Error(ctx, "profile update failed", "user_id", sess.UserID, "error", err)
			return c.fail(CodeUnknown, "")
		}
		rec := c.minimalRecord(sess, now)
		if cached := c.CurrentProfile(); cached != nil && cached.UserID == sess.UserID {
			rec = *cached
		}
		update.Apply(&rec)
		if err := c.store.Write(ctx, rec); err != nil {
			c.logger.Error(ctx, "profile write failed", "user_id", sess.UserID, "error", err)
			return c.fail(CodeUnknown, "")
		}
		written = &rec
	}

	c.mu.Lock()
	if c.session == nil || c.session.UserID != sess.UserID {
		c.mu.Unlock()
		return c.fail(CodeUnauthenticated, "")
	}
	reload := false
	c.session.DisplayName = name
	switch {
	case written != nil:
		c.profile = written.Clone()
	case c.profile != nil:
		update.Apply(c.profile)
	default:
		reload = true
	}
	current := c.session.Clone()
	c.mu.Unlock()

	if reload {
		c.loadProfile(ctx, sess.UserID)
	}
	c.notify()
	return succeeded(current)
}

// keepName mirrors a display name the backend accepted while the rest of
// the update failed.
func (c *Coordinator) keepName(ctx context.Context, userID, name string) {
	if err := c.store.Update(ctx, userID, models.ProfileUpdate{DisplayName: &name}); err != nil {
		c.logger.Warn(ctx, "display name not persisted", "user_id", userID, "error", err)
	}

	c.mu.Lock()
	same := c.session != nil && c.session.UserID == userID
	if same {
		c.session.DisplayName = name
		if c.profile != nil && c.profile.UserID == userID {
			c.profile.DisplayName = name
		}
	}
	c.mu.Unlock()

	if same {
		c.notify()
	}
}

func (c *Coordinator) yearOutOfRange(now time.Time) Result {
	return Result{
		Code:  CodeValidationFailed,
		Error: c.tr.T(keyGraduationYearRange, strconv.Itoa(models.MinGraduationYear), strconv.Itoa(now.Year())),
	}
}

func (c *Coordinator) setAuthenticated(sess *models.Session, profile *models.ProfileRecord) {
	c.mu.Lock()
	c.session = sess.Clone()
	c.profile = profile.Clone()
	c.state = StateAuthenticated
	c.mu.Unlock()
	c.notify()
}

func (c *Coordinator) fail(code ErrorCode, key string) Result {
	if key == "" {
		key = code.MessageKey()
	}
	return Result{Code: code, Error: c.tr.T(key)}
}

// failFrom classifies an identity error. The message of a known backend
// code is preferred over the generic message of its class.
func (c *Coordinator) failFrom(err error) Result {
	if errors.Is(err, client.ErrNotSignedIn) {
		return c.fail(CodeUnauthenticated, "")
	}
	backend := client.CodeOf(err)
	code := ClassifyBackendCode(backend)
	if backend != "" {
		if msg, ok := c.tr.Lookup(backend); ok {
			return Result{Code: code, Error: msg}
		}
	}
	return c.fail(code, "")
}

func (c *Coordinator) finish(ctx context.Context, op string, start time.Time, res Result) Result {
	c.metrics.ObserveOperation(op, res.Success, string(res.Code), time.Since(start))
	if res.Success {
		c.logger.Debug(ctx, "operation succeeded", "op", op)
	} else {
		c.logger.Info(ctx, "operation failed", "op", op, "code", res.Code)
	}
	return res
}

// CurrentSession returns a copy of the session, or nil.
func (c *Coordinator) CurrentSession() *models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Clone()
}

// CurrentProfile returns a copy of the cached profile, or nil.
func (c *Coordinator) CurrentProfile() *models.ProfileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile.Clone()
}

// IsConnected is true until the oracle reports otherwise.
func (c *Coordinator) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Coordinator) IsInitializing() bool {
	return c.State() == StateUnknown
}

func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Coordinator) snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		State:     c.state,
		Session:   c.session.Clone(),
		Profile:   c.profile.Clone(),
		Connected: c.connected,
	}
}

// Subscribe returns a channel holding the latest snapshot. A subscriber
// that falls behind only misses intermediate snapshots. The returned
// function unsubscribes and closes the channel.
func (c *Coordinator) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	c.obsMu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = ch
	ch <- c.snapshot()
	c.obsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.obsMu.Lock()
			delete(c.observers, id)
			close(ch)
			c.obsMu.Unlock()
		})
	}
}

func (c *Coordinator) notify() {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()

	snap := c.snapshot()
	c.metrics.SetSessionState(int(snap.State))
	c.metrics.SetConnected(snap.Connected)

	for _, ch := range c.observers {
		select {
		case ch <- snap:
		default:
			// replace the stale snapshot
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
