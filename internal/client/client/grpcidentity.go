package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/gophprofile/internal/client/identity"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

// GRPCIdentity talks to the identity service over gRPC. It keeps the id and
// refresh tokens of the signed-in user, persists them to a sessions.Store and
// publishes every session change to SessionChanges subscribers.
type GRPCIdentity struct {
	conn     *grpc.ClientConn
	health   healthpb.HealthClient
	store    sessions.Store
	logger   logging.Logger
	now      func() time.Time
	newReqID func() string
	dialOpts []grpc.DialOption

	// mu guards the tokens and current; state changes are published while
	// holding it so subscribers see them in order.
	mu           sync.Mutex
	idToken      string
	refreshToken string
	current      *models.Session

	restoreOnce sync.Once
	feed        *sessionFeed
}

type Option func(*GRPCIdentity)

// WithDialOptions appends grpc dial options (e.g. a bufconn dialer in tests).
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCIdentity) { c.dialOpts = append(c.dialOpts, opts...) }
}

func WithLogger(l logging.Logger) Option {
	return func(c *GRPCIdentity) { c.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *GRPCIdentity) { c.now = now }
}

// NewGRPCIdentity creates a client for the identity service at addr. No
// connection is made until the first call.
func NewGRPCIdentity(addr string, store sessions.Store, opts ...Option) (*GRPCIdentity, error) {
	c := &GRPCIdentity{
		store:    store,
		logger:   logging.Nop(),
		now:      time.Now,
		newReqID: uuid.NewString,
		feed:     newSessionFeed(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("module", "identity")

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.authInterceptor),
	}, c.dialOpts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("identity dial: %w", err)
	}
	c.conn = conn
	c.health = healthpb.NewHealthClient(conn)
	return c, nil
}

func (c *GRPCIdentity) Close() error {
	return c.conn.Close()
}

func withHeader(ctx context.Context, key, value string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(key)
	if value != "" {
		md.Set(key, value)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func withAuthorization(ctx context.Context, token string) context.Context {
	if token == "" {
		return withHeader(ctx, identity.HeaderAuthorization, "")
	}
	return withHeader(ctx, identity.HeaderAuthorization, "Bearer "+token)
}

func (c *GRPCIdentity) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idToken, c.refreshToken
}

// authInterceptor attaches the request id and the id token. When the backend
// reports an expired id token it refreshes once and retries the call.
func (c *GRPCIdentity) authInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	reqID := c.newReqID()
	ctx = withHeader(ctx, identity.HeaderRequestID, reqID)
	c.logger.Debug(ctx, "identity call", "method", method, "request_id", reqID)

	idToken, refreshToken := c.tokens()
	err := invoker(withAuthorization(ctx, idToken), method, req, reply, cc, opts...)
	if err == nil || method == identity.FullMethod(identity.RefreshToken) {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != identity.CodeIDTokenExpired {
		return err
	}
	if refreshToken == "" {
		return err
	}

	resp := new(structpb.Struct)
	in := identity.Fields(map[string]string{identity.FieldRefreshToken: refreshToken})
	if rerr := invoker(withAuthorization(ctx, ""), identity.FullMethod(identity.RefreshToken), in, resp, cc, opts...); rerr != nil {
		if status.Code(rerr) == codes.Unauthenticated {
			c.logger.Warn(ctx, "session refresh rejected, signing out", "request_id", reqID)
			c.dropSession(ctx)
		}
		return err
	}

	acc := identity.DecodeAccount(resp)
	c.rotateTokens(ctx, acc.IDToken, acc.RefreshToken)

	return invoker(withAuthorization(ctx, acc.IDToken), method, req, reply, cc, opts...)
}

func (c *GRPCIdentity) call(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, identity.FullMethod(method), in, out); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func credentialsStruct(email, password string) *structpb.Struct {
	return identity.Fields(map[string]string{
		identity.FieldEmail:    email,
		identity.FieldPassword: password,
	})
}

func (c *GRPCIdentity) CreateAccount(ctx context.Context, email, password string) (*models.Session, error) {
	out, err := c.call(ctx, identity.SignUp, credentialsStruct(email, password))
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, identity.DecodeAccount(out)), nil
}

func (c *GRPCIdentity) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	out, err := c.call(ctx, identity.SignIn, credentialsStruct(email, password))
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, identity.DecodeAccount(out)), nil
}

func (c *GRPCIdentity) SignOut(ctx context.Context) error {
	c.mu.Lock()
	signedIn := c.current != nil
	refreshToken := c.refreshToken
	c.mu.Unlock()

	if !signedIn {
		return nil
	}

	_, err := c.call(ctx, identity.SignOut, identity.Fields(map[string]string{identity.FieldRefreshToken: refreshToken}))
	c.dropSession(ctx)
	return err
}

func (c *GRPCIdentity) SetDisplayName(ctx context.Context, name string) error {
	if !c.signedIn() {
		return ErrNotSignedIn
	}
	if _, err := c.call(ctx, identity.UpdateProfile, identity.Fields(map[string]string{identity.FieldDisplayName: name})); err != nil {
		return err
	}

	c.mu.Lock()
	if c.current != nil {
		c.current.DisplayName = name
	}
	c.mu.Unlock()
	c.persist(ctx)
	return nil
}

func (c *GRPCIdentity) ChangePassword(ctx context.Context, newPassword string) error {
	if !c.signedIn() {
		return ErrNotSignedIn
	}
	out, err := c.call(ctx, identity.ChangePassword, identity.Fields(map[string]string{identity.FieldNewPassword: newPassword}))
	if err != nil {
		return err
	}
	c.adoptTokens(ctx, out)
	return nil
}

func (c *GRPCIdentity) Reauthenticate(ctx context.Context, email, password string) error {
	if !c.signedIn() {
		return ErrNotSignedIn
	}
	out, err := c.call(ctx, identity.Reauthenticate, credentialsStruct(email, password))
	if err != nil {
		return err
	}
	c.adoptTokens(ctx, out)
	return nil
}

// SessionChanges restores the persisted session on first use.
func (c *GRPCIdentity) SessionChanges(ctx context.Context) <-chan *models.Session {
	c.restoreOnce.Do(func() { c.restore(ctx) })

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feed.subscribe(ctx, c.current)
}

// Ping checks the identity service with the standard gRPC health protocol.
func (c *GRPCIdentity) Ping(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: identity.ServiceName})
	if err != nil {
		if errors.Is(mapError(err), ErrUnavailable) {
			return ErrUnavailable
		}
		return fmt.Errorf("health check: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCIdentity) signedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

func (c *GRPCIdentity) establish(ctx context.Context, acc identity.Account) *models.Session {
	s := &models.Session{UserID: acc.UserID, Email: acc.Email, DisplayName: acc.DisplayName}

	c.mu.Lock()
	c.idToken = acc.IDToken
	c.refreshToken = acc.RefreshToken
	c.current = s
	c.feed.publish(s)
	c.mu.Unlock()

	c.persist(ctx)
	return s.Clone()
}

func (c *GRPCIdentity) dropSession(ctx context.Context) {
	c.mu.Lock()
	wasSignedIn := c.current != nil
	c.idToken, c.refreshToken, c.current = "", "", nil
	if wasSignedIn {
		c.feed.publish(nil)
	}
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn(ctx, "failed to clear stored session", "error", err)
	}
}

func (c *GRPCIdentity) adoptTokens(ctx context.Context, out *structpb.Struct) {
	acc := identity.DecodeAccount(out)
	if acc.IDToken != "" {
		c.rotateTokens(ctx, acc.IDToken, acc.RefreshToken)
	}
}

func (c *GRPCIdentity) rotateTokens(ctx context.Context, idToken, refreshToken string) {
	c.mu.Lock()
	c.idToken = idToken
	if refreshToken != "" {
		c.refreshToken = refreshToken
	}
	c.mu.Unlock()
	c.persist(ctx)
}

func (c *GRPCIdentity) persist(ctx context.Context) {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return
	}
	rec := models.StoredSession{
		Session:      *c.current,
		IDToken:      c.idToken,
		RefreshToken: c.refreshToken,
		SavedAt:      c.now(),
	}
	c.mu.Unlock()

	if err := c.store.Save(ctx, rec); err != nil {
		c.logger.Warn(ctx, "failed to persist session", "user_id", rec.UserID, "error", err)
	}
}

// restore loads the persisted session. A session whose id token has expired
// is discarded.
func (c *GRPCIdentity) restore(ctx context.Context) {
	stored, err := c.store.Load(ctx)
	if errors.Is(err, sessions.ErrNoSession) {
		return
	}
	if err != nil {
		c.logger.Warn(ctx, "failed to load stored session", "error", err)
		return
	}

	if tokenExpired(stored.IDToken, c.now()) {
		c.logger.Info(ctx, "stored session expired", "user_id", stored.UserID)
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Warn(ctx, "failed to clear stored session", "error", err)
		}
		return
	}

	c.mu.Lock()
	c.idToken = stored.IDToken
	c.refreshToken = stored.RefreshToken
	s := stored.Session
	c.current = &s
	c.mu.Unlock()
	c.logger.Info(ctx, "session restored", "user_id", s.UserID)
}

// tokenExpired reports whether the exp claim of a JWT lies at or before now.
// The signature is not checked; unparseable tokens count as expired.
func tokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return err != nil
	}
	return !exp.After(now)
}
