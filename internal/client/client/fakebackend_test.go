package client

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/gophprofile/internal/client/identity"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/repositories/sessions"
)

var testSecret = []byte("test-secret")

func signToken(t testing.TB, uid string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   uid,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString(testSecret)
	require.NoError(t, err)
	return tok
}

type fakeUser struct {
	uid      string
	email    string
	password string
	name     string
}

// fakeBackend is an in-memory identity service.
type fakeBackend struct {
	t  testing.TB
	mu sync.Mutex

	users   map[string]*fakeUser
	refresh map[string]string
	seq     int

	expireNext  bool
	failRefresh bool

	calls []string
	mds   []metadata.MD
}

func newFakeBackend(t testing.TB) *fakeBackend {
	return &fakeBackend{t: t, users: map[string]*fakeUser{}, refresh: map[string]string{}}
}

func (b *fakeBackend) record(ctx context.Context, method string) {
	md, _ := metadata.FromIncomingContext(ctx)
	b.calls = append(b.calls, method)
	b.mds = append(b.mds, md)
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) LastMD() metadata.MD {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mds[len(b.mds)-1]
}

func (b *fakeBackend) account(u *fakeUser) *structpb.Struct {
	b.seq++
	rt := fmt.Sprintf("rt-%s-%d", u.uid, b.seq)
	b.refresh[rt] = u.email
	return identity.Account{
		UserID:       u.uid,
		Email:        u.email,
		DisplayName:  u.name,
		IDToken:      signToken(b.t, u.uid, time.Now().Add(time.Hour)),
		RefreshToken: rt,
	}.Struct()
}

func (b *fakeBackend) authorize(ctx context.Context) (*fakeUser, error) {
	if b.expireNext {
		b.expireNext = false
		return nil, status.Error(codes.Unauthenticated, identity.CodeIDTokenExpired)
	}
	md, _ := metadata.FromIncomingContext(ctx)
	vals := md.Get(identity.HeaderAuthorization)
	if len(vals) == 0 {
		return nil, status.Error(codes.Unauthenticated, identity.CodeUserTokenExpired)
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(vals[0], "Bearer "), claims, func(*jwt.Token) (any, error) {
		return testSecret, nil
	})
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, identity.CodeIDTokenExpired)
	}
	for _, u := range b.users {
		if u.uid == claims.Subject {
			return u, nil
		}
	}
	return nil, status.Error(codes.Unauthenticated, identity.CodeUserNotFound)
}

func (b *fakeBackend) SignUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(ctx, identity.SignUp)

	email, pw := identity.String(in, identity.FieldEmail), identity.String(in, identity.FieldPassword)
	if !strings.Contains(email, "@") {
		return nil, status.Error(codes.InvalidArgument, identity.CodeInvalidEmail)
	}
	if len(pw) < 6 {
		return nil, status.Error(codes.InvalidArgument, identity.CodeWeakPassword)
	}
	if _, ok := b.users[email]; ok {
		return nil, status.Error(codes.AlreadyExists, identity.CodeEmailAlreadyInUse)
	}
	u := &fakeUser{uid: fmt.Sprintf("uid-%d", len(b.users)+1), email: email, password: pw}
	b.users[email] = u
	return b.account(u), nil
}

func (b *fakeBackend) SignIn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(ctx, identity.SignIn)

	u, ok := b.users[identity.String(in, identity.FieldEmail)]
	if !ok {
		return nil, status.Error(codes.NotFound, identity.CodeUserNotFound)
	}
	if u.password != identity.String(in, identity.FieldPassword) {
		return nil, status.Error(codes.Unauthenticated, identity.CodeWrongPassword)
	}
	return b.account(u), nil
}

func (b *fakeBackend) SignOut(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(ctx, identity.SignOut)
	delete(b.refresh, identity.String(in, identity.FieldRefreshToken))
	return &structpb.Struct{}, nil
}

func (b *fakeBackend) UpdateProfile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(ctx, identity.UpdateProfile)
	u, err := b.authorize(ctx)
	if err != nil {
		return nil, err
	}
	u.name = identity.String(in, identity.FieldDisplayName)
	return &structpb.Struct{}, nil
}

func (b *fakeBackend) ChangePassword(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(ctx, identity.ChangePassword)
	u, err := b.authorize(ctx)
	if err != nil {
		return nil, err
	}
	pw := identity.String(in, identity.FieldNewPassword)
	if len(pw) < 6 {
		return nil, status.Error(codes.InvalidArgument, identity.CodeWeakPassword)
	}
	u.password = pw
	return b.account(u), nil
}

func (b *fakeBackend) Reauthenticate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(ctx, identity.Reauthenticate)
	u, err := b.authorize(ctx)
	if err != nil {
		return nil, err
	}
	if u.email != identity.String(in, identity.FieldEmail) || u.password != identity.String(in, identity.FieldPassword) {
		return nil, status.Error(codes.Unauthenticated, identity.CodeWrongPassword)
	}
	return &structpb.Struct{}, nil
}

func (b *fakeBackend) RefreshToken(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(ctx, identity.RefreshToken)
	if b.failRefresh {
		return nil, status.Error(codes.Unauthenticated, identity.CodeUserTokenExpired)
	}
	rt := identity.String(in, identity.FieldRefreshToken)
	email, ok := b.refresh[rt]
	if !ok {
		return nil, status.Error(codes.Unauthenticated, identity.CodeUserTokenExpired)
	}
	delete(b.refresh, rt)
	return b.account(b.users[email]), nil
}

type testEnv struct {
	backend *fakeBackend
	health  *health.Server
	lis     *bufconn.Listener
	srv     *grpc.Server
}

func startBackend(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		backend: newFakeBackend(t),
		health:  health.NewServer(),
		lis:     bufconn.Listen(1 << 20),
		srv:     grpc.NewServer(),
	}
	identity.RegisterServer(env.srv, env.backend)
	healthpb.RegisterHealthServer(env.srv, env.health)
	env.health.SetServingStatus(identity.ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() { _ = env.srv.Serve(env.lis) }()
	t.Cleanup(env.srv.Stop)
	return env
}

func (env *testEnv) dial(t *testing.T, store sessions.Store, opts ...Option) *GRPCIdentity {
	t.Helper()
	dialer := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return env.lis.DialContext(ctx)
	})
	c, err := NewGRPCIdentity("passthrough:///bufnet", store, append([]Option{WithDialOptions(dialer)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// memStore is an in-memory sessions.Store.
type memStore struct {
	mu      sync.Mutex
	stored  *models.StoredSession
	saves   int
	clears  int
	saveErr error
}

func (m *memStore) Save(_ context.Context, s models.StoredSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.stored = &s
	return nil
}

func (m *memStore) Load(context.Context) (*models.StoredSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		return nil, sessions.ErrNoSession
	}
	s := *m.stored
	return &s, nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.stored = nil
	return nil
}

func (m *memStore) Get() *models.StoredSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		return nil
	}
	s := *m.stored
	return &s
}
