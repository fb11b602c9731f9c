package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/gophprofile/internal/client/identity"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

func nextSession(t *testing.T, ch <-chan *models.Session) *models.Session {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "session channel closed")
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no session event")
		return nil
	}
}

func TestCreateAccount_EstablishesAndPublishes(t *testing.T) {
	env := startBackend(t)
	store := &memStore{}
	c := env.dial(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := c.SessionChanges(ctx)
	assert.Nil(t, nextSession(t, changes), "first event is the current (anonymous) state")

	s, err := c.CreateAccount(ctx, "ana@uni.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", s.UserID)
	assert.Equal(t, "ana@uni.edu", s.Email)

	got := nextSession(t, changes)
	require.NotNil(t, got)
	assert.Equal(t, "uid-1", got.UserID)

	stored := store.Get()
	require.NotNil(t, stored)
	assert.Equal(t, "uid-1", stored.UserID)
	assert.NotEmpty(t, stored.IDToken)
	assert.NotEmpty(t, stored.RefreshToken)
}

func TestCreateAccount_BackendCodes(t *testing.T) {
	env := startBackend(t)
	c := env.dial(t, &memStore{})
	ctx := context.Background()

	_, err := c.CreateAccount(ctx, "ana@uni.edu", "secret1")
	require.NoError(t, err)

	_, err = c.CreateAccount(ctx, "ana@uni.edu", "secret1")
	assert.Equal(t, identity.CodeEmailAlreadyInUse, CodeOf(err))

	_, err = c.CreateAccount(ctx, "bob@uni.edu", "123")
	assert.Equal(t, identity.CodeWeakPassword, CodeOf(err))
}

func TestSignIn_WrongPassword(t *testing.T) {
	env := startBackend(t)
	c := env.dial(t, &memStore{})
	ctx := context.Background()

	_, err := c.CreateAccount(ctx, "ana@uni.edu", "secret1")
	require.NoError(t, err)

	_, err = c.SignIn(ctx, "ana@uni.edu", "nope12")
	var ae *AccountError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, identity.CodeWrongPassword, ae.Code)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCalls_CarryRequestIDAndToken(t *testing.T) {
	env := startBackend(t)
	c := env.dial(t, &memStore{})
	c.newReqID = func() string { return "req-42" }
	ctx := context.Background()

	_, err := c.CreateAccount(ctx, "ana@uni.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, []string{"req-42"}, env.backend.LastMD().Get(identity.HeaderRequestID))
	assert.Empty(t, env.backend.LastMD().Get(identity.HeaderAuthorization))

	require.NoError(t, c.SetDisplayName(ctx, "Ana"))
	auth := env.backend.LastMD().Get(identity.HeaderAuthorization)
	require.Len(t, auth, 1)
	assert.Contains(t, auth[0], "Bearer ")
}

func TestSetDisplayName_UpdatesSessionAndStore(t *testing.T) {
	env := startBackend(t)
	store := &memStore{}
	c := env.dial(t, store)
	ctx := context.Background()

	_, err := c.CreateAccount(ctx, "ana@uni.edu", "secret1")
	require.NoError(t, err)
	require.NoError(t, c.SetDisplayName(ctx, "Ana"))

	assert.Equal(t, "Ana", store.Get().DisplayName)
	assert.Equal(t, "Ana", env.backend.users["ana@uni.edu"].name)
}

func TestAccountCalls_RequireSession(t *testing.T) {
	env := startBackend(t)
	c := env.dial(t, &memStore{})
	ctx := context.Background()

	assert.ErrorIs(t, c.SetDisplayName(ctx, "x"), ErrNotSignedIn)
	assert.ErrorIs(t, c.ChangePassword(ctx, "secret2"), ErrNotSignedIn)
	assert.ErrorIs(t, c.Reauthenticate(ctx, "a@b.co", "secret1"), ErrNotSignedIn)
	assert.NoError(t, c.SignOut(ctx))
	assert.Empty(t, env.backend.Calls())
}

func TestReauthenticateThenChangePassword(t *testing.T) {
	env := startBackend(t)
	c := env.dial(t, &memStore{})
	ctx := context.Background()

	_, err := c.CreateAccount(ctx, "ana@uni.edu", "secret1")
	require.NoError(t, err)

	err = c.Reauthenticate(ctx, "ana@uni.edu", "wrong1")
	assert.Equal(t, identity.CodeWrongPassword, CodeOf(err))

	require.NoError(t, c.Reauthenticate(ctx, "ana@uni.edu", "secret1"))
	require.NoError(t, c.ChangePassword(ctx, "secret2"))
	assert.Equal(t, "secret2", env.backend.users["ana@uni.edu"].password)
}

func TestInterceptor_RefreshesExpiredTokenOnce(t *testing.T) {
	env := startBackend(t)
	store := &memStore{}
	c := env.dial(t, store)
	ctx := context.Background()

	_, err := c.CreateAccount(ctx, "ana@uni.edu", "secret1")
	require.NoError(t, err)
	oldRT := store.Get().RefreshToken

	env.backend.mu.Lock()
	env.backend.expireNext = true
	env.backend.mu.Unlock()

	require.NoError(t, c.SetDisplayName(ctx, "Ana"))
	assert.Equal(t, []string{identity.SignUp, identity.UpdateProfile, identity.RefreshToken, identity.UpdateProfile}, env.backend.Calls())
	assert.NotEqual(t, oldRT, store.Get().RefreshToken)
}

func TestInterceptor_RejectedRefreshSignsOut(t *testing.T) {
	env := startBackend(t)
	store := &memStore{}
	c := env.dial(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := c.CreateAccount(ctx, "ana@uni.edu", "secret1")
	require.NoError(t, err)
	changes := c.SessionChanges(ctx)
	require.NotNil(t, nextSession(t, changes))

	env.backend.mu.Lock()
	env.backend.expireNext = true
	env.backend.failRefresh = true
	env.backend.mu.Unlock()

	err = c.SetDisplayName(ctx, "Ana")
	assert.Equal(t, identity.CodeUserTokenExpired, CodeOf(err))
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Nil(t, nextSession(t, changes))
	assert.Nil(t, store.Get())
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	c := &GRPCIdentity{newReqID: func() string { return "r" }, refreshToken: "R1", logger: logging.Nop()}
	calls := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		calls++
		md, _ := metadata.FromOutgoingContext(ctx)
		assert.Equal(t, []string{"r"}, md.Get(identity.HeaderRequestID))
		return status.Error(codes.Internal, "boom")
	}

	err := c.authInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestSignOut_ClearsEverything(t *testing.T) {
	env := startBackend(t)
	store := &memStore{}
	c := env.dial(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := c.CreateAccount(ctx, "ana@uni.edu", "secret1")
	require.NoError(t, err)
	changes := c.SessionChanges(ctx)
	require.NotNil(t, nextSession(t, changes))

	require.NoError(t, c.SignOut(ctx))
	assert.Nil(t, nextSession(t, changes))
	assert.Nil(t, store.Get())
	assert.Contains(t, env.backend.Calls(), identity.SignOut)
}

func TestSignOut_BackendDownStillClearsLocally(t *testing.T) {
	env := startBackend(t)
	store := &memStore{}
	c := env.dial(t, store)
	ctx := context.Background()

	_, err := c.CreateAccount(ctx, "ana@uni.edu", "secret1")
	require.NoError(t, err)
	env.srv.Stop()

	err = c.SignOut(ctx)
	require.Error(t, err)
	assert.Nil(t, store.Get())
	assert.False(t, c.signedIn())
}

func TestUnavailableBackend_MapsToNetworkCode(t *testing.T) {
	env := startBackend(t)
	env.srv.Stop()
	c := env.dial(t, &memStore{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := c.SignIn(ctx, "ana@uni.edu", "secret1")
	assert.Equal(t, identity.CodeNetworkRequestFailed, CodeOf(err))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSessionChanges_RestoresStoredSession(t *testing.T) {
	env := startBackend(t)
	store := &memStore{stored: &models.StoredSession{
		Session:      models.Session{UserID: "uid-9", Email: "old@uni.edu", DisplayName: "Old"},
		IDToken:      signToken(t, "uid-9", time.Now().Add(time.Hour)),
		RefreshToken: "rt",
	}}
	c := env.dial(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := nextSession(t, c.SessionChanges(ctx))
	require.NotNil(t, got)
	assert.Equal(t, "uid-9", got.UserID)
	assert.Equal(t, "Old", got.DisplayName)
}

func TestSessionChanges_DiscardsExpiredStoredSession(t *testing.T) {
	env := startBackend(t)
	store := &memStore{stored: &models.StoredSession{
		Session: models.Session{UserID: "uid-9", Email: "old@uni.edu"},
		IDToken: signToken(t, "uid-9", time.Now().Add(-time.Minute)),
	}}
	c := env.dial(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Nil(t, nextSession(t, c.SessionChanges(ctx)))
	assert.Nil(t, store.Get())
}

func TestSessionChanges_ClosesOnCancel(t *testing.T) {
	env := startBackend(t)
	c := env.dial(t, &memStore{})
	ctx, cancel := context.WithCancel(context.Background())

	changes := c.SessionChanges(ctx)
	nextSession(t, changes)
	cancel()

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestPing(t *testing.T) {
	env := startBackend(t)
	c := env.dial(t, &memStore{})
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	env.health.SetServingStatus(identity.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	assert.ErrorIs(t, c.Ping(ctx), ErrUnavailable)

	env.srv.Stop()
	assert.ErrorIs(t, c.Ping(ctx), ErrUnavailable)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, tokenExpired(signToken(t, "u", now.Add(time.Minute)), now))
	assert.True(t, tokenExpired(signToken(t, "u", now.Add(-time.Minute)), now))
	assert.True(t, tokenExpired("garbage", now))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		code string
		is   error
	}{
		{"unavailable", status.Error(codes.Unavailable, "x"), identity.CodeNetworkRequestFailed, ErrUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "x"), identity.CodeNetworkRequestFailed, ErrUnavailable},
		{"wrong password", status.Error(codes.Unauthenticated, identity.CodeWrongPassword), identity.CodeWrongPassword, ErrUnauthorized},
		{"bare unauthenticated", status.Error(codes.Unauthenticated, "nope"), identity.CodeUserTokenExpired, ErrUnauthorized},
		{"expired id token", status.Error(codes.Unauthenticated, identity.CodeIDTokenExpired), identity.CodeUserTokenExpired, ErrUnauthorized},
		{"business code", status.Error(codes.AlreadyExists, identity.CodeEmailAlreadyInUse), identity.CodeEmailAlreadyInUse, nil},
		{"internal", status.Error(codes.Internal, "boom"), "", nil},
		{"plain", errors.New("boom"), "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.code, CodeOf(err))
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
	assert.NoError(t, mapError(nil))
}

func TestFeed_DeliversInOrderWithoutBlockingPublisher(t *testing.T) {
	f := newSessionFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := f.subscribe(ctx, nil)
	for i := 0; i < 50; i++ {
		f.publish(&models.Session{UserID: string(rune('a' + i%26))})
	}

	assert.Nil(t, nextSession(t, ch))
	for i := 0; i < 50; i++ {
		assert.Equal(t, string(rune('a'+i%26)), nextSession(t, ch).UserID)
	}
}

func TestAccountStructIgnoresUnknownFields(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"user_id": "u", "extra": 1.0})
	require.NoError(t, err)
	assert.Equal(t, "u", identity.DecodeAccount(s).UserID)
}
