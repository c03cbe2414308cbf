package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/features/auth/model"
	authHelper "schooladmin_backend/internals/helpers/auth"
)

func newService(t *testing.T) (*AuthService, *docstore.MemoryStore) {
	t.Helper()
	store := docstore.NewMemoryStore()
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	store.Seed(model.AdminCollection, "a1", map[string]any{"email": "head@school.edu", "password": "plain-pw", "name": "Head"})
	store.Seed(model.AdminCollection, "a2", map[string]any{"email": "ops@school.edu", "password": hash})
	return NewAuthService(store, authHelper.NewMemoryBlacklist("k"), "jwt-secret", time.Hour), store
}

func TestLoginPlainAndBcrypt(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a, err := svc.Login(ctx, "  HEAD@school.edu ", "plain-pw")
	require.NoError(t, err)
	assert.Equal(t, "head@school.edu", a.Email)
	assert.Equal(t, "Head", a.Name)

	a, err = svc.Login(ctx, "ops@school.edu", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAdminName, a.Name)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, wrongPw := svc.Login(ctx, "head@school.edu", "nope")
	_, unknown := svc.Login(ctx, "who@school.edu", "plain-pw")
	require.Error(t, wrongPw)
	require.Error(t, unknown)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
}

func TestLoginStoreFailure(t *testing.T) {
	svc, store := newService(t)
	store.FailOn("query", errors.New("boom"))
	_, err := svc.Login(context.Background(), "head@school.edu", "plain-pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueVerifyLogout(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a, err := svc.Login(ctx, "head@school.edu", "plain-pw")
	require.NoError(t, err)
	tok, exp, err := svc.Issue(a)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	got, err := svc.Verify(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, a.Email, got.Email)
	assert.Equal(t, a.Name, got.Name)
	assert.Equal(t, a.LoginAt.Unix(), got.LoginAt.Unix())

	email, err := svc.Logout(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, a.Email, email)

	_, err = svc.Verify(ctx, tok)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
	_, err = svc.Verify(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(docstore.NewMemoryStore(), nil, "other-secret", time.Hour)
	tok, _, err := other.Issue(model.Admin{Email: "x@y.z", Name: "X", LoginAt: time.Now()})
	require.NoError(t, err)
	_, err = svc.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpsertAdmin(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	id, created, err := svc.UpsertAdmin(ctx, "New@School.edu", "", "pw1")
	require.NoError(t, err)
	assert.True(t, created)
	doc, err := store.Get(ctx, model.AdminCollection, id)
	require.NoError(t, err)
	assert.Equal(t, "new@school.edu", doc.Data["email"])
	assert.Equal(t, model.DefaultAdminName, doc.Data["name"])
	assert.NotEqual(t, "pw1", doc.Data["password"])

	id2, created, err := svc.UpsertAdmin(ctx, "new@school.edu", "Newer", "pw2")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, id2)

	_, err = svc.Login(ctx, "new@school.edu", "pw2")
	assert.NoError(t, err)
}
