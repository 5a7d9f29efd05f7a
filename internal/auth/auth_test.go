// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "credentials.toml"))
	require.NoError(t, err)
	return store
}

// ============================================================================
// STORE
// ============================================================================

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")

	store, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetUser("rekha", "secret-pw", RoleUser, ""))
	require.NoError(t, store.Save())

	reopened, err := OpenStore(path)
	require.NoError(t, err)
	rec, ok := reopened.Lookup("Rekha") // lookup is case-insensitive
	require.True(t, ok)
	require.Equal(t, "rekha", rec.Username)
	require.Equal(t, string(RoleUser), rec.Role)
	require.NotContains(t, rec.PasswordHash, "secret-pw", "password must not be stored in plain text")
}

func TestStoreFilePermissionsAndContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")

	store, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetUser("admin", "hunter-pw", RoleAdmin, ""))
	require.NoError(t, store.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(data), "hunter-pw"), "plaintext password on disk")
}

func TestStoreMissingFileIsEmpty(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, 0, store.Len())
}

func TestStoreSaveIsDeterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")

	store, err := OpenStore(path)
	require.NoError(t, err)
	for _, name := range []string{"zara", "amit", "meera", "dev"} {
		require.NoError(t, store.SetUser(name, "pw-"+name, RoleUser, ""))
	}

	require.NoError(t, store.Save())
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, store.Save())
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second), "saving an unchanged store must produce identical files")

	// Records come out sorted by username.
	require.Less(t, strings.Index(string(first), "amit"), strings.Index(string(first), "zara"))
}

func TestStoreDeleteUser(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetUser("temp", "pw", RoleUser, ""))
	store.DeleteUser("TEMP")
	_, ok := store.Lookup("temp")
	require.False(t, ok)
}

// ============================================================================
// LOCAL AUTHENTICATOR
// ============================================================================

func TestLocalLogin(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetUser("priya", "correct-horse", RoleUser, ""))

	local := NewLocal(store)
	ctx := context.Background()

	id, err := local.Login(ctx, Credentials{Username: "priya", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, "priya", id.Username)
	require.Equal(t, RoleUser, id.Role)
	require.False(t, id.IsAdmin())

	_, err = local.Login(ctx, Credentials{Username: "priya", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalUnknownUserIndistinguishable(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetUser("known", "pw", RoleUser, ""))

	local := NewLocal(store)
	ctx := context.Background()

	_, errUnknown := local.Login(ctx, Credentials{Username: "ghost", Password: "pw"})
	_, errWrongPw := local.Login(ctx, Credentials{Username: "known", Password: "bad"})
	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.Equal(t, errWrongPw, errUnknown)
}

func TestLocalAdminTOTP(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "neerai", AccountName: "admin"})
	require.NoError(t, err)

	store := newTestStore(t)
	require.NoError(t, store.SetUser("admin", "admin-pw", RoleAdmin, key.Secret()))

	local := NewLocal(store, WithRequireTOTP(true))
	ctx := context.Background()

	// Password alone is not enough for an enrolled admin.
	_, err = local.Login(ctx, Credentials{Username: "admin", Password: "admin-pw"})
	require.ErrorIs(t, err, ErrTOTPRequired)

	// Wrong code is rejected.
	_, err = local.Login(ctx, Credentials{Username: "admin", Password: "admin-pw", TOTPCode: "000000"})
	require.ErrorIs(t, err, ErrInvalidTOTP)

	// A freshly generated code succeeds.
	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)
	id, err := local.Login(ctx, Credentials{Username: "admin", Password: "admin-pw", TOTPCode: code})
	require.NoError(t, err)
	require.True(t, id.IsAdmin())
}

func TestLocalTOTPNotRequiredForPlainUsers(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "neerai", AccountName: "user"})
	require.NoError(t, err)

	store := newTestStore(t)
	require.NoError(t, store.SetUser("user", "pw", RoleUser, key.Secret()))

	local := NewLocal(store, WithRequireTOTP(true))
	_, err = local.Login(context.Background(), Credentials{Username: "user", Password: "pw"})
	require.NoError(t, err)
}

func TestLocalThrottling(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetUser("target", "pw", RoleUser, ""))

	local := NewLocal(store, WithAttemptsPerMinute(2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := local.Login(ctx, Credentials{Username: "target", Password: "wrong"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := local.Login(ctx, Credentials{Username: "target", Password: "pw"})
	require.ErrorIs(t, err, ErrThrottled)

	// Other users are unaffected.
	require.NoError(t, store.SetUser("other", "pw", RoleUser, ""))
	_, err = local.Login(ctx, Credentials{Username: "other", Password: "pw"})
	require.NoError(t, err)
}

// ============================================================================
// FEDERATED AUTHENTICATOR
// ============================================================================

func TestFederatedLogin(t *testing.T) {
	fed := NewFederated(func(ctx context.Context, token string) (string, Role, error) {
		if token == "good-token" {
			return "remote-user", RoleUser, nil
		}
		return "", "", ErrInvalidToken
	})
	ctx := context.Background()

	id, err := fed.Login(ctx, Credentials{Token: "good-token"})
	require.NoError(t, err)
	require.Equal(t, "remote-user", id.Username)

	_, err = fed.Login(ctx, Credentials{Token: "bad-token"})
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = fed.Login(ctx, Credentials{})
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestAllowEmails(t *testing.T) {
	fed := NewFederated(AllowEmails([]string{"ravi@example.org", " Priya@Example.org "}))
	ctx := context.Background()

	id, err := fed.Login(ctx, Credentials{Token: "ravi@example.org"})
	require.NoError(t, err)
	require.Equal(t, "ravi@example.org", id.Username)
	require.Equal(t, RoleUser, id.Role)

	// The allow list is case-insensitive and trimmed on both sides.
	id, err = fed.Login(ctx, Credentials{Token: "PRIYA@example.org"})
	require.NoError(t, err)
	require.Equal(t, "priya@example.org", id.Username)

	_, err = fed.Login(ctx, Credentials{Token: "intruder@example.org"})
	require.ErrorIs(t, err, ErrInvalidToken)
}
