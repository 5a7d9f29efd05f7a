// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// =============================================================================
// LOCAL AUTHENTICATOR
// =============================================================================

// Local authenticates against a file-backed credentials store.
//
// Attempts are rate limited per username before the password is even
// checked, so an attacker cannot use timing to probe which usernames
// exist. Admin accounts with a TOTP secret must also present a valid
// one-time code when RequireTOTP is set.
type Local struct {
	store *Store

	// requireTOTP enforces the one-time code step for admin accounts
	// that have a secret enrolled.
	requireTOTP bool

	// attemptsPerMinute is the per-user login attempt budget.
	attemptsPerMinute int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// LocalOption is a functional option for configuring Local.
type LocalOption func(*Local)

// WithRequireTOTP enforces the one-time code step for admin accounts.
func WithRequireTOTP(required bool) LocalOption {
	return func(l *Local) {
		l.requireTOTP = required
	}
}

// WithAttemptsPerMinute sets the per-user login attempt budget.
func WithAttemptsPerMinute(n int) LocalOption {
	return func(l *Local) {
		if n > 0 {
			l.attemptsPerMinute = n
		}
	}
}

// NewLocal creates a local authenticator over the given store.
func NewLocal(store *Store, opts ...LocalOption) *Local {
	l := &Local{
		store:             store,
		attemptsPerMinute: 5,
		limiters:          make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Login verifies a username, password and, where required, one-time
// code against the credentials store.
func (l *Local) Login(ctx context.Context, creds Credentials) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !l.allow(creds.Username) {
		return nil, ErrThrottled
	}

	rec, ok := l.store.Lookup(creds.Username)
	if !ok {
		// Burn comparable time so unknown users are not distinguishable
		// from wrong passwords.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$0123456789012345678901uW0eSQlyZl3yC3aV1NQmffVMLUQ1iYa"), []byte(creds.Password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if l.totpNeeded(rec) {
		if creds.TOTPCode == "" {
			return nil, ErrTOTPRequired
		}
		if !totp.Validate(creds.TOTPCode, rec.TOTPSecret) {
			return nil, ErrInvalidTOTP
		}
	}

	return &Identity{
		Username:        rec.Username,
		Role:            Role(rec.Role),
		AuthenticatedAt: time.Now(),
	}, nil
}

// totpNeeded reports whether this record must present a one-time code.
func (l *Local) totpNeeded(rec UserRecord) bool {
	return l.requireTOTP && Role(rec.Role) == RoleAdmin && rec.TOTPSecret != ""
}

// allow consumes one attempt from the user's rate budget.
func (l *Local) allow(username string) bool {
	key := strings.ToLower(username)

	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.attemptsPerMinute)), l.attemptsPerMinute)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}
