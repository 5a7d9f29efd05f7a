// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// ROLES AND IDENTITY
// =============================================================================

// Role is the access level of an authenticated user.
type Role string

const (
	// RoleAdmin can manage the credentials file.
	RoleAdmin Role = "admin"

	// RoleUser can use the chat.
	RoleUser Role = "user"
)

// Identity describes a successfully authenticated user.
type Identity struct {
	Username        string
	Role            Role
	AuthenticatedAt time.Time
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// =============================================================================
// AUTHENTICATOR INTERFACE
// =============================================================================

// Credentials carries everything a login attempt can present.
// Fields an authenticator does not use are ignored.
type Credentials struct {
	Username string
	Password string
	// TOTPCode is the one-time code, when required.
	TOTPCode string
	// Token is an externally issued token for federated login.
	Token string
}

// Authenticator verifies a login attempt.
type Authenticator interface {
	// Login verifies the credentials and returns the identity on
	// success. Failures return one of the sentinel errors below.
	Login(ctx context.Context, creds Credentials) (*Identity, error)
}

// Sentinel errors for login failures.
var (
	// ErrInvalidCredentials covers unknown users and wrong passwords.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrTOTPRequired means the password was correct but a one-time
	// code must also be supplied.
	ErrTOTPRequired = errors.New("one-time code required")

	// ErrInvalidTOTP means the supplied one-time code was wrong.
	ErrInvalidTOTP = errors.New("invalid one-time code")

	// ErrThrottled means too many attempts were made for this user.
	ErrThrottled = errors.New("too many login attempts, try again later")

	// ErrInvalidToken means a federated token failed verification.
	ErrInvalidToken = errors.New("invalid token")
)
