// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"strings"
	"time"
)

// =============================================================================
// FEDERATED AUTHENTICATOR
// =============================================================================

// TokenVerifier checks an externally issued token and returns the
// username and role it represents.
type TokenVerifier func(ctx context.Context, token string) (username string, role Role, err error)

// Federated delegates login to an external identity provider. The
// password fields of the credentials are ignored; only the token is
// verified.
type Federated struct {
	verify TokenVerifier
}

// NewFederated creates a federated authenticator with the given
// verifier.
func NewFederated(verify TokenVerifier) *Federated {
	return &Federated{verify: verify}
}

// AllowEmails returns a verifier that accepts a provider-asserted email
// address as the token and grants access when it appears on the allow
// list, ignoring case. Emails off the list fail with ErrInvalidToken,
// indistinguishable from a malformed token.
func AllowEmails(emails []string) TokenVerifier {
	allowed := make(map[string]bool, len(emails))
	for _, e := range emails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return func(ctx context.Context, token string) (string, Role, error) {
		email := strings.ToLower(strings.TrimSpace(token))
		if email == "" || !allowed[email] {
			return "", "", ErrInvalidToken
		}
		return email, RoleUser, nil
	}
}

// Login verifies the presented token.
func (f *Federated) Login(ctx context.Context, creds Credentials) (*Identity, error) {
	if creds.Token == "" {
		return nil, ErrInvalidToken
	}
	username, role, err := f.verify(ctx, creds.Token)
	if err != nil {
		return nil, err
	}
	return &Identity{
		Username:        username,
		Role:            role,
		AuthenticatedAt: time.Now(),
	}, nil
}
