// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"

	"github.com/neerai/neerai-tui/internal/util"
)

// =============================================================================
// CREDENTIALS FILE
// =============================================================================

// UserRecord is one entry in the credentials file. Only the bcrypt
// hash of the password is stored.
type UserRecord struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
	Role         string `toml:"role"`
	// TOTPSecret enables the one-time code step for this user.
	TOTPSecret string `toml:"totp_secret,omitempty"`
}

// credentialsFile is the on-disk shape of the credentials store.
type credentialsFile struct {
	Users []UserRecord `toml:"users"`
}

// Store is a file-backed credentials store.
type Store struct {
	path string

	mu    sync.RWMutex
	users map[string]UserRecord // keyed by lowercase username
}

// OpenStore loads the credentials file at path. A missing file yields
// an empty store; the file is created on the first Save.
func OpenStore(path string) (*Store, error) {
	s := &Store{
		path:  path,
		users: make(map[string]UserRecord),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var file credentialsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode credentials file: %w", err)
	}
	for _, u := range file.Users {
		s.users[strings.ToLower(u.Username)] = u
	}
	return s, nil
}

// Lookup returns the record for a username, ignoring case.
func (s *Store) Lookup(username string) (UserRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(username)]
	return u, ok
}

// Len returns the number of stored users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// SetUser creates or replaces a user, hashing the given password.
func (s *Store) SetUser(username, password string, role Role, totpSecret string) error {
	if username == "" {
		return fmt.Errorf("username must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	s.users[strings.ToLower(username)] = UserRecord{
		Username:     username,
		PasswordHash: string(hash),
		Role:         string(role),
		TOTPSecret:   totpSecret,
	}
	s.mu.Unlock()
	return nil
}

// DeleteUser removes a user. Removing an absent user is a no-op.
func (s *Store) DeleteUser(username string) {
	s.mu.Lock()
	delete(s.users, strings.ToLower(username))
	s.mu.Unlock()
}

// Save writes the store back to disk atomically with mode 0600.
func (s *Store) Save() error {
	s.mu.RLock()
	file := credentialsFile{Users: make([]UserRecord, 0, len(s.users))}
	for _, u := range s.users {
		file.Users = append(file.Users, u)
	}
	s.mu.RUnlock()

	// Map iteration order is random; keep the file stable across saves.
	sort.Slice(file.Users, func(i, j int) bool {
		return strings.ToLower(file.Users[i].Username) < strings.ToLower(file.Users[j].Username)
	})

	var buf bytes.Buffer
	buf.WriteString("# neerai credentials file\n")
	buf.WriteString("# Passwords are stored as bcrypt hashes.\n\n")
	if err := toml.NewEncoder(&buf).Encode(file); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := util.AtomicWriteFile(s.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}
