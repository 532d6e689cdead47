// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and the logic for
registration, credential verification, and refresh-token rotation.

# Architecture

Entities defined here have no external dependencies and encapsulate all
business rules related to user identity. Sessions are durable rows so a
refresh token survives a cache flush and can be revoked individually.
*/
package auth

import (
	"time"

	"github.com/taibuivan/shelfmark/internal/platform/sec"
)

// # Domain Entities

// User represents a registered Shelfmark member.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string       `json:"display_name"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Session represents an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the
// authentication domain.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"
	FieldLogin       = "login"
	FieldAccessToken = "access_token"
)

// Bounds for identity fields.
const (
	UsernameMinLen    = 3
	UsernameMaxLen    = 32
	PasswordMinLen    = 8
	PasswordMaxLen    = 72 // bcrypt input limit
	DisplayNameMaxLen = 100
)
