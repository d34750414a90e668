// Package identity maps raw OAuth profile data onto the user record the
// assistant attaches to a session. GitHub is the supported provider; its
// profiles frequently hide the email, so the login is used as a fallback.
package identity

import "strings"

// User is the resolved identity of an authenticated patient.
type User struct {
	// Identifier is the stable unique key for the user, preferably the
	// verified email address.
	Identifier string
	// Name is the display name shown in consultation transcripts.
	Name string
}

// FromOAuth resolves a User from the raw profile fields returned by the
// OAuth provider. The identifier prefers the email; with no email the GitHub
// login is promoted to a synthetic address. Profiles carrying neither are
// rejected.
func FromOAuth(raw map[string]string) (*User, bool) {
	email := strings.TrimSpace(raw["email"])
	login := strings.TrimSpace(raw["login"])

	identifier := email
	if identifier == "" && login != "" {
		identifier = login + "@github.com"
	}
	if identifier == "" {
		return nil, false
	}

	name := strings.TrimSpace(raw["name"])
	if name == "" {
		name = login
	}
	if name == "" {
		name = "Anonymous"
	}

	return &User{Identifier: identifier, Name: name}, true
}
