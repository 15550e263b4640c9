package models

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Session is the authenticated identity of one visitor together with the
// view state that depends on it.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token,omitempty"`
	Role      Role      `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Profile   *User     `json:"profile,omitempty"`

	// ProfileFetched is set once the profile lookup for the current login has
	// been attempted, whether or not it succeeded.
	ProfileFetched bool `json:"profile_fetched,omitempty"`

	Cart          *Cart  `json:"cart,omitempty"`
	PendingDelete string `json:"pending_delete,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now()

	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

func (s *Session) Login(token string, role Role, expiresAt time.Time) {
	s.Token = token
	s.Role = role
	s.ExpiresAt = expiresAt
	s.Profile = nil
	s.ProfileFetched = false
	s.Cart = nil
	s.PendingDelete = ""
	s.UpdatedAt = time.Now()
}

// Logout clears the credentials and everything derived from them.
func (s *Session) Logout() {
	s.Token = ""
	s.Role = ""
	s.ExpiresAt = time.Time{}
	s.Profile = nil
	s.ProfileFetched = false
	s.Cart = nil
	s.PendingDelete = ""
	s.UpdatedAt = time.Now()
}

// Touch marks the session as changed so it gets persisted.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}

func (s *Session) IsAuthenticated() bool {
	if s == nil || s.Token == "" {
		return false
	}

	return s.ExpiresAt.IsZero() || time.Now().Before(s.ExpiresAt)
}

func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.Role == RoleAdmin
}

// SessionView is the non-secret part of a session exposed to the client.
type SessionView struct {
	Authenticated bool  `json:"authenticated"`
	Admin         bool  `json:"admin"`
	Profile       *User `json:"profile,omitempty"`
}

func (s *Session) View() *SessionView {
	return &SessionView{
		Authenticated: s.IsAuthenticated(),
		Admin:         s.IsAdmin(),
		Profile:       s.Profile,
	}
}
