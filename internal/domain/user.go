package domain

import (
	"time"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// CanPostJobs reports whether the role may create and manage job postings.
func (r Role) CanPostJobs() bool {
	return r == RoleRecruiter || r == RoleAdmin
}

type User struct {
	ID             int64     `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	HashedPassword string    `json:"-" db:"password"`
	FirstName      string    `json:"firstName,omitempty" db:"first_name"`
	LastName       string    `json:"lastName,omitempty" db:"last_name"`
	Role           Role      `json:"role" db:"role"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
}

type AuthResult struct {
	User   *User      `json:"user"`
	Tokens *TokenPair `json:"-"`
}

// AuthInfo is what a validated access token resolves to.
type AuthInfo struct {
	UserID    int64
	Role      Role
	SessionID string
}

type Session struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Role         Role      `json:"role"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	LastUsedAt   time.Time `json:"last_used_at"`
	UserAgent    string    `json:"user_agent"`
	IPAddress    string    `json:"ip_address"`
}
