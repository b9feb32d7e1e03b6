package domain

import (
	"context"
	"time"
)

const (
	RoleTalent    = "talent"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

type User struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Country      string     `json:"country"`
	Company      *string    `json:"company,omitempty"`
	Position     *string    `json:"position,omitempty"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// UserSummary is the subset of a user inlined into profile reads.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Country   string
	Company   string
	Position  string
}

type LoginInput struct {
	Email    string
	Password string
	Role     string // optional account-type hint
}

// Identity is what the auth gate attaches to a request.
type Identity struct {
	UserID string
	Role   string
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

// Session is a freshly issued token and the account it belongs to.
type Session struct {
	Token string
	User  *User
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}
