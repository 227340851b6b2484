package domain

import "time"

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleManager }

// Account is either a user or a venue manager; both share one shape.
type Account struct {
	ID           int64     `json:"id"`
	Role         Role      `json:"-"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        *string   `json:"phone"`
	ProfilePic   *string   `json:"profile_pic"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	ID   int64
	Role Role
}

type Session struct {
	Account Account `json:"account"`
	Token   string  `json:"token"`
}
