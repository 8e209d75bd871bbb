package model

import "time"

// Role is the permission level of a user.
type Role string

const (
    RoleUser  Role = "user"
    RoleAdmin Role = "admin"
)

// User is a registered customer or administrator.  Password holds a
// bcrypt hash and is never serialised to API clients; handlers expose
// PublicUser instead.
type User struct {
    ID        string    `json:"id"`
    Name      string    `json:"name"`
    Email     string    `json:"email"`
    Password  string    `json:"password"`
    Role      Role      `json:"role"`
    CreatedAt time.Time `json:"createdAt"`
}

// PublicUser is the client-facing view of a User.
type PublicUser struct {
    ID        string    `json:"id"`
    Name      string    `json:"name"`
    Email     string    `json:"email"`
    Role      Role      `json:"role"`
    CreatedAt time.Time `json:"createdAt"`
}

// Public strips the password hash.
func (u User) Public() PublicUser {
    return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}
