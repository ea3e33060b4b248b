package mcmodel

import (
	"fmt"
	"time"
)

type User struct {
	ID        int       `json:"id"`
	UUID      string    `json:"uuid"`
	Slug      string    `json:"slug"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Href() string {
	return fmt.Sprintf("/users/%d", u.ID)
}

// ToAttrs renders the user the way the model layer reads it.
func (u User) ToAttrs() map[string]any {
	return map[string]any{
		"id":       u.ID,
		"href":     u.Href(),
		"uuid":     u.UUID,
		"slug":     u.Slug,
		"username": u.Username,
		"email":    u.Email,
	}
}
