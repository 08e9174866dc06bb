package model

import "time"

// User is a persisted club account. Hash and Salt are derived from the
// password at registration time and are never JSON-encoded.
type User struct {
	ID        string     `json:"id"`
	FName     string     `json:"fname"`
	LName     string     `json:"lname"`
	Hash      string     `json:"-"`
	Salt      string     `json:"-"`
	Admin     bool       `json:"admin"`
	Email     string     `json:"email"`
	Member    bool       `json:"member"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
