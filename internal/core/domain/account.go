package domain

import "time"

// Account models a registered user of the campus platform.
//
// The id is a ULID: 26 characters, lexicographically sortable by creation
// time. Username is unique case-insensitively; email and phone are optional
// but unique when set. Phone numbers are stored in canonical E.164 form.
type Account struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Nickname       string    `json:"nickname,omitempty"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	IsVerified     bool      `json:"is_verified"`
	EmailVerified  bool      `json:"is_email_verified"`
	PhoneVerified  bool      `json:"is_phone_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AccountUpdate carries the mutable fields of an account. Nil pointers mean
// "leave unchanged"; an empty string clears an optional field.
type AccountUpdate struct {
	Email          *string
	Phone          *string
	Nickname       *string
	HashedPassword *string
	IsActive       *bool
	IsSuperuser    *bool
	IsVerified     *bool
	EmailVerified  *bool
	PhoneVerified  *bool
}
