package domain

import "time"

type UserProfile struct {
	UID              string    `json:"uid"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	FullName         string    `json:"fullName,omitempty"`
	Role             string    `json:"role,omitempty"`
	ProfileCompleted bool      `json:"profileCompleted"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Pincode          string    `json:"pincode"`
	PhotoURL         string    `json:"photoURL"`
	CreatedAt        time.Time `json:"createdAt,omitzero"`
	UpdatedAt        time.Time `json:"updatedAt,omitzero"`
}

// EditableUserFields lists the profile fields a client may change.
var EditableUserFields = map[string]struct{}{
	"username":         {},
	"fullName":         {},
	"role":             {},
	"profileCompleted": {},
	"phone":            {},
	"address":          {},
	"city":             {},
	"state":            {},
	"pincode":          {},
	"photoURL":         {},
}
