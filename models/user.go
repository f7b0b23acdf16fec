package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account roles. Authorization boundaries
// match on these constants only; unknown strings never pass a guard.
type Role string

const (
	RoleOrganizer Role = "Organizer"
	RoleAttendee  Role = "Attendee"
	RoleAdmin     Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOrganizer, RoleAttendee, RoleAdmin:
		return true
	}
	return false
}

// CanManageEvents reports whether the role may create events.
func (r Role) CanManageEvents() bool {
	return r == RoleOrganizer || r == RoleAdmin
}

// UserStatus is the moderation state set by admins.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
	StatusBanned    UserStatus = "banned"
)

func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusBanned:
		return true
	}
	return false
}

type User struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name        string               `bson:"name" json:"name"`
	Email       string               `bson:"email" json:"email"`
	Password    string               `bson:"password" json:"-"`
	Role        Role                 `bson:"role" json:"role"`
	Status      UserStatus           `bson:"status" json:"status"`
	SavedEvents []primitive.ObjectID `bson:"savedEvents" json:"savedEvents"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}
