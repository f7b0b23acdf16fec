package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

func (s RegistrationStatus) Valid() bool {
	return s == RegistrationConfirmed || s == RegistrationCancelled
}

type Registration struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Event     primitive.ObjectID `bson:"event" json:"event"`
	Attendee  primitive.ObjectID `bson:"attendee" json:"attendee"`
	Status    RegistrationStatus `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RegistrationAttendee is the attendee slice exposed on listings.
type RegistrationAttendee struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// PopulatedRegistration is a Registration with the attendee reference
// expanded to name and email.
type PopulatedRegistration struct {
	ID        primitive.ObjectID   `json:"_id"`
	Event     primitive.ObjectID   `json:"event"`
	Attendee  RegistrationAttendee `json:"attendee"`
	Status    RegistrationStatus   `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

func (r Registration) Populate(attendee *User) PopulatedRegistration {
	p := PopulatedRegistration{
		ID:        r.ID,
		Event:     r.Event,
		Attendee:  RegistrationAttendee{ID: r.Attendee},
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if attendee != nil {
		p.Attendee.Name = attendee.Name
		p.Attendee.Email = attendee.Email
	}
	return p
}
