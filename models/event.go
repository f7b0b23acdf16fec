package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventStatus string

const (
	EventActive    EventStatus = "active"
	EventCancelled EventStatus = "cancelled"
	EventFlagged   EventStatus = "flagged"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventActive, EventCancelled, EventFlagged:
		return true
	}
	return false
}

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	DateTime    time.Time          `bson:"dateTime" json:"dateTime"`
	Location    string             `bson:"location" json:"location"`
	Organizer   primitive.ObjectID `bson:"organizer" json:"organizer"`
	Category    string             `bson:"category" json:"category"`
	TicketPrice float64            `bson:"ticketPrice" json:"ticketPrice"`
	Status      EventStatus        `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EventOrganizer is the slice of the User record exposed when an event
// is returned with its organizer expanded.
type EventOrganizer struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// PopulatedEvent is an Event with the organizer reference replaced by
// the organizer's public fields.
type PopulatedEvent struct {
	ID          primitive.ObjectID `json:"_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	DateTime    time.Time          `json:"dateTime"`
	Location    string             `json:"location"`
	Organizer   EventOrganizer     `json:"organizer"`
	Category    string             `json:"category"`
	TicketPrice float64            `json:"ticketPrice"`
	Status      EventStatus        `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Populate attaches organizer details to an event. A missing organizer
// record leaves the public fields empty rather than failing the read.
func (e Event) Populate(organizer *User) PopulatedEvent {
	p := PopulatedEvent{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		DateTime:    e.DateTime,
		Location:    e.Location,
		Organizer:   EventOrganizer{ID: e.Organizer},
		Category:    e.Category,
		TicketPrice: e.TicketPrice,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if organizer != nil {
		p.Organizer.Name = organizer.Name
		p.Organizer.Email = organizer.Email
	}
	return p
}
