package models

import "time"

// EventState is the moderation/publication state of an event.
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
	EventStateRejected  EventState = "REJECTED"
)

// ParseEventState maps a query/body value onto an EventState.
func ParseEventState(s string) (EventState, bool) {
	switch EventState(s) {
	case EventStatePending, EventStatePublished, EventStateCanceled, EventStateRejected:
		return EventState(s), true
	}
	return "", false
}

// EventStateAction is a role-scoped state transition requested through an
// event update. Admin actions operate on PENDING events; owner actions are
// allowed on anything not yet PUBLISHED.
type EventStateAction string

const (
	StateActionPublishEvent EventStateAction = "PUBLISH_EVENT"
	StateActionRejectEvent  EventStateAction = "REJECT_EVENT"
	StateActionSendToReview EventStateAction = "SEND_TO_REVIEW"
	StateActionCancelReview EventStateAction = "CANCEL_REVIEW"
)

// EventSort selects the post-filter ordering for public event search.
type EventSort string

const (
	EventSortViews     EventSort = "VIEWS"
	EventSortEventDate EventSort = "EVENT_DATE"
)

// Event represents a schedulable activity with capacity, moderation and a
// publication workflow. Views is a local monotonic counter bumped by every
// public read; the external hit aggregate from the stats collector is a
// second, independent signal.
type Event struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Title             string     `gorm:"size:120;not null" json:"title"`
	Annotation        string     `gorm:"size:2000;not null" json:"annotation"`
	Description       string     `gorm:"type:text;not null" json:"description"`
	CategoryID        uint       `gorm:"not null;index" json:"-"`
	Category          Category   `gorm:"foreignKey:CategoryID" json:"category"`
	InitiatorID       uint       `gorm:"not null;index" json:"-"`
	Initiator         User       `gorm:"foreignKey:InitiatorID" json:"initiator"`
	LocationID        uint       `gorm:"not null" json:"-"`
	Location          Location   `gorm:"foreignKey:LocationID" json:"location"`
	EventDate         time.Time  `gorm:"not null;index" json:"eventDate"`
	Paid              bool       `gorm:"not null;default:false" json:"paid"`
	ParticipantLimit  int        `gorm:"not null;default:0" json:"participantLimit"`
	RequestModeration bool       `gorm:"not null;default:true" json:"requestModeration"`
	State             EventState `gorm:"size:16;not null;index" json:"state"`
	CreatedOn         time.Time  `gorm:"not null" json:"createdOn"`
	PublishedOn       *time.Time `json:"publishedOn,omitempty"`
	Views             int64      `gorm:"not null;default:0" json:"views"`
}

// EventSummary is an event enriched with its confirmed-request count, used
// by list responses and compilations.
type EventSummary struct {
	Event
	ConfirmedRequests int64 `json:"confirmedRequests"`
}

// EventDetail is the full public representation of an event. Hits carries
// the externally aggregated view count from the stats collector; Views on
// the embedded event stays the local counter.
type EventDetail struct {
	Event
	ConfirmedRequests int64 `json:"confirmedRequests"`
	Hits              int64 `json:"hits"`
}
