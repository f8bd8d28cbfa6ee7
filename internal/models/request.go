package models

import "time"

// RequestStatus is the admission state of a participation request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// Request is a user's application to participate in an event. At most one
// non-canceled request may exist per (event, requester) pair; the service
// layer enforces this with a live-request lookup before insert.
type Request struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	EventID     uint          `gorm:"not null;index" json:"event"`
	Event       Event         `gorm:"foreignKey:EventID" json:"-"`
	RequesterID uint          `gorm:"not null;index" json:"requester"`
	Requester   User          `gorm:"foreignKey:RequesterID" json:"-"`
	Created     time.Time     `gorm:"not null" json:"created"`
	Status      RequestStatus `gorm:"size:16;not null;index" json:"status"`
}

// RequestStatusUpdate is the batch confirm/reject payload applied by an
// event's initiator to pending requests.
type RequestStatusUpdate struct {
	RequestIDs []uint        `json:"requestIds"`
	Status     RequestStatus `json:"status"`
}

// RequestStatusResult reports which requests ended up confirmed and which
// rejected after a batch update.
type RequestStatusResult struct {
	ConfirmedRequests []Request `json:"confirmedRequests"`
	RejectedRequests  []Request `json:"rejectedRequests"`
}
