package models

import "time"

// Comment is a user comment on a published event. Editable only by its
// author, and only within two hours of creation.
type Comment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Text      string     `gorm:"size:7000;not null" json:"text"`
	AuthorID  uint       `gorm:"not null;index" json:"author"`
	Author    User       `gorm:"foreignKey:AuthorID" json:"-"`
	EventID   uint       `gorm:"not null;index" json:"event"`
	Event     Event      `gorm:"foreignKey:EventID" json:"-"`
	CreatedOn time.Time  `gorm:"not null" json:"createdOn"`
	EditedOn  *time.Time `json:"editedOn,omitempty"`
}
