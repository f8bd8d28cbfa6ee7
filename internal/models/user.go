// Package models contains data structures for the platform's domain entities.
package models

import "time"

// User represents a registered platform user. Users are managed by
// administrators; regular endpoints identify the acting user by path.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:250;not null" json:"name"`
	Email     string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"-"`
}
