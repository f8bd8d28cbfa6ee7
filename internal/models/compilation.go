package models

// Compilation is a curated, optionally pinned selection of events.
// Membership rows cascade away when an event is deleted.
type Compilation struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Title  string  `gorm:"size:50;not null;uniqueIndex" json:"title"`
	Pinned bool    `gorm:"not null;default:false" json:"pinned"`
	Events []Event `gorm:"many2many:compilation_events;constraint:OnDelete:CASCADE" json:"-"`
}

// CompilationDetail is a compilation with its events rendered as enriched
// summaries.
type CompilationDetail struct {
	ID     uint           `json:"id"`
	Title  string         `json:"title"`
	Pinned bool           `json:"pinned"`
	Events []EventSummary `json:"events"`
}
