// Package stats is the hit collector service: it records endpoint visits
// from other services and answers aggregate view-count queries.
package stats

import "time"

// App is a service that records hits, deduplicated by name.
type App struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"size:255;uniqueIndex;not null"`
}

// Hit is one recorded visit to an endpoint.
type Hit struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	AppID     uint      `json:"-" gorm:"not null;index"`
	App       App       `json:"-"`
	URI       string    `json:"uri" gorm:"size:512;not null;index"`
	IP        string    `json:"ip" gorm:"size:45;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}

// ViewStats is an aggregate hit count for one (app, uri) pair.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}
