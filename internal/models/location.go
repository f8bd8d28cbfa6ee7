package models

// Location is a geographic point shared between events. Rows are
// deduplicated by coordinate pair through a find-or-create lookup.
type Location struct {
	ID  uint    `gorm:"primaryKey" json:"-"`
	Lat float64 `gorm:"not null;uniqueIndex:idx_locations_lat_lon" json:"lat"`
	Lon float64 `gorm:"not null;uniqueIndex:idx_locations_lat_lon" json:"lon"`
}
