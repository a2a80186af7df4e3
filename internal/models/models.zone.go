// FilePath: internal/models/models.zone.go
package models

import "time"

// ZoneMode selects how multiple live monitor counts reduce to one zone value.
type ZoneMode string

const (
	ZoneModeMax ZoneMode = "max"
	ZoneModeMin ZoneMode = "min"
	ZoneModeAvg ZoneMode = "avg"
	ZoneModeSum ZoneMode = "sum"
)

// Valid reports whether the mode is one of the four supported modes.
func (m ZoneMode) Valid() bool {
	switch m {
	case ZoneModeMax, ZoneModeMin, ZoneModeAvg, ZoneModeSum:
		return true
	}
	return false
}

// Zone is a named aggregation of monitors sharing a combining mode. Monitors
// are referenced by name; resolution to identities happens at read time
// through the directory.
type Zone struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Mode      ZoneMode  `json:"mode" db:"mode"`
	Monitors  []string  `json:"monitors" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ZoneStatus is the read-side view of a zone including its computed count.
type ZoneStatus struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Mode        ZoneMode `json:"mode"`
	Monitors    []string `json:"monitors"`
	PeopleCount int      `json:"people_count"`
}
