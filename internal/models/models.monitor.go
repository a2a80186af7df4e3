// FilePath: internal/models/models.monitor.go
package models

import "time"

// Monitor is a camera-equipped edge unit known to the directory. The key/name
// pair is the unit's wire identity; both halves must match on every announce
// and report.
type Monitor struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Key       string    `json:"key" db:"key"`
	Location  string    `json:"location,omitempty" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ClientID returns the registry key for this monitor's identity.
func (m *Monitor) ClientID() string {
	return ClientID(m.Key, m.Name)
}

// ClientID composes the registry key from an identity pair.
func ClientID(key, name string) string {
	return key + "_" + name
}

// MonitorStatus is the read-side view of a monitor: directory fields merged
// with live registry state at snapshot time.
type MonitorStatus struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Key         string  `json:"key"`
	PeopleCount int     `json:"people_count"`
	Image       string  `json:"image"`
	Status      string  `json:"status"`
	Delay       float64 `json:"delay"`
}

// Status values reported on the wire for a monitor row.
const (
	StatusLive  = "OK"
	StatusStale = "ERROR"
)
