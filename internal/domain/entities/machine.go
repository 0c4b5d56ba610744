package entities

import "time"

const (
	StatusDetecting   = "detecting"
	StatusPolling     = "polling"
	StatusUnreachable = "unreachable"
)

// Machine - сохраненное состояние опрашиваемого станка
type Machine struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Endpoint            string     `gorm:"not null;unique" json:"endpoint"` // IP:PORT
	DeviceUUID          string     `gorm:"not null" json:"device_uuid"`
	ControlVersion      string     `json:"control_version"` // C00 / D00
	UnitSystem          string     `json:"unit_system"`
	Status              string     `gorm:"not null" json:"status"` // detecting / polling / unreachable
	ConsecutiveFailures int        `json:"consecutive_failures"`
	LastSeenAt          *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
