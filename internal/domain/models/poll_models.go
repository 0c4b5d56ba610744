package models

import "time"

// PollStatus - текущее состояние цикла опроса.
type PollStatus struct {
	Endpoint            string
	ControlVersion      string
	Cycles              uint64
	ConsecutiveFailures int
	LastSuccess         time.Time
}

// SnapshotMessage - сообщение со снимком для Kafka и MQTT.
type SnapshotMessage struct {
	MachineID      string            `json:"machine_id"`
	Endpoint       string            `json:"endpoint"`
	Timestamp      time.Time         `json:"timestamp"`
	ControlVersion string            `json:"control_version"`
	UnitSystem     string            `json:"unit_system"`
	Fields         map[string]string `json:"fields"`
}
