package events

import (
	"encoding/json"
	"time"
)

// ActivityMessage records one confirmed mutation for the audit trail.
// It carries identifiers only; consumers that need entity details fetch
// them from the backend.
type ActivityMessage struct {
	Entity    string    `json:"entity"` // account | transaction | budget | profile
	Action    string    `json:"action"` // created | updated | deleted
	Ref       string    `json:"ref"`    // backend entity ID
	Month     string    `json:"month,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewActivityMessage(entity, action, ref, month string) *ActivityMessage {
	return &ActivityMessage{
		Entity:    entity,
		Action:    action,
		Ref:       ref,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *ActivityMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ActivityMessageFromJSON(data []byte) (*ActivityMessage, error) {
	var msg ActivityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
