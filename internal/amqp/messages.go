package amqp

import (
	"encoding/json"
	"time"
)

// Entities and actions carried on the change feed.
const (
	EntityTransaction  = "transaction"
	EntityGoal         = "goal"
	EntityNotification = "notification"
	EntitySettings     = "settings"

	ActionCreate = "create"
	ActionDelete = "delete"
	ActionUpdate = "update"
)

// ChangeMessage is a lightweight data-change event. It carries only the
// entity identity; consumers fetch the full record from storage.
type ChangeMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(entity, action string, id int64, userID string) *ChangeMessage {
	return &ChangeMessage{
		Entity:    entity,
		Action:    action,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
