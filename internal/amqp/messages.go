package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types; each is also the routing key on the topic exchange.
const (
	EventExpenseCreated  = "expense.created"
	EventExpenseUpdated  = "expense.updated"
	EventExpenseDeleted  = "expense.deleted"
	EventBudgetsReplaced = "budgets.replaced"
)

// ChangeEvent announces a successful write on the data endpoint. It carries
// just enough for a consumer to re-fetch the resource.
type ChangeEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Resource  string    `json:"resource"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeEvent stamps an event with a fresh id and the current time.
func NewChangeEvent(eventType, resource string) *ChangeEvent {
	return &ChangeEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Resource:  resource,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var msg ChangeEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
