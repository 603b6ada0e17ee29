package amqp

import (
	"encoding/json"
	"time"
)

// Entities and actions carried by LedgerChangeMessage.
const (
	EntityTransaction = "transaction"
	EntityBudget      = "budget"
	EntityPreferences = "preferences"

	ActionSaved   = "saved"
	ActionDeleted = "deleted"
)

// LedgerChangeMessage announces that a ledger collection was persisted.
// It carries identifiers only; consumers read the data from the store.
type LedgerChangeMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id,omitempty"`
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangeMessage(entity, action, id string, revision int64) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Revision:  revision,
		Timestamp: time.Now().UTC(),
	}
}

func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RoutingKey is <entity>.<action>, e.g. "budget.deleted".
func (m *LedgerChangeMessage) RoutingKey() string {
	return m.Entity + "." + m.Action
}
