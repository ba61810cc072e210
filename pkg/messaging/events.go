package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventSalaryCredited      = "payroll.salary.credited"
	EventTransactionRecorded = "payroll.transaction.recorded"
)

// ExchangeWageflowEvents is the topic exchange every payroll event goes to
const ExchangeWageflowEvents = "wageflow.events"

// Event is the envelope for every published message
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data any) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v any) error {
	return json.Unmarshal(e.Data, v)
}

// SalaryCreditedEvent is published once per salary credit created by a generation run
type SalaryCreditedEvent struct {
	CompanyID     string `json:"company_id"`
	EmployeeID    string `json:"employee_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Month         string `json:"month"` // YYYY-MM
}

// TransactionRecordedEvent is published when a cash transaction is recorded by hand
type TransactionRecordedEvent struct {
	CompanyID     string    `json:"company_id"`
	EmployeeID    string    `json:"employee_id"`
	TransactionID string    `json:"transaction_id"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	Date          time.Time `json:"date"`
	RecordedBy    string    `json:"recorded_by,omitempty"`
}
