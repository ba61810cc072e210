// Package events publishes payroll events for downstream consumers.
package events

import (
	"context"

	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/pkg/logger"
	"github.com/wageflow/wageflow-backend/pkg/messaging"
)

// Source is the envelope source of every event this service emits
const Source = "wageflow-api"

// PayrollEventPublisher publishes payroll events. Publishing is best-effort:
// failures are logged and never reach the caller.
type PayrollEventPublisher struct {
	publisher messaging.EventPublisher
	logger    *logger.Logger
}

// NewPayrollEventPublisher wraps an EventPublisher
func NewPayrollEventPublisher(publisher messaging.EventPublisher, log *logger.Logger) *PayrollEventPublisher {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &PayrollEventPublisher{
		publisher: publisher,
		logger:    log,
	}
}

// NewRabbitMQPublisher binds a PayrollEventPublisher to the wageflow events exchange
func NewRabbitMQPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*PayrollEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeWageflowEvents, Source, log)
	if err != nil {
		return nil, err
	}
	return NewPayrollEventPublisher(publisher, log), nil
}

// PublishSalaryCredited publishes one event for a credit created by a salary run
func (p *PayrollEventPublisher) PublishSalaryCredited(ctx context.Context, month domain.Month, txn domain.Transaction) {
	data := messaging.SalaryCreditedEvent{
		CompanyID:     txn.CompanyID,
		EmployeeID:    txn.EmployeeID,
		TransactionID: txn.ID,
		Amount:        txn.Amount.StringFixed(2),
		Month:         month.Key(),
	}

	if err := p.publisher.Publish(ctx, messaging.EventSalaryCredited, data); err != nil {
		p.logger.Error().Err(err).
			Str("company_id", txn.CompanyID).
			Str("transaction_id", txn.ID).
			Msg("failed to publish salary credited event")
	}
}

// PublishTransactionRecorded publishes a hand-recorded cash transaction
func (p *PayrollEventPublisher) PublishTransactionRecorded(ctx context.Context, txn domain.Transaction, recordedBy string) {
	data := messaging.TransactionRecordedEvent{
		CompanyID:     txn.CompanyID,
		EmployeeID:    txn.EmployeeID,
		TransactionID: txn.ID,
		Type:          string(txn.Type),
		Amount:        txn.Amount.StringFixed(2),
		Date:          txn.Date,
		RecordedBy:    recordedBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventTransactionRecorded, data); err != nil {
		p.logger.Error().Err(err).
			Str("company_id", txn.CompanyID).
			Str("transaction_id", txn.ID).
			Msg("failed to publish transaction recorded event")
	}
}
