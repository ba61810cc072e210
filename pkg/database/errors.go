package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/wageflow/wageflow-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	case "23514":
		return mapCheckConstraint(pqErr)

	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	case "23503":
		return errors.BadRequest("referenced record does not exist")

	case "22003":
		return errors.Validation("numeric value is out of range", nil)

	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(col+" must not be empty", map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// AsAppError returns err as an AppError, mapping pq errors and wrapping
// anything else as internal.
func AsAppError(err error) *errors.AppError {
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if mapped := MapPQError(err); mapped != nil {
		return mapped
	}
	return errors.Internal(err)
}

func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "amount_positive"):
		return errors.Validation("amount must be greater than zero", map[string]string{
			"amount": "must be greater than zero",
		})

	case strings.Contains(constraint, "wage_non_negative"):
		return errors.Validation("wage must not be negative", map[string]string{
			"wage": "must not be negative",
		})

	case strings.Contains(constraint, "transaction_type_valid"):
		return errors.Validation("invalid transaction type", map[string]string{
			"type": "must be one of: advance, payment, salary_credit",
		})

	case strings.Contains(constraint, "employee_type_valid"):
		return errors.Validation("invalid employee type", map[string]string{
			"type": "must be one of: daily, salary",
		})

	default:
		return errors.Validation("data validation failed: "+constraint, nil)
	}
}

func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "attendance_slot"):
		return "attendance for this employee, site and day was changed concurrently; retry the submission"
	default:
		return "a record with these values already exists"
	}
}
