package domain

import (
	"errors"
	"fmt"
)

var (
	// Routing errors
	ErrInvalidClient = errors.New("transaction routed to the wrong client")
	ErrClientLocked  = errors.New("client account is locked")

	// Money-moving errors
	ErrInvalidDeposit       = errors.New("invalid deposit")
	ErrInvalidWithdrawal    = errors.New("invalid withdrawal")
	ErrDuplicateTransaction = errors.New("transaction id already recorded")

	// Dispute lifecycle errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUnprocessable       = errors.New("transaction cannot be processed in its current state")
)

// InvalidClientError is returned when a transaction reaches an account it
// does not belong to.
type InvalidClientError struct {
	Expected ClientID
	Actual   ClientID
}

func (e *InvalidClientError) Error() string {
	return fmt.Sprintf("%v: expected client %d, got %d", ErrInvalidClient, e.Expected, e.Actual)
}

func (e *InvalidClientError) Unwrap() error { return ErrInvalidClient }

type InvalidDepositError struct {
	Amount Amount
}

func (e *InvalidDepositError) Error() string {
	return fmt.Sprintf("%v: amount %s is negative", ErrInvalidDeposit, e.Amount)
}

func (e *InvalidDepositError) Unwrap() error { return ErrInvalidDeposit }

// InvalidWithdrawalError carries the balance the withdrawal would have left.
type InvalidWithdrawalError struct {
	ResultingAmount Amount
}

func (e *InvalidWithdrawalError) Error() string {
	return fmt.Sprintf("%v: resulting available balance would be %s", ErrInvalidWithdrawal, e.ResultingAmount)
}

func (e *InvalidWithdrawalError) Unwrap() error { return ErrInvalidWithdrawal }

type NotFoundError struct {
	TxID TxID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: tx %d", ErrTransactionNotFound, e.TxID)
}

func (e *NotFoundError) Unwrap() error { return ErrTransactionNotFound }

// UnprocessableError reports a lifecycle transition attempted from the
// wrong state.
type UnprocessableError struct {
	TxID     TxID
	Current  TxState
	Required TxState
}

func (e *UnprocessableError) Error() string {
	return fmt.Sprintf("%v: tx %d is %s, requires %s", ErrUnprocessable, e.TxID, e.Current, e.Required)
}

func (e *UnprocessableError) Unwrap() error { return ErrUnprocessable }

// ErrorReason returns a short stable label for err, suitable for log fields
// and metric labels.
func ErrorReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidClient):
		return "invalid_client"
	case errors.Is(err, ErrClientLocked):
		return "client_locked"
	case errors.Is(err, ErrInvalidDeposit):
		return "invalid_deposit"
	case errors.Is(err, ErrInvalidWithdrawal):
		return "invalid_withdrawal"
	case errors.Is(err, ErrDuplicateTransaction):
		return "duplicate_transaction"
	case errors.Is(err, ErrTransactionNotFound):
		return "not_found"
	case errors.Is(err, ErrUnprocessable):
		return "unprocessable"
	case errors.Is(err, ErrAmountOverflow):
		return "overflow"
	default:
		return "unknown"
	}
}
