package usecase

import (
	"errors"

	"github.com/iho/txengine/internal/domain"
)

// ErrMalformedRecord marks an input row that could not be turned into a
// transaction. Sources wrap it so the row can be skipped.
var ErrMalformedRecord = errors.New("malformed transaction record")

// TransactionSource yields transactions in input order.
type TransactionSource interface {
	// Next returns the next transaction, io.EOF once the input is exhausted,
	// or an error wrapping ErrMalformedRecord for a row that must be skipped.
	Next() (domain.Transaction, error)
}

// Ledger applies transactions to client accounts and reports their state.
//
// Apply must tolerate concurrent calls for distinct client ids.
type Ledger interface {
	Apply(tx domain.Transaction) error
	Report() []domain.ReportRow
	Touched() int
	Locked() int
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
