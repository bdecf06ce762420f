package domain

import "fmt"

// TxState is the dispute lifecycle state of a recorded deposit or withdrawal.
type TxState uint8

const (
	TxStateOK TxState = iota
	TxStateDisputed
	TxStateChargebacked
)

func (s TxState) String() string {
	switch s {
	case TxStateOK:
		return "ok"
	case TxStateDisputed:
		return "disputed"
	case TxStateChargebacked:
		return "chargebacked"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// TransactionRecord is the stored lifecycle entry of a deposit or withdrawal.
type TransactionRecord struct {
	State       TxState
	Transaction Transaction
}
