package domain

import (
	"fmt"
	"strings"
)

// ClientID identifies a client account.
type ClientID uint16

// TxID identifies a transaction.
type TxID uint32

// Kind is the type of a ledger event.
type Kind uint8

const (
	KindDeposit Kind = iota + 1
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

var kindNames = map[Kind]string{
	KindDeposit:    "deposit",
	KindWithdrawal: "withdrawal",
	KindDispute:    "dispute",
	KindResolve:    "resolve",
	KindChargeback: "chargeback",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MovesMoney reports whether transactions of this kind carry an amount.
func (k Kind) MovesMoney() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// ParseKind parses the type column of an input row.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

// Transaction is an immutable ledger event. Deposits and withdrawals carry
// an amount; disputes, resolves and chargebacks reference an earlier
// transaction by ID.
type Transaction struct {
	kind   Kind
	client ClientID
	id     TxID
	amount Amount
}

func NewDeposit(client ClientID, id TxID, amount Amount) Transaction {
	return Transaction{kind: KindDeposit, client: client, id: id, amount: amount}
}

func NewWithdrawal(client ClientID, id TxID, amount Amount) Transaction {
	return Transaction{kind: KindWithdrawal, client: client, id: id, amount: amount}
}

func NewDispute(client ClientID, id TxID) Transaction {
	return Transaction{kind: KindDispute, client: client, id: id}
}

func NewResolve(client ClientID, id TxID) Transaction {
	return Transaction{kind: KindResolve, client: client, id: id}
}

func NewChargeback(client ClientID, id TxID) Transaction {
	return Transaction{kind: KindChargeback, client: client, id: id}
}

// NewTransaction builds a transaction of the given kind. The amount is
// required for money-moving kinds and must be nil otherwise.
func NewTransaction(kind Kind, client ClientID, id TxID, amount *Amount) (Transaction, error) {
	switch kind {
	case KindDeposit, KindWithdrawal:
		if amount == nil {
			return Transaction{}, fmt.Errorf("%s %d: amount is required", kind, id)
		}
		return Transaction{kind: kind, client: client, id: id, amount: *amount}, nil
	case KindDispute, KindResolve, KindChargeback:
		if amount != nil {
			return Transaction{}, fmt.Errorf("%s %d: amount is not allowed", kind, id)
		}
		return Transaction{kind: kind, client: client, id: id}, nil
	default:
		return Transaction{}, fmt.Errorf("unknown transaction kind %d", kind)
	}
}

func (t Transaction) Kind() Kind { return t.kind }

func (t Transaction) Client() ClientID { return t.client }

func (t Transaction) ID() TxID { return t.id }

// Amount returns the amount of a deposit or withdrawal. ok is false for the
// other kinds.
func (t Transaction) Amount() (amount Amount, ok bool) {
	if !t.kind.MovesMoney() {
		return Amount{}, false
	}
	return t.amount, true
}

func (t Transaction) String() string {
	if amount, ok := t.Amount(); ok {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", t.kind, t.client, t.id, amount)
	}
	return fmt.Sprintf("%s client=%d tx=%d", t.kind, t.client, t.id)
}
