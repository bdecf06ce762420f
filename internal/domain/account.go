package domain

import (
	"fmt"
	"maps"
)

// Account is a single client's ledger: its balances, lock flag and the
// lifecycle records of the deposits and withdrawals applied to it.
//
// Account is not safe for concurrent use.
type Account struct {
	id        ClientID
	available Amount
	held      Amount
	locked    bool
	records   map[TxID]TransactionRecord
}

// AccountSnapshot is a deep copy of an account's state.
type AccountSnapshot struct {
	ID        ClientID
	Available Amount
	Held      Amount
	Total     Amount
	Locked    bool
	Records   map[TxID]TransactionRecord
}

// NewAccount returns an empty, unlocked account.
func NewAccount(id ClientID) *Account {
	return &Account{id: id}
}

func (a *Account) ID() ClientID { return a.id }

func (a *Account) Available() Amount { return a.available }

func (a *Account) Held() Amount { return a.held }

func (a *Account) Locked() bool { return a.locked }

// Total returns available + held.
func (a *Account) Total() Amount {
	return a.available.Add(a.held)
}

// Record returns the stored lifecycle entry for a deposit or withdrawal.
func (a *Account) Record(id TxID) (TransactionRecord, bool) {
	rec, ok := a.records[id]
	return rec, ok
}

func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ID:        a.id,
		Available: a.available,
		Held:      a.held,
		Total:     a.Total(),
		Locked:    a.locked,
		Records:   maps.Clone(a.records),
	}
}

// Apply validates tx against the account and applies it. A returned error
// means the account was left untouched.
func (a *Account) Apply(tx Transaction) error {
	if tx.Client() != a.id {
		return &InvalidClientError{Expected: a.id, Actual: tx.Client()}
	}

	if a.locked {
		return ErrClientLocked
	}

	switch tx.Kind() {
	case KindDeposit:
		return a.deposit(tx)
	case KindWithdrawal:
		return a.withdraw(tx)
	case KindDispute:
		return a.dispute(tx.ID())
	case KindResolve:
		return a.resolve(tx.ID())
	case KindChargeback:
		return a.chargeback(tx.ID())
	default:
		return fmt.Errorf("unknown transaction kind %d", tx.Kind())
	}
}

func (a *Account) deposit(tx Transaction) error {
	amount, _ := tx.Amount()
	if amount.IsNegative() {
		return &InvalidDepositError{Amount: amount}
	}

	if err := a.checkUnrecorded(tx.ID()); err != nil {
		return err
	}

	available, held, err := a.shifted(amount, ZeroAmount())
	if err != nil {
		return fmt.Errorf("deposit tx %d: %w", tx.ID(), err)
	}

	a.available, a.held = available, held
	a.record(tx)
	return nil
}

func (a *Account) withdraw(tx Transaction) error {
	amount, _ := tx.Amount()

	diff, err := a.available.CheckedSub(amount)
	if err != nil {
		return fmt.Errorf("withdrawal tx %d: %w", tx.ID(), err)
	}

	if amount.IsNegative() || diff.IsNegative() {
		return &InvalidWithdrawalError{ResultingAmount: diff}
	}

	if err := a.checkUnrecorded(tx.ID()); err != nil {
		return err
	}

	a.available = diff
	a.record(tx)
	return nil
}

// dispute holds the funds of a recorded transaction. A disputed deposit
// moves its amount from available to held; a disputed withdrawal has
// already left available, so only held grows.
func (a *Account) dispute(id TxID) error {
	rec, err := a.lookup(id, TxStateOK)
	if err != nil {
		return err
	}

	amount, _ := rec.Transaction.Amount()
	availableDelta := ZeroAmount()
	if rec.Transaction.Kind() == KindDeposit {
		availableDelta = amount.Neg()
	}

	available, held, err := a.shifted(availableDelta, amount)
	if err != nil {
		return fmt.Errorf("dispute tx %d: %w", id, err)
	}

	a.available, a.held = available, held
	a.setState(rec, TxStateDisputed)
	return nil
}

// resolve reverses the hold placed by dispute.
func (a *Account) resolve(id TxID) error {
	rec, err := a.lookup(id, TxStateDisputed)
	if err != nil {
		return err
	}

	amount, _ := rec.Transaction.Amount()
	availableDelta := ZeroAmount()
	if rec.Transaction.Kind() == KindDeposit {
		availableDelta = amount
	}

	available, held, err := a.shifted(availableDelta, amount.Neg())
	if err != nil {
		return fmt.Errorf("resolve tx %d: %w", id, err)
	}

	a.available, a.held = available, held
	a.setState(rec, TxStateOK)
	return nil
}

// chargeback releases the hold without returning the funds to available
// and locks the account.
func (a *Account) chargeback(id TxID) error {
	rec, err := a.lookup(id, TxStateDisputed)
	if err != nil {
		return err
	}

	amount, _ := rec.Transaction.Amount()
	available, held, err := a.shifted(ZeroAmount(), amount.Neg())
	if err != nil {
		return fmt.Errorf("chargeback tx %d: %w", id, err)
	}

	a.available, a.held = available, held
	a.setState(rec, TxStateChargebacked)
	a.locked = true
	return nil
}

func (a *Account) lookup(id TxID, required TxState) (TransactionRecord, error) {
	rec, ok := a.records[id]
	if !ok || !rec.Transaction.Kind().MovesMoney() {
		return TransactionRecord{}, &NotFoundError{TxID: id}
	}

	if rec.State != required {
		return TransactionRecord{}, &UnprocessableError{TxID: id, Current: rec.State, Required: required}
	}

	return rec, nil
}

// shifted returns the balances after applying the deltas, failing if any of
// available, held or their total leaves the int64 range.
func (a *Account) shifted(availableDelta, heldDelta Amount) (Amount, Amount, error) {
	available, err := a.available.CheckedAdd(availableDelta)
	if err != nil {
		return Amount{}, Amount{}, err
	}

	held, err := a.held.CheckedAdd(heldDelta)
	if err != nil {
		return Amount{}, Amount{}, err
	}

	if _, err := available.CheckedAdd(held); err != nil {
		return Amount{}, Amount{}, err
	}

	return available, held, nil
}

func (a *Account) checkUnrecorded(id TxID) error {
	if _, exists := a.records[id]; exists {
		return fmt.Errorf("%w: tx %d on client %d", ErrDuplicateTransaction, id, a.id)
	}
	return nil
}

func (a *Account) record(tx Transaction) {
	if a.records == nil {
		a.records = make(map[TxID]TransactionRecord)
	}
	a.records[tx.ID()] = TransactionRecord{State: TxStateOK, Transaction: tx}
}

func (a *Account) setState(rec TransactionRecord, state TxState) {
	rec.State = state
	a.records[rec.Transaction.ID()] = rec
}
