package domain

import "math"

// MaxAccounts is the size of the ClientID space.
const MaxAccounts = math.MaxUint16 + 1

// ReportRow is the reported state of one account.
type ReportRow struct {
	Client    ClientID `json:"client"`
	Available Amount   `json:"available"`
	Held      Amount   `json:"held"`
	Total     Amount   `json:"total"`
	Locked    bool     `json:"locked"`
}

type slot struct {
	account Account
	touched bool
}

// Registry owns one account per possible ClientID and routes transactions
// to them. Slots are allocated up front so routing never allocates or fails.
//
// Apply may be called from several goroutines only if every client id is
// handled by exactly one of them.
type Registry struct {
	slots []slot
}

// NewRegistry returns a registry with an empty account for every ClientID.
func NewRegistry() *Registry {
	slots := make([]slot, MaxAccounts)
	for i := range slots {
		slots[i].account.id = ClientID(i)
	}
	return &Registry{slots: slots}
}

// Apply routes tx to its client's account. The account is marked as seen
// even when the transaction is rejected.
func (r *Registry) Apply(tx Transaction) error {
	s := &r.slots[tx.Client()]
	s.touched = true
	return s.account.Apply(tx)
}

// Account returns a snapshot of the given client's account.
func (r *Registry) Account(id ClientID) AccountSnapshot {
	return r.slots[id].account.Snapshot()
}

// Seen reports whether any transaction has been routed to id.
func (r *Registry) Seen(id ClientID) bool {
	return r.slots[id].touched
}

// Touched returns the number of accounts that received a transaction.
func (r *Registry) Touched() int {
	n := 0
	for i := range r.slots {
		if r.slots[i].touched {
			n++
		}
	}
	return n
}

// Locked returns the number of locked accounts.
func (r *Registry) Locked() int {
	n := 0
	for i := range r.slots {
		if r.slots[i].account.locked {
			n++
		}
	}
	return n
}

// Report returns one row per touched account in ascending client order.
func (r *Registry) Report() []ReportRow {
	rows := make([]ReportRow, 0)
	for i := range r.slots {
		s := &r.slots[i]
		if !s.touched {
			continue
		}
		rows = append(rows, ReportRow{
			Client:    s.account.id,
			Available: s.account.available,
			Held:      s.account.held,
			Total:     s.account.Total(),
			Locked:    s.account.locked,
		})
	}
	return rows
}
