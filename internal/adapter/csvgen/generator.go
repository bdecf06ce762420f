// Package csvgen writes randomized transaction files in the format read by
// csvsource, for load and smoke testing.
package csvgen

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"

	"github.com/iho/txengine/internal/domain"
)

const (
	DefaultRows    = 50000
	DefaultClients = 10

	header = "type, client, tx, amount\r\n"
)

// Kinds are drawn from this table; deposits appear twice so that accounts
// tend to carry funds.
var kindTable = []domain.Kind{
	domain.KindDeposit,
	domain.KindWithdrawal,
	domain.KindDispute,
	domain.KindResolve,
	domain.KindChargeback,
	domain.KindDeposit,
}

// Options controls a generated file.
type Options struct {
	Rows    int
	Clients int
	Seed    int64
}

// Stats describes what Write produced.
type Stats struct {
	Rows          int
	WithAmount    int
	WithoutAmount int
}

// Write emits a header and opts.Rows rows. Transaction ids are a shuffled
// permutation of [0, Rows). About half of the rows carry an amount,
// whatever their kind, and rows mix "\n" and "\r\n" endings. Amounts are
// float32 values in [0, 1) printed at full precision, so most have more
// than four fractional digits.
func Write(w io.Writer, opts Options) (Stats, error) {
	if opts.Rows < 0 {
		return Stats{}, fmt.Errorf("rows must not be negative, got %d", opts.Rows)
	}
	if opts.Clients < 1 || opts.Clients > domain.MaxAccounts {
		return Stats{}, fmt.Errorf("clients must be in [1, %d], got %d", domain.MaxAccounts, opts.Clients)
	}
	if opts.Rows > 0 && uint64(opts.Rows-1) > uint64(^domain.TxID(0)) {
		return Stats{}, fmt.Errorf("rows exceed the transaction id space: %d", opts.Rows)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	bw := bufio.NewWriter(w)

	var stats Stats
	if _, err := bw.WriteString(header); err != nil {
		return stats, err
	}

	for _, id := range rng.Perm(opts.Rows) {
		kind := kindTable[rng.Intn(len(kindTable))]
		client := rng.Intn(opts.Clients)

		line := kind.String() + ", " + strconv.Itoa(client) + ", " + strconv.Itoa(id)
		if rng.Intn(2) == 0 {
			amount := strconv.FormatFloat(float64(rng.Float32()), 'f', -1, 32)
			line += ", " + amount
			stats.WithAmount++
		} else {
			stats.WithoutAmount++
		}

		if rng.Intn(2) == 0 {
			line += "\r\n"
		} else {
			line += "\n"
		}

		if _, err := bw.WriteString(line); err != nil {
			return stats, err
		}
		stats.Rows++
	}

	return stats, bw.Flush()
}
