package csvsource

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iho/txengine/internal/domain"
	"github.com/iho/txengine/internal/usecase"
)

// MaxLineLength is the longest input line Source accepts. A longer line
// stops the read with bufio.ErrTooLong.
const MaxLineLength = 64 * 1024

// Source reads transactions from rows of the form
//
//	type, client, tx, amount
//
// The header row is optional and the amount column may be omitted for
// disputes, resolves and chargebacks. Every physical line is parsed on its
// own, so a broken row (an unbalanced quote included) only costs that line.
type Source struct {
	scanner  *bufio.Scanner
	rounding domain.Rounding
	line     int
	started  bool
}

// New creates a Source reading from r. Amounts are parsed with rounding.
func New(r io.Reader, rounding domain.Rounding) *Source {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)

	return &Source{
		scanner:  scanner,
		rounding: rounding,
	}
}

// Next implements usecase.TransactionSource.
func (s *Source) Next() (domain.Transaction, error) {
	for s.scanner.Scan() {
		s.line++

		text := s.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		record, err := splitLine(text)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("line %d: %w: %w", s.line, usecase.ErrMalformedRecord, err)
		}

		if !s.started {
			s.started = true
			if isHeader(record) {
				continue
			}
		}

		tx, err := s.parse(record)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("line %d: %w: %w", s.line, usecase.ErrMalformedRecord, err)
		}

		return tx, nil
	}

	if err := s.scanner.Err(); err != nil {
		return domain.Transaction{}, fmt.Errorf("line %d: %w", s.line+1, err)
	}

	return domain.Transaction{}, io.EOF
}

// splitLine parses one line as a CSV record. Quotes cannot span lines.
func splitLine(text string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	return reader.Read()
}

func (s *Source) parse(record []string) (domain.Transaction, error) {
	if len(record) < 3 || len(record) > 4 {
		return domain.Transaction{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(record))
	}

	kind, err := domain.ParseKind(record[0])
	if err != nil {
		return domain.Transaction{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 16)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("client: %w", err)
	}

	id, err := strconv.ParseUint(strings.TrimSpace(record[2]), 10, 32)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("tx: %w", err)
	}

	// Disputes, resolves and chargebacks take the amount of the transaction
	// they reference; a value in their amount column is ignored.
	var amount *domain.Amount
	if kind.MovesMoney() && len(record) == 4 && strings.TrimSpace(record[3]) != "" {
		parsed, err := domain.ParseAmountWithRounding(record[3], s.rounding)
		if err != nil {
			return domain.Transaction{}, err
		}
		amount = &parsed
	}

	return domain.NewTransaction(kind, domain.ClientID(client), domain.TxID(id), amount)
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "type")
}
