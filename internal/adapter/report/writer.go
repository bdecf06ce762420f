package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iho/txengine/internal/domain"
)

// Format is an output encoding for the account report.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var header = []string{"client", "available", "held", "total", "locked"}

// Write renders rows to w in the given format.
func Write(w io.Writer, format Format, rows []domain.ReportRow) error {
	switch format {
	case FormatCSV, "":
		return writeCSV(w, rows)
	case FormatJSON:
		return writeJSON(w, rows)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeCSV(w io.Writer, rows []domain.ReportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.Client), 10),
			row.Available.String(),
			row.Held.String(),
			row.Total.String(),
			strconv.FormatBool(row.Locked),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// writeJSON emits one JSON object per line.
func writeJSON(w io.Writer, rows []domain.ReportRow) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
