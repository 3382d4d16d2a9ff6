package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"hesab.local/pfm/internal/store"
)

const dateLayout = "2006-01-02 15:04:05"

var header = []string{"ID", "Type", "Amount", "Description", "Account", "Category", "Date"}

// WriteCSV writes transactions as CSV with a header row.
// Amounts are written exactly as stored; missing accounts and categories are empty cells.
func WriteCSV(w io.Writer, transactions []store.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, t := range transactions {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			string(t.Type),
			t.Amount.String(),
			t.Description,
			t.AccountName,
			t.CategoryName,
			t.TransactionDate.Format(dateLayout),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", t.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns the download name for an export made at t
func Filename(t time.Time) string {
	return "transactions_" + t.Format("20060102") + ".csv"
}
