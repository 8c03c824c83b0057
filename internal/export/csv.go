// Package export renders transaction history into archive formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ironaxle/weighstation/internal/domain"
)

// csvHeader is the column order of a transaction export. Kept stable so
// downstream spreadsheets and ERP imports don't break between versions.
var csvHeader = []string{
	"ticket_number",
	"status",
	"direction",
	"vehicle_plate",
	"driver_name",
	"product_name",
	"partner_name",
	"entry_weight_kg",
	"exit_weight_kg",
	"net_weight_kg",
	"manual",
	"weighed_in_at",
	"weighed_out_at",
}

// WriteCSV renders transactions as CSV with a header row. Weights are
// formatted with one decimal, matching indicator display resolution.
func WriteCSV(w io.Writer, transactions []domain.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, t := range transactions {
		record := []string{
			t.TicketNumber,
			t.Status.String(),
			t.Direction.String(),
			t.VehiclePlate,
			t.DriverName,
			t.ProductName,
			t.PartnerName,
			formatWeight(t.EntryWeightKg),
			formatWeightPtr(t.ExitWeightKg),
			formatWeightPtr(t.NetWeightKg),
			strconv.FormatBool(t.Manual),
			t.WeighedInAt.Format("2006-01-02 15:04:05"),
			formatTimePtr(t.WeighedOutAt),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record %s: %w", t.TicketNumber, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', 1, 64)
}

func formatWeightPtr(w *float64) string {
	if w == nil {
		return ""
	}
	return formatWeight(*w)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
