package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"taxpoint/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns defines the CSV header row.
var Columns = []string{
	"Order ID",
	"Timestamp",
	"Latitude",
	"Longitude",
	"Subtotal",
	"Composite Rate",
	"Tax Amount",
	"Total Amount",
	"State",
	"County",
	"City",
	"Special Jurisdiction",
	"State Rate",
	"County Rate",
	"City Rate",
	"Special Rate",
	"Resolution Status",
	"Created At",
}

// Writer wraps csv.Writer for exporting orders as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteOrders converts a batch of orders to CSV rows and writes them.
func (w *Writer) WriteOrders(orders []domain.Order) error {
	for i := range orders {
		if err := w.csv.Write(OrderToRow(&orders[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// OrderToRow converts a single order to a string slice matching Columns.
func OrderToRow(order *domain.Order) []string {
	row := make([]string, len(Columns))
	row[0] = order.ID.String()
	row[1] = order.Timestamp.Format(time.RFC3339)
	row[2] = strconv.FormatFloat(order.Latitude, 'f', 6, 64)
	row[3] = strconv.FormatFloat(order.Longitude, 'f', 6, 64)
	row[4] = formatMoney(order.Subtotal)
	row[5] = formatRate(order.CompositeRate)
	row[6] = formatMoneyPtr(order.TaxAmount)
	row[7] = formatMoney(order.TotalAmount())
	row[8] = formatString(order.State)
	row[9] = formatString(order.County)
	row[10] = formatString(order.City)
	row[11] = formatString(order.SpecialJurisdiction)
	row[12] = formatRate(order.StateRate)
	row[13] = formatRate(order.CountyRate)
	row[14] = formatRate(order.CityRate)
	row[15] = formatRate(order.SpecialRate)
	row[16] = string(order.ResolutionStatus)
	row[17] = order.CreatedAt.Format(time.RFC3339)
	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatMoneyPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatMoney(*v)
}

func formatRate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 5, 64)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// BuildFilename returns a filename for the Content-Disposition header.
// Format: orders_{YYYY-MM-DD}.{ext}
func BuildFilename(ext string) string {
	return fmt.Sprintf("orders_%s.%s", time.Now().Format("2006-01-02"), ext)
}
