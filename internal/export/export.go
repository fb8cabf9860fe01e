// Package export renders a record set into delimited tabular text.
// The serializer is pure and independent of any download mechanism;
// the caller decides what to do with a header-only result.
package export

import (
	"strconv"
	"strings"

	"github.com/Mih-kelo/sales-journal/internal/domain"
	"github.com/Mih-kelo/sales-journal/internal/metrics"
)

var columns = []string{
	"date", "customerType", "itemName", "quantity", "unitPrice",
	"costPerUnit", "discount", "paymentMethod", "notes",
	"lineRevenue", "lineProfit",
}

// ToDelimitedText serializes records in a fixed column order. The
// free-text fields (itemName, notes) are always quoted, with internal
// quotes doubled. An unknown cost serializes as an empty cell. The
// header row is emitted even for an empty record set.
func ToDelimitedText(records []domain.SaleRecord) string {
	var b strings.Builder
	b.WriteString(strings.Join(columns, ","))
	b.WriteByte('\n')

	for _, r := range records {
		cost := ""
		if r.CostPerUnit != nil {
			cost = formatNumber(r.CostPerUnit.Float())
		}

		row := []string{
			r.Date,
			r.CustomerType,
			quote(r.ItemName),
			formatNumber(r.Quantity.Float()),
			formatNumber(r.UnitPrice.Float()),
			cost,
			formatNumber(r.Discount.Float()),
			r.PaymentMethod,
			quote(r.Notes),
			formatNumber(metrics.LineRevenue(r)),
			formatNumber(metrics.LineProfit(r)),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}

	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
