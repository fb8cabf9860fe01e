// Package metrics computes per-record and aggregate financial values.
// All functions are pure; malformed numeric data has already been
// coerced to 0 by domain.Number, so every total is always computable.
package metrics

import "github.com/Mih-kelo/sales-journal/internal/domain"

// LineRevenue is quantity*unitPrice - discount. A missing discount
// decodes to 0 upstream.
func LineRevenue(r domain.SaleRecord) float64 {
	return r.Quantity.Float()*r.UnitPrice.Float() - r.Discount.Float()
}

// LineProfit is quantity*(unitPrice-costPerUnit) - discount. An
// unknown cost is treated as zero cost, so profit equals revenue when
// CostPerUnit is absent. That is the documented business rule, not a
// fallback.
func LineProfit(r domain.SaleRecord) float64 {
	if r.CostPerUnit == nil {
		return LineRevenue(r)
	}
	return r.Quantity.Float()*(r.UnitPrice.Float()-r.CostPerUnit.Float()) - r.Discount.Float()
}

// Summarize reduces a record set into totals. Customer counts use
// exactly two buckets: validation only admits new/returning, and any
// other value found in old data lands in the returning bucket.
func Summarize(records []domain.SaleRecord) domain.Summary {
	var s domain.Summary
	for _, r := range records {
		s.TotalRevenue += LineRevenue(r)
		s.TotalProfit += LineProfit(r)
		if r.CustomerType == domain.CustomerNew {
			s.NewCustomerCount++
		} else {
			s.ReturningCustomerCount++
		}
	}
	return s
}

// SummarizeToday narrows to records whose date equals the supplied
// current date before summarizing. This is a fixed equality on the
// date field, independent of the filter engine.
func SummarizeToday(records []domain.SaleRecord, today string) domain.Summary {
	todays := make([]domain.SaleRecord, 0, len(records))
	for _, r := range records {
		if r.Date == today {
			todays = append(todays, r)
		}
	}
	return Summarize(todays)
}
