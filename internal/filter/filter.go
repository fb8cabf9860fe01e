// Package filter evaluates transient query criteria against a record
// set. Apply is pure: no side effects, no mutation of its input.
package filter

import (
	"strings"

	"github.com/Mih-kelo/sales-journal/internal/domain"
)

// Apply keeps the records matching every set criterion (predicates
// are conjunctive). Date bounds compare lexicographically, which is
// correct for the fixed YYYY-MM-DD format. Enum criteria match
// exactly unless empty or the "all" sentinel. Search text matches a
// case-insensitive substring of item name and notes; empty search
// matches everything.
func Apply(records []domain.SaleRecord, criteria domain.FilterCriteria) []domain.SaleRecord {
	search := strings.ToLower(strings.TrimSpace(criteria.SearchText))

	out := make([]domain.SaleRecord, 0, len(records))
	for _, r := range records {
		if criteria.DateFrom != "" && r.Date < criteria.DateFrom {
			continue
		}
		if criteria.DateTo != "" && r.Date > criteria.DateTo {
			continue
		}
		if !enumMatches(criteria.CustomerType, r.CustomerType) {
			continue
		}
		if !enumMatches(criteria.PaymentMethod, r.PaymentMethod) {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(r.ItemName + " " + r.Notes)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func enumMatches(criterion string, value string) bool {
	return criterion == "" || criterion == domain.FilterAll || criterion == value
}
