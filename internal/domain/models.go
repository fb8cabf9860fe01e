package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const (
	CustomerNew       = "new"
	CustomerReturning = "returning"
)

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentQRIS     = "qris"
)

// FilterAll is the criteria sentinel that matches every value of an
// enum field.
const FilterAll = "all"

// Number is a lenient float64. JSON null, numeric strings, and
// outright garbage all decode to 0 instead of failing: financial
// totals must stay computable over partially malformed or legacy
// blobs, so the journal can always render. This is a deliberate
// policy shared by the metric calculator and the legacy migrator,
// not defensive sloppiness.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			*n = 0
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(parsed)
	return nil
}

func (n Number) Float() float64 { return float64(n) }

// SaleRecord is one transaction entry, the persisted entity.
// CostPerUnit is nil when the cost is unknown.
type SaleRecord struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	CustomerType  string  `json:"customerType"`
	ItemName      string  `json:"itemName"`
	Quantity      Number  `json:"quantity"`
	UnitPrice     Number  `json:"unitPrice"`
	CostPerUnit   *Number `json:"costPerUnit,omitempty"`
	Discount      Number  `json:"discount"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         string  `json:"notes,omitempty"`
}

// SaleInput carries field values from the UI layer for create and
// full-replacement update. It never carries an id; the journal owns
// id assignment.
type SaleInput struct {
	Date          string  `json:"date"`
	CustomerType  string  `json:"customerType"`
	ItemName      string  `json:"itemName"`
	Quantity      Number  `json:"quantity"`
	UnitPrice     Number  `json:"unitPrice"`
	CostPerUnit   *Number `json:"costPerUnit,omitempty"`
	Discount      Number  `json:"discount"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         string  `json:"notes,omitempty"`
}

// Record builds the stored record for the given id, trimming the
// free-text fields.
func (in SaleInput) Record(id string) SaleRecord {
	return SaleRecord{
		ID:            id,
		Date:          strings.TrimSpace(in.Date),
		CustomerType:  in.CustomerType,
		ItemName:      strings.TrimSpace(in.ItemName),
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		CostPerUnit:   in.CostPerUnit,
		Discount:      in.Discount,
		PaymentMethod: in.PaymentMethod,
		Notes:         strings.TrimSpace(in.Notes),
	}
}

// LegacyRecord is the deprecated pre-migration schema. Result is one
// of "", "newcustomers", "returningcustomers" (JSON null decodes to
// the empty string). PnL arrives as number-or-text in old blobs, so
// it is decoded leniently. Never persisted after migration.
type LegacyRecord struct {
	LaunchDate string `json:"launchDate"`
	Result     string `json:"result"`
	PnL        Number `json:"pnl"`
}

// FilterCriteria narrows a record set for display or export.
// Constructed per query, never persisted. Empty enum fields behave
// like FilterAll.
type FilterCriteria struct {
	DateFrom      string `json:"dateFrom,omitempty"`
	DateTo        string `json:"dateTo,omitempty"`
	CustomerType  string `json:"customerType,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	SearchText    string `json:"searchText,omitempty"`
}

// Summary is the aggregate over a record set. Derived on demand,
// never persisted.
type Summary struct {
	TotalRevenue           float64 `json:"totalRevenue"`
	TotalProfit            float64 `json:"totalProfit"`
	NewCustomerCount       int     `json:"newCustomerCount"`
	ReturningCustomerCount int     `json:"returningCustomerCount"`
}
