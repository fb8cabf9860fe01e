package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ValidationError maps field names to messages. Records that fail
// validation are never admitted to the journal.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// ValidateInput checks the required-field constraints for a sale.
// Returns nil when the input is admissible.
func ValidateInput(in SaleInput) *ValidationError {
	fields := make(map[string]string)

	date := strings.TrimSpace(in.Date)
	if date == "" {
		fields["date"] = "date is required"
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		fields["date"] = "date must be formatted YYYY-MM-DD"
	}

	switch in.CustomerType {
	case CustomerNew, CustomerReturning:
	default:
		fields["customerType"] = "customer type must be new or returning"
	}

	if strings.TrimSpace(in.ItemName) == "" {
		fields["itemName"] = "item name is required"
	}

	qty := in.Quantity.Float()
	if qty < 1 || qty != math.Trunc(qty) {
		fields["quantity"] = "quantity must be a whole number of at least 1"
	}

	if in.UnitPrice.Float() < 0 {
		fields["unitPrice"] = "unit price must be zero or greater"
	}
	if in.CostPerUnit != nil && in.CostPerUnit.Float() < 0 {
		fields["costPerUnit"] = "cost per unit must be zero or greater"
	}

	switch in.PaymentMethod {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentQRIS:
	default:
		fields["paymentMethod"] = "unknown payment method"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
