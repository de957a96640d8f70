package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Segment is the billing category that decides which price tier applies.
type Segment string

const (
	SegmentB2B            Segment = "B2B"
	SegmentWalkIn         Segment = "Walk-in"
	SegmentHomeCollection Segment = "Home Collection"
)

// Payment methods the billing workspace accepts.
const (
	PaymentCash    = "Cash"
	PaymentCard    = "Card"
	PaymentUPI     = "UPI"
	PaymentCredit  = "Credit"
	PaymentPartial = "Partial Payment"
)

// TestLineItem is one ordered test on a patient's bill.
type TestLineItem struct {
	Name      string          `json:"name"`
	Container string          `json:"container"`
	Amount    decimal.Decimal `json:"amount"`
	Refund    bool            `json:"refund"`
	Cancelled bool            `json:"cancelled"`
}

// TestList decodes the lab API's test arrays, which arrive either as a native
// JSON list or as a JSON-encoded string containing one. Anything else decodes
// to an empty list; decoding never fails.
type TestList []TestLineItem

func (tl *TestList) UnmarshalJSON(data []byte) error {
	var items []TestLineItem
	if err := json.Unmarshal(data, &items); err == nil {
		*tl = items
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &items); err == nil {
			*tl = items
			return nil
		}
	}

	*tl = nil
	return nil
}

// PartialPayment is the immediate portion of a split payment.
type PartialPayment struct {
	Method    string          `json:"method"`
	PaidNow   decimal.Decimal `json:"paid_now"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Patient mirrors a lab API patient record for a billing session. The client
// never owns it beyond the session; every change lands via one PATCH.
type Patient struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Age           int             `json:"age"`
	Gender        string          `json:"gender"`
	Phone         string          `json:"phone"`
	Segment       Segment         `json:"segment"`
	Date          string          `json:"date"`
	Tests         TestList        `json:"tests"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
	Partial       *PartialPayment `json:"partial_payment,omitempty"`
	Employee      string          `json:"employee,omitempty"`
}

// BillingUpdate is the single PATCH payload that persists a billing session.
type BillingUpdate struct {
	Tests         TestList        `json:"tests"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
	Partial       *PartialPayment `json:"partial_payment,omitempty"`
}

// CreditUpdate patches a patient's credit amount and optional per-test split.
type CreditUpdate struct {
	CreditAmount decimal.Decimal            `json:"credit_amount"`
	TestCredits  map[string]decimal.Decimal `json:"test_credits,omitempty"`
}
