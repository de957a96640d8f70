package model

// RefundState is one step of the linear refund workflow.
type RefundState string

const (
	RefundIdle          RefundState = "idle"
	RefundSearched      RefundState = "searched"
	RefundTestsSelected RefundState = "tests_selected"
	RefundOtpSent       RefundState = "otp_sent"
	RefundRefunded      RefundState = "refunded"
)

// Authorizer is a person allowed to approve refunds. The list is
// configuration, injected at construction.
type Authorizer struct {
	Name  string `json:"name" mapstructure:"name"`
	Email string `json:"email" mapstructure:"email"`
}

// RefundSummary is the structured summary dispatched with the OTP request.
type RefundSummary struct {
	PatientID   string   `json:"patient_id"`
	PatientName string   `json:"patient_name"`
	Date        string   `json:"date"`
	TestNames   []string `json:"test_names"`
	Amount      string   `json:"amount"`
	Reason      string   `json:"reason"`
}
