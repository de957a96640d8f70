package model

// WizardStage is one tab of the B2B intake wizard.
type WizardStage string

const (
	StageGeneral       WizardStage = "general"
	StageCommunication WizardStage = "communication"
	StageFinance       WizardStage = "finance"
)

// IntakeRecord is the flat record the wizard accumulates across its stages.
// The tabs are views over slices of this one struct, not separate records.
type IntakeRecord struct {
	// General
	Name    string `json:"name"`
	Type    string `json:"type"`
	Segment string `json:"segment"`

	// Communication
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	City          string `json:"city"`

	// Finance
	BillingType    string `json:"billing_type"`
	CreditTermDays int    `json:"credit_term_days"`
	AttachmentName string `json:"attachment_name,omitempty"`
	Attachment     []byte `json:"-"`
}

// ClinicalName is one entry of the referrer lookup list.
type ClinicalName struct {
	ClinicalName string `json:"clinicalname"`
	ReferrerCode string `json:"referrerCode"`
	SalesMapping string `json:"salesMapping"`
	Location     string `json:"location,omitempty"`
}

// ReferrerSelection is what a validated typeahead selection emits to its
// caller: the matched record's routing and grouping codes.
type ReferrerSelection struct {
	ReferrerCode string `json:"referrer_code"`
	SalesMapping string `json:"sales_mapping"`
	Location     string `json:"location,omitempty"`
}
