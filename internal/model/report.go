package model

// MISRow is one test event in the consolidated MIS feed.
type MISRow struct {
	PatientID    string `json:"patient_id"`
	PatientName  string `json:"patient_name"`
	Age          int    `json:"age"`
	Referrer     string `json:"referrer"`
	TestNames    string `json:"test_names"`
	RegisteredAt string `json:"registered_at"`
	DispatchedAt string `json:"dispatched_at"`
}

// TATRow is a derived MIS row with the turnaround column resolved.
type TATRow struct {
	MISRow
	Tests []string `json:"tests"`
	TAT   string   `json:"tat"`
}

// PatientGroup is a composite-key group of report rows, rendered as one
// parent row with a nested test list.
type PatientGroup struct {
	PatientID   string   `json:"patient_id"`
	PatientName string   `json:"patient_name"`
	Age         int      `json:"age"`
	Tests       []string `json:"tests"`
	Rows        []TATRow `json:"rows"`
}

// SalesVisitLog is one field-visit entry by a salesperson.
type SalesVisitLog struct {
	Salesperson string `json:"salesperson"`
	ClientName  string `json:"client_name"`
	Purpose     string `json:"purpose"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Outcome     string `json:"outcome"`
}

// SalesVisitGroup aggregates visit logs per salesperson for the dashboards.
type SalesVisitGroup struct {
	Salesperson string          `json:"salesperson"`
	VisitCount  int             `json:"visit_count"`
	Visits      []SalesVisitLog `json:"visits"`
}

// LogisticsEntry is one pickup-run row of the logistics dashboard feed.
type LogisticsEntry struct {
	Runner      string `json:"runner"`
	Route       string `json:"route"`
	Pickups     int    `json:"pickups"`
	Date        string `json:"date"`
	CompletedAt string `json:"completed_at"`
	StartedAt   string `json:"started_at"`
}

// LogisticsGroup aggregates pickup runs per runner.
type LogisticsGroup struct {
	Runner       string           `json:"runner"`
	TotalPickups int              `json:"total_pickups"`
	Entries      []LogisticsEntry `json:"entries"`
}

// SalesMapping links a referrer to the salesperson who owns the account.
type SalesMapping struct {
	ReferrerCode string `json:"referrerCode"`
	Salesperson  string `json:"salesperson"`
	Region       string `json:"region"`
}
