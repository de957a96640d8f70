package export

import (
	"bytes"
	"fmt"
	"html/template"
)

// ReceiptLine is one billed test on the printed receipt.
type ReceiptLine struct {
	Name      string
	Container string
	Amount    string
}

// ReceiptData feeds the printable billing receipt. The document is
// self-contained HTML handed to whatever print-capable surface the caller
// has; nothing is persisted.
type ReceiptData struct {
	HeaderImage   string
	LabName       string
	LabAddress    string
	PatientName   string
	PatientID     string
	Date          string
	Lines         []ReceiptLine
	Total         string
	TotalInWords  string
	PaymentMethod string
	Employee      string // paid on behalf of
}

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Receipt {{.PatientID}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
th, td { border: 1px solid #444; padding: 6px 8px; text-align: left; }
.total { font-weight: bold; }
.words { margin-top: 8px; font-style: italic; }
</style>
</head>
<body onload="window.print()">
{{if .HeaderImage}}<img src="{{.HeaderImage}}" alt="{{.LabName}}" style="max-width:100%">{{end}}
<h2>{{.LabName}}</h2>
<p>{{.LabAddress}}</p>
<p>Patient: {{.PatientName}} ({{.PatientID}})<br>Date: {{.Date}}</p>
<table>
<tr><th>Test</th><th>Container</th><th>Amount</th></tr>
{{range .Lines}}<tr><td>{{.Name}}</td><td>{{.Container}}</td><td>{{.Amount}}</td></tr>
{{end}}<tr class="total"><td colspan="2">Total</td><td>{{.Total}}</td></tr>
</table>
<p class="words">{{.TotalInWords}}</p>
<p>Payment: {{.PaymentMethod}}{{if .Employee}}<br>Paid on behalf of: {{.Employee}}{{end}}</p>
</body>
</html>
`))

// Receipt renders the printable receipt document.
func Receipt(data *ReceiptData) ([]byte, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
