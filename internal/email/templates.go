package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type commissionAccruedEmailData struct {
	baseEmailData
	RequestTitle string
	PlatformFee  string
	Earnings     string
}

type commissionReminderEmailData struct {
	baseEmailData
	PendingCount int
	TotalFees    string
}

type settlementReceiptEmailData struct {
	baseEmailData
	SettledCount int
	TotalFees    string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// formatCurrencyCLP renders an amount in Chilean pesos, which carry no
// decimal subunits.
func formatCurrencyCLP(amount int64) string {
	return fmt.Sprintf("$%d CLP", amount)
}
