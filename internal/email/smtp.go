package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendCommissionAccrued notifies a professional of a new pending commission.
func (s *SMTPSender) SendCommissionAccrued(ctx context.Context, toEmail, requestTitle string, platformFee, earnings int64) error {
	content, err := renderEmailTemplate("commission_accrued.html", commissionAccruedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Nueva comisión",
			Heading: "Se generó una comisión",
		},
		RequestTitle: requestTitle,
		PlatformFee:  formatCurrencyCLP(platformFee),
		Earnings:     formatCurrencyCLP(earnings),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectCommissionAccruedFmt, requestTitle), content)
}

// SendCommissionReminder nudges a professional with pending commissions.
func (s *SMTPSender) SendCommissionReminder(ctx context.Context, toEmail string, pendingCount int, totalFees int64) error {
	content, err := renderEmailTemplate("commission_reminder.html", commissionReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Comisiones pendientes",
			Heading: "Tienes comisiones pendientes",
		},
		PendingCount: pendingCount,
		TotalFees:    formatCurrencyCLP(totalFees),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectCommissionReminder, content)
}

// SendSettlementReceipt confirms a bulk settlement run.
func (s *SMTPSender) SendSettlementReceipt(ctx context.Context, toEmail string, settledCount int, totalFees int64) error {
	content, err := renderEmailTemplate("settlement_receipt.html", settlementReceiptEmailData{
		baseEmailData: baseEmailData{
			Title:   "Comprobante de pago",
			Heading: "Pago de comisiones recibido",
		},
		SettledCount: settledCount,
		TotalFees:    formatCurrencyCLP(totalFees),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectSettlementReceipt, content)
}
