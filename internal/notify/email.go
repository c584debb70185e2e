package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/nasiyabro/nasiya-backend/internal/config"
	"github.com/nasiyabro/nasiya-backend/internal/domain"
)

// EmailNotifier sends alerts over SMTP. Send failures are logged and
// swallowed; notification delivery is best effort.
type EmailNotifier struct {
	cfg config.SMTPConfig
	log *logrus.Logger
}

func NewEmailNotifier(cfg config.SMTPConfig, log *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, log: log}
}

func (n *EmailNotifier) NotifyOverdue(_ context.Context, recipient string, payment *domain.OverduePaymentView) {
	subject := "Overdue installment payment"
	body := fmt.Sprintf(
		"Installment payment of %s for %s (%s) was due on %s and is %d days overdue.\n"+
			"Remaining balance: %s\n",
		payment.Amount, payment.ClientName, payment.ProductName,
		payment.DueDate.Format("2006-01-02"), payment.DaysOverdue,
		payment.RemainingBalance,
	)
	n.send(recipient, subject, body)
}

func (n *EmailNotifier) NotifyUpcoming(_ context.Context, recipient string, payment *domain.UpcomingPaymentView) {
	subject := "Upcoming installment payment"
	body := fmt.Sprintf(
		"Installment payment of %s for %s (%s) is due on %s (%d days from now).\n"+
			"Remaining balance: %s\n",
		payment.Amount, payment.ClientName, payment.ProductName,
		payment.DueDate.Format("2006-01-02"), payment.DaysUntilDue,
		payment.RemainingBalance,
	)
	n.send(recipient, subject, body)
}

func (n *EmailNotifier) send(recipient, subject, body string) {
	e := email.NewEmail()
	e.From = n.cfg.From
	e.To = []string{recipient}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	}

	if err := e.Send(addr, auth); err != nil {
		n.log.WithError(err).WithField("recipient", recipient).Error("failed to send notification email")
		return
	}

	n.log.WithField("recipient", recipient).Infof("email sent: %s", subject)
}
