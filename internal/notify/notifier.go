// Package notify is the fire-and-forget alert collaborator. A failed
// notification is logged and dropped; it never fails the calling operation.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
)

// Notifier dispatches payment alerts to shop staff.
type Notifier interface {
	NotifyOverdue(ctx context.Context, recipient string, payment *domain.OverduePaymentView)
	NotifyUpcoming(ctx context.Context, recipient string, payment *domain.UpcomingPaymentView)
}

// LogNotifier writes alerts to the log. Used when no SMTP is configured.
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyOverdue(_ context.Context, recipient string, payment *domain.OverduePaymentView) {
	n.log.WithFields(logrus.Fields{
		"recipient":    recipient,
		"loan_id":      payment.LoanID,
		"client":       payment.ClientName,
		"amount":       payment.Amount,
		"days_overdue": payment.DaysOverdue,
	}).Info("overdue payment alert")
}

func (n *LogNotifier) NotifyUpcoming(_ context.Context, recipient string, payment *domain.UpcomingPaymentView) {
	n.log.WithFields(logrus.Fields{
		"recipient":      recipient,
		"loan_id":        payment.LoanID,
		"client":         payment.ClientName,
		"amount":         payment.Amount,
		"days_until_due": payment.DaysUntilDue,
	}).Info("upcoming payment reminder")
}
