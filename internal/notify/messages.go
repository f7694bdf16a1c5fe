package notify

import (
	"fmt"
	"time"
)

const (
	KindBookingAccepted     = "booking_accepted"
	KindBookingCancelled    = "booking_cancelled"
	KindWithdrawalRequested = "withdrawal_requested"
	KindWithdrawalCompleted = "withdrawal_completed"
	KindWithdrawalFailed    = "withdrawal_failed"
)

func BookingAccepted(bookingID int, to, name string, slot time.Time) Notification {
	body := fmt.Sprintf(`Hi %s,

Your booking is confirmed for %s.

See you at the gym!

- FeaturesGym`, name, slot.Format("Jan 2, 2006 at 3:04 PM"))

	return Notification{
		Key:     fmt.Sprintf("booking:%d:accepted", bookingID),
		Kind:    KindBookingAccepted,
		To:      to,
		Name:    name,
		Subject: "Booking Confirmed",
		Body:    body,
	}
}

func BookingCancelled(bookingID int, to, name string, slot time.Time, reason string) Notification {
	body := fmt.Sprintf(`Hi %s,

Your booking for %s has been cancelled.

Reason: %s

- FeaturesGym`, name, slot.Format("Jan 2, 2006 at 3:04 PM"), reason)

	return Notification{
		Key:     fmt.Sprintf("booking:%d:cancelled", bookingID),
		Kind:    KindBookingCancelled,
		To:      to,
		Name:    name,
		Subject: "Booking Cancelled",
		Body:    body,
	}
}

// WithdrawalUpdate tells a gym owner about a withdrawal status change.
// reason is only printed for failed withdrawals.
func WithdrawalUpdate(withdrawalID int, to, name, status, amount, currency, reason string) Notification {
	kind := KindWithdrawalRequested
	subject := "Withdrawal Requested"
	switch status {
	case "completed":
		kind, subject = KindWithdrawalCompleted, "Withdrawal Completed"
	case "failed":
		kind, subject = KindWithdrawalFailed, "Withdrawal Failed"
	}

	body := fmt.Sprintf(`Hi %s,

Withdrawal #%d of %s %s is now %s.`, name, withdrawalID, amount, currency, status)
	if status == "failed" {
		body += fmt.Sprintf("\nReason: %s\nThe amount is available to withdraw again.", reason)
	}
	body += "\n\n- FeaturesGym"

	return Notification{
		Key:     fmt.Sprintf("withdrawal:%d:%s", withdrawalID, status),
		Kind:    kind,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
	}
}
