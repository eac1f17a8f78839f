package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"hotel-booking/internal/config"
	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
)

// Sender is satisfied by *mail.Client.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer emails guests when their booking is confirmed.
type Mailer struct {
	sender   Sender
	from     string
	fromName string
	log      *logger.Logger
}

func NewMailer(cfg config.SMTPConfig, log *logger.Logger) (*Mailer, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not initialize smtp client: %w", err)
	}
	log.Info("MAIL", fmt.Sprintf("SMTP client ready for %s:%d", cfg.Host, cfg.Port))
	return NewMailerWithSender(c, cfg.From, cfg.FromName, log), nil
}

func NewMailerWithSender(sender Sender, from, fromName string, log *logger.Logger) *Mailer {
	return &Mailer{sender: sender, from: from, fromName: fromName, log: log}
}

func (m *Mailer) BookingConfirmed(ctx context.Context, booking *models.Booking, user *models.User) error {
	msg, err := m.confirmationMessage(booking, user)
	if err != nil {
		return err
	}
	if err := m.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	m.log.Info("MAIL", fmt.Sprintf("Confirmation for %s sent to %s", booking.Reference, user.Email))
	return nil
}

func (m *Mailer) confirmationMessage(booking *models.Booking, user *models.User) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(user.Email); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", user.Email, err)
	}
	msg.Subject("Booking confirmed: " + booking.Reference)
	msg.SetBodyString(mail.TypeTextPlain, confirmationBody(booking, user))
	return msg, nil
}

func confirmationBody(booking *models.Booking, user *models.User) string {
	var b strings.Builder
	name := user.Name
	if name == "" {
		name = "guest"
	}
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "Your payment was received and booking %s is confirmed.\n\n", booking.Reference)
	if room := booking.Room; room != nil {
		if room.Hotel != nil {
			fmt.Fprintf(&b, "Hotel:     %s\n", room.Hotel.Name)
		}
		fmt.Fprintf(&b, "Room:      %s\n", room.Name)
	}
	fmt.Fprintf(&b, "Check-in:  %s\n", booking.CheckIn.Format("Mon, 02 Jan 2006"))
	fmt.Fprintf(&b, "Check-out: %s\n", booking.CheckOut.Format("Mon, 02 Jan 2006"))
	fmt.Fprintf(&b, "Guests:    %d\n", booking.Guests)
	fmt.Fprintf(&b, "Total:     %.2f\n\n", booking.TotalPrice)
	b.WriteString("We look forward to your stay.\n")
	return b.String()
}
