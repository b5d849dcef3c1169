// Package email delivers the destination reveal to the customer.
package email

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/mysterytrips/config"
	"github.com/Domenick1991/mysterytrips/internal/kafka"
)

type Sender interface {
	SendReveal(ctx context.Context, event kafka.RevealEvent) error
}

type Message struct {
	To      string
	Subject string
	Body    string
}

// ComposeReveal renders the plain-text reveal message.
func ComposeReveal(event kafka.RevealEvent) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Your mystery trip is revealed!\n\n")
	fmt.Fprintf(&b, "You are going to see %s", event.DestinationName)
	if event.Stadium != "" {
		fmt.Fprintf(&b, " at %s", event.Stadium)
	}
	fmt.Fprintf(&b, " in %s, %s.\n", event.City, event.Country)
	if event.League != "" {
		fmt.Fprintf(&b, "League: %s\n", event.League)
	}
	if !event.TravelDate.IsZero() {
		fmt.Fprintf(&b, "Travel date: %s\n", event.TravelDate.Format("Monday 2 January 2006"))
	}
	if event.Travelers > 0 {
		fmt.Fprintf(&b, "Travelers: %d\n", event.Travelers)
	}
	fmt.Fprintf(&b, "\nBooking reference: %d\n", event.BookingID)

	return Message{
		To:      event.Email,
		Subject: fmt.Sprintf("Your mystery destination: %s", event.City),
		Body:    b.String(),
	}
}

// NewSender picks the delivery backend named by cfg.Driver.
func NewSender(ctx context.Context, cfg config.EmailConfig) (Sender, error) {
	switch cfg.Driver {
	case "smtp":
		return NewSMTPSender(cfg)
	case "ses":
		return NewSESSender(ctx, cfg)
	case "log", "":
		return NewLogSender(), nil
	}
	return nil, fmt.Errorf("unknown email driver %q", cfg.Driver)
}

// LogSender only logs the message; used in development.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendReveal(ctx context.Context, event kafka.RevealEvent) error {
	msg := ComposeReveal(event)
	log.Printf("email: to %s: %s", msg.To, msg.Subject)
	return nil
}
