package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/anticafe/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("notify user %d about %s (booking %d, session %d)\n", event.UserID, event.Type, event.BookingID, event.SessionID)
	return nil
}
