package mail

import (
	"context"
	"fmt"
	"strings"
)

// Message is a single outbound email job as it travels through the queue.
type Message struct {
	ID   string   `json:"id"`
	To   []string `json:"to"`
	Body string   `json:"body"`
}

// Mailer hands a message body off for delivery to one or more addresses.
// Implementations are fire-and-forget from the caller's point of view:
// delivery failures never reach the request that triggered the send.
type Mailer interface {
	Send(ctx context.Context, to []string, body string) error
}

// ValidateAddresses rejects addresses containing CR or LF before any
// message is composed, closing the header-injection hole.
func ValidateAddresses(to []string) error {
	for _, addr := range to {
		if strings.ContainsAny(addr, "\r\n") {
			return fmt.Errorf("email address %q contains forbidden control characters", addr)
		}
	}
	return nil
}
