package repository

import "context"

// Notifier sends a text message to a phone number. Sending is strictly
// best-effort: transport or configuration failures are swallowed and reported
// as a false return, never as an error.
type Notifier interface {
	Send(ctx context.Context, phone, body string) bool
}
