// Package notification delivers best-effort transfer notifications.
package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// Sink accepts outbound notification messages.
//
// Delivery is best effort: the transfer outcome is already durable by the
// time Notify runs, so a failed publish is logged by the caller and dropped.
//
//go:generate mockgen -source notification.go -destination notification_mock.go -package notification
type Sink interface {
	Notify(ctx context.Context, message string) error
}

// LogSink writes notifications to the log. It is the fallback sink when no
// broker is configured.
type LogSink struct{}

// Notify logs the message.
func (LogSink) Notify(ctx context.Context, message string) error {
	zerolog.Ctx(ctx).Info().Str("notification", message).Msg("transfer notification")
	return nil
}
