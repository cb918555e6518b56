package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// AuditLogger consumes auth events and writes them to the log.
type AuditLogger struct {
	subscriber message.Subscriber
	logger     logging.Logger
}

func NewAuditLogger(subscriber message.Subscriber, logger logging.Logger) *AuditLogger {
	return &AuditLogger{subscriber: subscriber, logger: logger.With("component", "audit")}
}

// Run blocks until ctx is cancelled or a subscription channel closes.
func (a *AuditLogger) Run(ctx context.Context) error {
	logouts, err := a.subscriber.Subscribe(ctx, TopicLogout)
	if err != nil {
		return err
	}
	rejected, err := a.subscriber.Subscribe(ctx, TopicRefreshRejected)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-logouts:
			if !ok {
				return nil
			}
			var e LogoutEvent
			if err := json.Unmarshal(msg.Payload, &e); err != nil {
				a.logger.Error(ctx, "malformed logout event", "message_id", msg.UUID, "error", err)
			} else {
				a.logger.Info(ctx, "user logged out", "user_id", e.UserID, "scope", e.Scope, "revoked", e.Revoked)
			}
			msg.Ack()
		case msg, ok := <-rejected:
			if !ok {
				return nil
			}
			var e RefreshRejectedEvent
			if err := json.Unmarshal(msg.Payload, &e); err != nil {
				a.logger.Error(ctx, "malformed refresh event", "message_id", msg.UUID, "error", err)
			} else {
				a.logger.Warn(ctx, "refresh token rejected", "user_id", e.UserID, "reason", e.Reason)
			}
			msg.Ack()
		}
	}
}
