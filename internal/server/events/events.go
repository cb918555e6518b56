// Package events publishes security-relevant auth events (logouts, rejected
// refresh attempts) through watermill and logs them in an audit consumer.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	TopicLogout          = "gophauth.logout"
	TopicRefreshRejected = "gophauth.refresh_rejected"
)

// Logout scopes.
const (
	ScopeSingle = "single"
	ScopeAll    = "all"
)

// Refresh rejection reasons. ReasonUnknown covers never-issued, consumed and
// revoked tokens alike.
const (
	ReasonUnknown       = "unknown"
	ReasonExpired       = "expired"
	ReasonOwnerMismatch = "owner_mismatch"
)

type LogoutEvent struct {
	UserID  string    `json:"user_id"`
	Scope   string    `json:"scope"`
	Revoked int64     `json:"revoked"`
	At      time.Time `json:"at"`
}

type RefreshRejectedEvent struct {
	UserID string    `json:"user_id,omitempty"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// Publisher is what the token service needs from the event bus.
type Publisher interface {
	PublishLogout(ctx context.Context, e LogoutEvent) error
	PublishRefreshRejected(ctx context.Context, e RefreshRejectedEvent) error
}

// WatermillPublisher implements Publisher on top of any watermill publisher.
type WatermillPublisher struct {
	publisher message.Publisher
}

func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher}
}

func (p *WatermillPublisher) PublishLogout(ctx context.Context, e LogoutEvent) error {
	return p.publish(ctx, TopicLogout, e)
}

func (p *WatermillPublisher) PublishRefreshRejected(ctx context.Context, e RefreshRejectedEvent) error {
	return p.publish(ctx, TopicRefreshRejected, e)
}

func (p *WatermillPublisher) publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishLogout(context.Context, LogoutEvent) error { return nil }

func (NopPublisher) PublishRefreshRejected(context.Context, RefreshRejectedEvent) error { return nil }
