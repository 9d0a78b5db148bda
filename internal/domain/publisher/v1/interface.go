package publisherv1

import (
	"context"

	commandv1 "github.com/loopspell2/exchange/internal/domain/command/v1"
)

// MarketPublisher defines the interface for the engine's outward-facing
// messaging: command replies back to the API layer and market data fan-out.
// Publishing is fire and forget; implementations must not fail when nobody
// is subscribed.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=publisherv1_mock
type MarketPublisher interface {
	SendToAPI(ctx context.Context, clientID string, reply commandv1.Reply) error
	PublishDepth(ctx context.Context, msg commandv1.StreamMessage) error
	PublishTrade(ctx context.Context, msg commandv1.StreamMessage) error
}

// DbPublisher defines the interface for the persistence queue feeding the
// external database processor.
type DbPublisher interface {
	Publish(ctx context.Context, msg commandv1.DbMessage) error
	Close() error
}
