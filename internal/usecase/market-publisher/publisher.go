package marketpublisher

import (
	"context"
	"encoding/json"

	commandv1 "github.com/loopspell2/exchange/internal/domain/command/v1"
	"github.com/loopspell2/exchange/pkg/config"
	"github.com/loopspell2/exchange/pkg/logger"
	"github.com/loopspell2/exchange/pkg/redis"
)

// Publisher delivers the engine's outward messages over Redis: command
// replies onto per-client lists and market data onto pubsub channels.
// Everything is fire and forget; a channel with no subscribers is fine.
type Publisher struct {
	redis  redis.Client
	config config.IngressConfig
	logger logger.Interface
}

// NewPublisher creates a publisher over the given Redis client. It returns an
// implementation of the MarketPublisher interface.
func NewPublisher(cfg config.IngressConfig, client redis.Client, log logger.Interface) *Publisher {
	return &Publisher{
		redis:  client,
		config: cfg,
		logger: log,
	}
}

// SendToAPI pushes the reply onto the client's reply list. The API process
// that submitted the command is blocked popping that list.
func (p *Publisher) SendToAPI(ctx context.Context, clientID string, reply commandv1.Reply) error {
	payload, err := json.Marshal(reply)
	if err != nil {
		return err
	}

	if _, err := p.redis.LPush(ctx, p.config.ReplyPrefix+clientID, payload); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "clientID", Value: clientID},
			logger.Field{Key: "replyType", Value: string(reply.Type)},
		)
		return err
	}
	return nil
}

// PublishDepth publishes a depth delta onto its market's depth channel.
func (p *Publisher) PublishDepth(ctx context.Context, msg commandv1.StreamMessage) error {
	return p.publish(ctx, msg)
}

// PublishTrade publishes an executed trade onto its market's trade channel.
func (p *Publisher) PublishTrade(ctx context.Context, msg commandv1.StreamMessage) error {
	return p.publish(ctx, msg)
}

func (p *Publisher) publish(ctx context.Context, msg commandv1.StreamMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if _, err := p.redis.Publish(ctx, msg.Stream, payload); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "stream", Value: msg.Stream},
		)
		return err
	}
	return nil
}
