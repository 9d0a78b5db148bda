package commandreader

import (
	"context"
	"encoding/json"

	commandv1 "github.com/loopspell2/exchange/internal/domain/command/v1"
	"github.com/loopspell2/exchange/pkg/config"
	"github.com/loopspell2/exchange/pkg/errors"
	"github.com/loopspell2/exchange/pkg/logger"
	"github.com/loopspell2/exchange/pkg/redis"
)

// Reader dequeues command envelopes from the Redis ingress list. It blocks up
// to the configured pop timeout and reports an empty poll as (nil, nil), so
// the engine loop regains control between commands.
type Reader struct {
	redis  redis.Client
	config config.IngressConfig
	logger logger.Interface
}

// NewReader creates a reader for the configured ingress queue. It returns an
// implementation of the Reader interface.
func NewReader(cfg config.IngressConfig, client redis.Client, log logger.Interface) *Reader {
	return &Reader{
		redis:  client,
		config: cfg,
		logger: log,
	}
}

// Read pops the oldest envelope from the ingress list. A payload that cannot
// be decoded carries no reply address, so it is logged and reported as a
// malformed-command error instead of being processed.
func (r *Reader) Read(ctx context.Context) (*commandv1.Envelope, error) {
	values, err := r.redis.BRPop(ctx, r.config.PopTimeout, r.config.Queue)
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		// timed out with nothing queued
		return nil, nil
	}

	// BRPOP returns [key, value]
	payload := values[1]

	var envelope commandv1.Envelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		r.logger.InfoContext(ctx, "dropping malformed command",
			logger.Field{Key: "payload", Value: payload},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return nil, errors.NewErrorDetails(
			"command envelope is not valid JSON",
			string(errors.MalformedCommand),
			"payload",
		)
	}
	if envelope.ClientID == "" || envelope.Message.Type == "" {
		r.logger.InfoContext(ctx, "dropping incomplete command",
			logger.Field{Key: "payload", Value: payload},
		)
		return nil, errors.NewErrorDetails(
			"command envelope is missing clientId or message type",
			string(errors.MalformedCommand),
			"payload",
		)
	}

	return &envelope, nil
}
