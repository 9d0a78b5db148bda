package snapshot

import (
	"context"
	"encoding/json"

	snapshotv1 "github.com/loopspell2/exchange/internal/domain/snapshot/v1"
	"github.com/loopspell2/exchange/pkg/errors"
	"github.com/loopspell2/exchange/pkg/logger"
	"github.com/loopspell2/exchange/pkg/redis"
)

// Store persists the engine's state (all books plus balances) as one JSON
// value in Redis, so a restart resumes from the last snapshot.
type Store struct {
	key         string
	logger      logger.Interface
	redisclient redis.Client
}

// NewStore creates a snapshot store writing to the given Redis key. It
// returns an implementation of the Store interface.
func NewStore(redisclient redis.Client, key string, log logger.Interface) *Store {
	return &Store{
		key:         key,
		redisclient: redisclient,
		logger:      log,
	}
}

// Store serializes the snapshot and writes it to Redis, replacing the
// previous one.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "key",
			Value: s.key,
		})
		return errors.NewTracer("snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.key, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "key",
			Value: s.key,
		})
		return errors.NewTracer("snapshot_store_error").Wrap(err)
	}

	s.logger.InfoContext(ctx, "snapshot stored",
		logger.Field{Key: "key", Value: s.key},
		logger.Field{Key: "books", Value: len(snapshot.Books)},
		logger.Field{Key: "balances", Value: len(snapshot.Balances)},
	)
	return nil
}

// Load reads back the last stored snapshot. A missing key returns (nil, nil):
// the engine starts cold.
func (s *Store) Load(ctx context.Context) (*snapshotv1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, s.key)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "key",
			Value: s.key,
		})
		return nil, errors.NewTracer("snapshot_load_error").Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, "no snapshot found, starting cold", logger.Field{
			Key:   "key",
			Value: s.key,
		})
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "key",
			Value: s.key,
		})
		return nil, errors.NewErrorDetails(
			"stored snapshot cannot be decoded",
			string(errors.SnapshotUnavailable),
			"snapshot",
		)
	}

	return &snapshot, nil
}
