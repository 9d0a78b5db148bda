package commandreaderv1

import (
	"context"

	commandv1 "github.com/loopspell2/exchange/internal/domain/command/v1"
)

// Reader defines the interface for dequeuing command envelopes from the
// ingress queue. Read blocks up to the configured timeout and returns
// (nil, nil) when no command arrived, so callers can interleave periodic
// work between commands.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=commandreaderv1_mock
type Reader interface {
	Read(ctx context.Context) (*commandv1.Envelope, error)
}
