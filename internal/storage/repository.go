package storage

import "context"

// Journal records what happened during one session. It is never read back
// into the measurement log.
type Journal interface {
	RecordMeasurement(ctx context.Context, in Entry) (int64, error)
	RecordRejection(ctx context.Context, in Rejection) (int64, error)
	ListRejections(ctx context.Context, filter RejectionListFilter) ([]Rejection, error)
	Summary(ctx context.Context) (Summary, error)
	Close() error
}
