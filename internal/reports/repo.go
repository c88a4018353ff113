package reports

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("report not found")

// Repo abstracts report summary persistence.
type Repo interface {
	Create(ctx context.Context, report Report) error
	GetByID(ctx context.Context, reportID string) (Report, error)
	ListRecent(ctx context.Context, limit int) ([]Report, error)
}
