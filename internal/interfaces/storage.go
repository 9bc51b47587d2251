package interfaces

import (
	"context"

	"github.com/bobmcallan/fund-recommender/internal/models"
)

// RecordStore persists one row per processed submission.
// Implementations can be swapped (spreadsheet file now, embedded DB as an option).
type RecordStore interface {
	// Append adds sub after all existing rows. Prior rows are never modified.
	Append(ctx context.Context, sub models.Submission) error
	// Records returns every stored submission in append order.
	Records(ctx context.Context) ([]models.Submission, error)
	Close() error
}
