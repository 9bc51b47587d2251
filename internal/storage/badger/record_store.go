package badger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/fund-recommender/internal/common"
	"github.com/bobmcallan/fund-recommender/internal/models"
)

// SubmissionRecord is the stored form of a submission.
type SubmissionRecord struct {
	Seq         uint64 `badgerhold:"key"`
	ClientName  string
	RiskProfile string
	Funds       string // joined with models.FundSeparator, as in the spreadsheet column
	RecordedAt  time.Time
}

// RecordStore implements interfaces.RecordStore using BadgerDB.
// Each Append is a single insert transaction, so concurrent appends never lose rows.
// Sequence numbers are allocated under mu; Badger's directory lock keeps other
// processes out of the same database.
type RecordStore struct {
	mu      sync.Mutex
	db      *BadgerDB
	logger  *common.Logger
	now     func() time.Time
	next    uint64
	counted bool
}

// NewRecordStore creates a submission store backed by BadgerDB.
func NewRecordStore(db *BadgerDB, logger *common.Logger) *RecordStore {
	return &RecordStore{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Append implements interfaces.RecordStore.
func (s *RecordStore) Append(_ context.Context, sub models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.counted {
		n, err := s.db.Store().Count(&SubmissionRecord{}, nil)
		if err != nil {
			return fmt.Errorf("failed to count submissions: %w", err)
		}
		s.next = n
		s.counted = true
	}

	rec := &SubmissionRecord{
		Seq:         s.next,
		ClientName:  sub.ClientName,
		RiskProfile: string(sub.RiskProfile),
		Funds:       sub.FundsJoined(),
		RecordedAt:  s.now().UTC(),
	}
	if err := s.db.Store().Insert(rec.Seq, rec); err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	s.next++

	s.logger.Debug().
		Int64("seq", int64(rec.Seq)).
		Str("risk_profile", rec.RiskProfile).
		Msg("submission appended")

	return nil
}

// Records implements interfaces.RecordStore.
func (s *RecordStore) Records(_ context.Context) ([]models.Submission, error) {
	var recs []SubmissionRecord
	if err := s.db.Store().Find(&recs, nil); err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].Seq < recs[j].Seq })

	out := make([]models.Submission, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toSubmission())
	}
	return out, nil
}

// Close implements interfaces.RecordStore.
func (s *RecordStore) Close() error {
	return s.db.Close()
}

func (r SubmissionRecord) toSubmission() models.Submission {
	var funds models.FundList
	if r.Funds != "" {
		funds = strings.Split(r.Funds, models.FundSeparator)
	}
	return models.Submission{
		ClientName:  r.ClientName,
		RiskProfile: models.RiskProfile(r.RiskProfile),
		Funds:       funds,
	}
}
