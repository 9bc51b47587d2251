// Package advisor processes fund recommendation submissions.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/fund-recommender/internal/common"
	"github.com/bobmcallan/fund-recommender/internal/interfaces"
	"github.com/bobmcallan/fund-recommender/internal/models"
)

// Form button labels submitted in the "action" field.
const (
	ActionRecommend   = "Get Recommendations"
	ActionDownloadPDF = "Download PDF"
)

// ErrUnknownProfile is returned when the submitted risk profile is not one of the known profiles.
var ErrUnknownProfile = errors.New("unknown risk profile")

// FundLookup resolves a risk profile to its fund list.
type FundLookup interface {
	Lookup(profile models.RiskProfile) (models.FundList, bool)
}

// ReportWriter renders a submission to the fixed report file.
type ReportWriter interface {
	WriteFile(sub models.Submission) ([]byte, error)
	FileName() string
	Release() error
}

// Request is one form post.
type Request struct {
	ClientName  string
	RiskProfile string
	Action      string
}

// WantsReport reports whether the request asked for the PDF download.
func (r Request) WantsReport() bool {
	return r.Action == ActionDownloadPDF
}

// Result is the outcome of a successful submission.
type Result struct {
	Submission models.Submission
	Report     []byte // nil unless the PDF was requested
	ReportName string
}

// Service validates submissions, records them and renders reports.
type Service struct {
	funds   FundLookup
	store   interfaces.RecordStore
	reports ReportWriter
	logger  *common.Logger
}

// NewService creates the submission service.
func NewService(funds FundLookup, store interfaces.RecordStore, reports ReportWriter, logger *common.Logger) *Service {
	return &Service{
		funds:   funds,
		store:   store,
		reports: reports,
		logger:  logger,
	}
}

// Submit handles one request. An unknown profile returns ErrUnknownProfile
// without touching the store. A known profile is always recorded, for both
// actions; the report is rendered only for ActionDownloadPDF.
func (s *Service) Submit(ctx context.Context, req Request) (*Result, error) {
	profile, ok := models.ParseRiskProfile(req.RiskProfile)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, req.RiskProfile)
	}
	funds, ok := s.funds.Lookup(profile)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, req.RiskProfile)
	}

	sub := models.NewSubmission(req.ClientName, profile, funds)

	start := time.Now()
	if err := s.store.Append(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	s.logger.Info().
		Str("risk_profile", string(profile)).
		Int("funds", len(funds)).
		Str("action", req.Action).
		Dur("elapsed", time.Since(start)).
		Msg("submission recorded")

	result := &Result{Submission: sub}
	if !req.WantsReport() {
		return result, nil
	}

	data, err := s.reports.WriteFile(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	result.Report = data
	result.ReportName = s.reports.FileName()

	return result, nil
}

// ReleaseReport is called after a report has been streamed to the client.
func (s *Service) ReleaseReport() {
	if err := s.reports.Release(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to release report file")
	}
}
