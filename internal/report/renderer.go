// Package report renders the downloadable PDF summary of one submission.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bobmcallan/fund-recommender/internal/common"
	"github.com/bobmcallan/fund-recommender/internal/config"
	"github.com/bobmcallan/fund-recommender/internal/models"
	"github.com/go-pdf/fpdf"
)

// Title is the heading printed at the top of every report.
const Title = "Client Fund Recommendation Report"

// documentDate pins the PDF creation and modification dates so identical
// submissions produce identical bytes.
var documentDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Layout, in millimetres.
const (
	logoX         = 10.0
	logoY         = 8.0
	logoWidth     = 33.0
	gapAfterLogo  = 35.0
	gapNoLogo     = 10.0
	lineWidth     = 200.0
	lineHeight    = 10.0
	titleFontSize = 14.0
	bodyFontSize  = 12.0
)

// Renderer produces PDF reports and writes them to a fixed path.
type Renderer struct {
	mu       sync.Mutex
	path     string
	logoPath string
	keepFile bool
	logger   *common.Logger
}

// NewRenderer creates a renderer from report config.
func NewRenderer(logger *common.Logger, cfg *config.ReportConfig) *Renderer {
	return &Renderer{
		path:     cfg.Path,
		logoPath: cfg.LogoPath,
		keepFile: cfg.KeepFile,
		logger:   logger,
	}
}

// FileName is the attachment name offered to the browser.
func (r *Renderer) FileName() string {
	return filepath.Base(r.path)
}

// Render builds the report for sub. A logo is drawn only when the logo file exists.
func (r *Renderer) Render(sub models.Submission) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	if r.hasLogo() {
		pdf.ImageOptions(r.logoPath, logoX, logoY, logoWidth, 0, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		pdf.Ln(gapAfterLogo)
	} else {
		pdf.Ln(gapNoLogo)
	}

	pdf.SetFont("Arial", "B", titleFontSize)
	pdf.CellFormat(lineWidth, lineHeight, Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", bodyFontSize)
	pdf.Ln(lineHeight)
	pdf.CellFormat(lineWidth, lineHeight, tr("Client Name: "+sub.ClientName), "", 1, "", false, 0, "")
	pdf.CellFormat(lineWidth, lineHeight, tr("Risk Profile: "+string(sub.RiskProfile)), "", 1, "", false, 0, "")
	pdf.CellFormat(lineWidth, lineHeight, "Recommended Funds:", "", 1, "", false, 0, "")
	for _, fund := range sub.Funds {
		pdf.CellFormat(lineWidth, lineHeight, tr("- "+fund), "", 1, "", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders sub, writes it to the configured report path (replacing any
// previous report) and returns the bytes that were written.
func (r *Renderer) WriteFile(sub models.Submission) ([]byte, error) {
	data, err := r.Render(sub)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write report %s: %w", r.path, err)
	}

	r.logger.Debug().
		Str("path", r.path).
		Int("bytes", len(data)).
		Msg("report written")

	return data, nil
}

// Release is called once the report has been streamed. The file stays on disk
// (overwritten by the next download) unless keep_file is disabled.
func (r *Renderer) Release() error {
	if r.keepFile {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove report %s: %w", r.path, err)
	}
	return nil
}

func (r *Renderer) hasLogo() bool {
	if r.logoPath == "" {
		return false
	}
	info, err := os.Stat(r.logoPath)
	return err == nil && !info.IsDir()
}
