package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bobmcallan/fund-recommender/internal/advisor"
	"github.com/bobmcallan/fund-recommender/internal/common"
	"github.com/bobmcallan/fund-recommender/internal/config"
	"github.com/bobmcallan/fund-recommender/internal/models"
	"github.com/bobmcallan/fund-recommender/internal/recommend"
	"github.com/bobmcallan/fund-recommender/internal/report"
	"github.com/bobmcallan/fund-recommender/internal/storage/xlsx"
)

type recommendFixture struct {
	handler    *RecommendHandler
	store      *xlsx.Store
	reportPath string
}

func newRecommendFixture(t *testing.T) *recommendFixture {
	t.Helper()
	return newRecommendFixtureWithLogger(t, common.NewSilentLogger())
}

func newRecommendFixtureWithLogger(t *testing.T, logger *common.Logger) *recommendFixture {
	t.Helper()

	dir := t.TempDir()

	table, err := recommend.Default()
	if err != nil {
		t.Fatalf("failed to load fund table: %v", err)
	}
	store, err := xlsx.NewStore(logger, &config.XLSXConfig{Path: filepath.Join(dir, "client_data.xlsx"), Sheet: "Sheet1"})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	reportPath := filepath.Join(dir, "client_report.pdf")
	renderer := report.NewRenderer(logger, &config.ReportConfig{
		Path:     reportPath,
		LogoPath: filepath.Join(dir, "logo.png"),
		KeepFile: true,
	})

	svc := advisor.NewService(table, store, renderer, logger)
	return &recommendFixture{
		handler:    NewRecommendHandler(logger, svc, table.Profiles()),
		store:      store,
		reportPath: reportPath,
	}
}

func (f *recommendFixture) post(t *testing.T, name, profile, action string) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	form.Set(FieldClientName, name)
	form.Set(FieldRiskProfile, profile)
	form.Set(FieldAction, action)

	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	f.handler.HandleSubmit(w, req)
	return w
}

func (f *recommendFixture) records(t *testing.T) []models.Submission {
	t.Helper()

	records, err := f.store.Records(context.Background())
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	return records
}

func TestRecommendHandler_FormRendersEmpty(t *testing.T) {
	f := newRecommendFixture(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	f.handler.HandleForm(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html, got %s", ct)
	}

	body := w.Body.String()
	for _, want := range []string{
		`name="client_name"`,
		`<option value="">--Select--</option>`,
		`<option value="Conservative">Conservative</option>`,
		`<option value="Moderate">Moderate</option>`,
		`<option value="Aggressive">Aggressive</option>`,
		`value="Get Recommendations"`,
		`value="Download PDF"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected form to contain %s", want)
		}
	}
	if strings.Contains(body, `id="result"`) {
		t.Error("expected no result block on the empty form")
	}
}

func TestRecommendHandler_GetRecommendations(t *testing.T) {
	f := newRecommendFixture(t)

	w := f.post(t, "Asha", "Moderate", advisor.ActionRecommend)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Client: Asha") {
		t.Error("expected client name in result")
	}
	if !strings.Contains(body, "Risk Profile: Moderate") {
		t.Error("expected risk profile in result")
	}

	table, _ := recommend.Default()
	funds, _ := table.Lookup(models.Moderate)
	if len(funds) != 14 {
		t.Fatalf("expected 14 Moderate funds, got %d", len(funds))
	}
	for _, fund := range funds {
		// html/template escapes "&" in text nodes.
		escaped := strings.ReplaceAll(fund, "&", "&amp;")
		if !strings.Contains(body, "<li>"+escaped+"</li>") {
			t.Errorf("expected fund %q in result list", fund)
		}
	}

	records := f.records(t)
	if len(records) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(records))
	}
	if records[0].ClientName != "Asha" || records[0].RiskProfile != models.Moderate {
		t.Errorf("unexpected record %+v", records[0])
	}
	if !strings.HasPrefix(records[0].FundsJoined(), "ICICI Prudential Equity & Debt Fund, HDFC Hybrid Equity Fund, ") {
		t.Errorf("unexpected funds column %q", records[0].FundsJoined())
	}
}

func TestRecommendHandler_EmptyProfileIsSilentNoop(t *testing.T) {
	f := newRecommendFixture(t)

	w := f.post(t, "Asha", "", advisor.ActionRecommend)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, `id="result"`) || strings.Contains(body, "<li>") {
		t.Error("expected bare form without result block")
	}
	if !strings.Contains(body, `name="risk_profile"`) {
		t.Error("expected the form to be rendered")
	}
	if n := len(f.records(t)); n != 0 {
		t.Errorf("expected no stored rows, got %d", n)
	}
}

func TestRecommendHandler_InvalidProfileDownloadIsNoop(t *testing.T) {
	f := newRecommendFixture(t)

	w := f.post(t, "Asha", "moderate", advisor.ActionDownloadPDF)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML form, got %s", ct)
	}
	if _, err := os.Stat(f.reportPath); !os.IsNotExist(err) {
		t.Error("expected no report file for an invalid profile")
	}
	if n := len(f.records(t)); n != 0 {
		t.Errorf("expected no stored rows, got %d", n)
	}
}

func TestRecommendHandler_DownloadPDF(t *testing.T) {
	f := newRecommendFixture(t)

	w := f.post(t, "Asha", "Conservative", advisor.ActionDownloadPDF)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="client_report.pdf"` {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Fatal("expected non-empty PDF body")
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("expected body to be a PDF")
	}

	onDisk, err := os.ReadFile(f.reportPath)
	if err != nil {
		t.Fatalf("expected report to remain on disk: %v", err)
	}
	if !bytes.Equal(onDisk, w.Body.Bytes()) {
		t.Error("expected streamed bytes to match the report file")
	}

	if n := len(f.records(t)); n != 1 {
		t.Errorf("expected download to be recorded, got %d rows", n)
	}
}

func TestRecommendHandler_DownloadDiffersPerSubmission(t *testing.T) {
	f := newRecommendFixture(t)

	a := f.post(t, "Asha", "Moderate", advisor.ActionDownloadPDF).Body.Bytes()
	b := f.post(t, "Ravi", "Moderate", advisor.ActionDownloadPDF).Body.Bytes()
	c := f.post(t, "Asha", "Aggressive", advisor.ActionDownloadPDF).Body.Bytes()

	if bytes.Equal(a, b) {
		t.Error("expected different reports for different client names")
	}
	if bytes.Equal(a, c) {
		t.Error("expected different reports for different profiles")
	}
}

func TestRecommendHandler_TwoSequentialPosts(t *testing.T) {
	f := newRecommendFixture(t)

	f.post(t, "First", "Conservative", advisor.ActionRecommend)
	f.post(t, "Second", "Aggressive", advisor.ActionRecommend)

	records := f.records(t)
	if len(records) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(records))
	}
	if records[0].RiskProfile != models.Conservative || records[1].RiskProfile != models.Aggressive {
		t.Errorf("rows out of order: %s, %s", records[0].RiskProfile, records[1].RiskProfile)
	}

	table, _ := recommend.Default()
	for _, r := range records {
		funds, _ := table.Lookup(r.RiskProfile)
		if len(funds) != 15 {
			t.Errorf("expected 15 funds for %s, got %d", r.RiskProfile, len(funds))
		}
		if r.FundsJoined() != funds.Joined() {
			t.Errorf("funds column mismatch for %s", r.RiskProfile)
		}
	}
}

func TestRecommendHandler_EmptyNameAccepted(t *testing.T) {
	f := newRecommendFixture(t)

	w := f.post(t, "", "Aggressive", advisor.ActionRecommend)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	records := f.records(t)
	if len(records) != 1 || records[0].ClientName != "" {
		t.Errorf("expected one record with empty name, got %+v", records)
	}
}

func TestRecommendHandler_EscapesClientName(t *testing.T) {
	f := newRecommendFixture(t)

	w := f.post(t, `<script>alert("x")</script>`, "Moderate", advisor.ActionRecommend)

	body := w.Body.String()
	if strings.Contains(body, `<script>alert("x")</script>`) {
		t.Error("client name was not escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("expected escaped client name in output")
	}
}

func TestRecommendHandler_StoreFailureReturns500(t *testing.T) {
	f := newRecommendFixture(t)

	// A directory where the workbook should be makes every append fail.
	if err := os.Mkdir(f.store.Path(), 0755); err != nil {
		t.Fatal(err)
	}

	w := f.post(t, "Asha", "Moderate", advisor.ActionRecommend)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

// brokenPipeWriter accepts headers but fails every body write.
type brokenPipeWriter struct {
	*httptest.ResponseRecorder
}

func (w brokenPipeWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestRecommendHandler_DownloadLogsFailedWrite(t *testing.T) {
	var buf bytes.Buffer
	f := newRecommendFixtureWithLogger(t, common.NewLoggerWithOutput("debug", &buf))

	form := url.Values{}
	form.Set(FieldClientName, "Asha")
	form.Set(FieldRiskProfile, "Moderate")
	form.Set(FieldAction, advisor.ActionDownloadPDF)
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := brokenPipeWriter{httptest.NewRecorder()}

	f.handler.HandleSubmit(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 to have been sent, got %d", w.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "report write incomplete") {
		t.Errorf("expected incomplete write to be logged, got %q", out)
	}
	if !strings.Contains(out, "broken pipe") {
		t.Errorf("expected write error in log, got %q", out)
	}
}
