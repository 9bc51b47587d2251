package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/bobmcallan/fund-recommender/internal/advisor"
	"github.com/bobmcallan/fund-recommender/internal/common"
	"github.com/bobmcallan/fund-recommender/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Form field names.
const (
	FieldClientName  = "client_name"
	FieldRiskProfile = "risk_profile"
	FieldAction      = "action"
)

// RecommendHandler serves the recommendation form and processes submissions.
type RecommendHandler struct {
	logger    *common.Logger
	templates *template.Template
	service   *advisor.Service
	profiles  []models.RiskProfile
}

// formPage is the data passed to index.html.
type formPage struct {
	Profiles        []models.RiskProfile
	ActionRecommend string
	ActionDownload  string

	// Result block; empty Profile hides it.
	Name    string
	Profile models.RiskProfile
	Funds   models.FundList
}

// NewRecommendHandler creates the form handler. profiles populates the select in display order.
func NewRecommendHandler(logger *common.Logger, service *advisor.Service, profiles []models.RiskProfile) *RecommendHandler {
	templates := template.Must(template.ParseFS(templateFS, "templates/*.html"))

	return &RecommendHandler{
		logger:    logger,
		templates: templates,
		service:   service,
		profiles:  profiles,
	}
}

// HandleForm serves GET / with the empty form.
func (h *RecommendHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.page())
}

// HandleSubmit handles POST /.
func (h *RecommendHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	req := advisor.Request{
		ClientName:  r.PostFormValue(FieldClientName),
		RiskProfile: r.PostFormValue(FieldRiskProfile),
		Action:      r.PostFormValue(FieldAction),
	}

	res, err := h.service.Submit(r.Context(), req)
	if errors.Is(err, advisor.ErrUnknownProfile) {
		// No selection or a tampered value: show the bare form again, nothing recorded.
		if h.logger != nil {
			h.logger.Warn().Str("risk_profile", req.RiskProfile).Msg("submission ignored: unknown risk profile")
		}
		h.render(w, h.page())
		return
	}
	if err != nil {
		if h.logger != nil {
			h.logger.Error().Err(err).Str("action", req.Action).Msg("failed to process submission")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if res.Report != nil {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", res.ReportName))
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Report)))
		w.WriteHeader(http.StatusOK)
		if n, err := w.Write(res.Report); err != nil || n < len(res.Report) {
			if h.logger != nil {
				h.logger.Debug().
					Int("bytes", n).
					Int("expected", len(res.Report)).
					Str("error", fmt.Sprint(err)).
					Msg("report write incomplete")
			}
		}
		h.service.ReleaseReport()
		return
	}

	page := h.page()
	page.Name = res.Submission.ClientName
	page.Profile = res.Submission.RiskProfile
	page.Funds = res.Submission.Funds
	h.render(w, page)
}

func (h *RecommendHandler) page() formPage {
	return formPage{
		Profiles:        h.profiles,
		ActionRecommend: advisor.ActionRecommend,
		ActionDownload:  advisor.ActionDownloadPDF,
	}
}

// render executes into a buffer first so a template failure still yields a clean 500.
func (h *RecommendHandler) render(w http.ResponseWriter, page formPage) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		if h.logger != nil {
			h.logger.Error().Str("template", "index.html").Str("error", err.Error()).Msg("failed to render page")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
