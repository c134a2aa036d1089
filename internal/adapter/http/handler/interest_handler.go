package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/agroledger/internal/adapter/http/dto"
	"github.com/iho/agroledger/internal/adapter/report"
	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InterestService defines the behavior needed by InterestHandler.
type InterestService interface {
	CalculatePeriodInterest(ctx context.Context, partyID string, period usecase.PeriodInput) (*usecase.PartyInterest, error)
	GenerateInterestChart(ctx context.Context, organizationID string, period usecase.PeriodInput) ([]domain.InterestChartEntry, error)
	PostPeriod(ctx context.Context, organizationID string, period usecase.PeriodInput, postDate time.Time) ([]*domain.LedgerEntry, error)
}

// InterestHandler handles interest HTTP requests.
type InterestHandler struct {
	interestUC InterestService
}

// NewInterestHandler creates a new InterestHandler.
func NewInterestHandler(interestUC InterestService) *InterestHandler {
	return &InterestHandler{interestUC: interestUC}
}

// PartyInterest computes interest for one party over ?from, ?to at ?rate.
func (h *InterestHandler) PartyInterest(w http.ResponseWriter, r *http.Request) {
	period, err := periodQuery(r)
	if err != nil {
		writeDomainError(w, "invalid interest window", err)
		return
	}

	result, err := h.interestUC.CalculatePeriodInterest(r.Context(), chi.URLParam(r, "id"), period)
	if err != nil {
		writeDomainError(w, "failed to calculate interest", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PartyInterestFromUseCase(result))
}

// Chart builds the organization interest chart; ?format=xlsx returns a workbook.
func (h *InterestHandler) Chart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orgID := q.Get("organization_id")
	if orgID == "" {
		writeError(w, http.StatusBadRequest, "missing organization_id", "")
		return
	}

	period, err := periodQuery(r)
	if err != nil {
		writeDomainError(w, "invalid interest window", err)
		return
	}

	chart, err := h.interestUC.GenerateInterestChart(r.Context(), orgID, period)
	if err != nil {
		writeDomainError(w, "failed to generate interest chart", err)
		return
	}

	if q.Get("format") != "xlsx" {
		writeJSON(w, http.StatusOK, dto.ChartFromDomain(chart))
		return
	}

	data, err := report.BuildInterestChartXLSX(report.ChartMeta{
		OrganizationID: orgID,
		From:           q.Get("from"),
		To:             q.Get("to"),
		Rate:           period.RatePerMonth,
	}, chart)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render interest chart", err.Error())
		return
	}

	writeFile(w, xlsxContentType, "interest-chart-"+orgID+".xlsx", data)
}

// Post computes the chart for a window and appends one INTEREST entry per party.
func (h *InterestHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostInterestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	period, postDate, err := req.ToPeriod()
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	posted, err := h.interestUC.PostPeriod(r.Context(), req.OrganizationID, period, postDate)
	if err != nil {
		writeJSON(w, mapDomainError(err), map[string]any{
			"error":   "failed to post interest",
			"message": err.Error(),
			"posted":  dto.LedgerEntriesFromDomain(posted),
		})
		return
	}

	writeJSON(w, http.StatusCreated, dto.LedgerEntriesFromDomain(posted))
}

func periodQuery(r *http.Request) (usecase.PeriodInput, error) {
	q := r.URL.Query()
	return dto.ParsePeriod(q.Get("from"), q.Get("to"), q.Get("rate"))
}
