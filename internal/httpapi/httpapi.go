// Package httpapi is the presentation layer: JSON in, JSON or CSV
// out. It holds no business rules beyond translating core results
// into status codes.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Mih-kelo/sales-journal/internal/domain"
	"github.com/Mih-kelo/sales-journal/internal/export"
	"github.com/Mih-kelo/sales-journal/internal/filter"
	"github.com/Mih-kelo/sales-journal/internal/journal"
	"github.com/Mih-kelo/sales-journal/internal/metrics"
	"github.com/Mih-kelo/sales-journal/internal/store"
)

const dateLayout = "2006-01-02"

type API struct {
	journal       *journal.Repository
	allowedOrigin string
	log           zerolog.Logger
}

func New(repo *journal.Repository, allowedOrigin string, log zerolog.Logger) *API {
	return &API{
		journal:       repo,
		allowedOrigin: allowedOrigin,
		log:           log,
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(a.cors)

	r.Get("/healthz", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sales", a.handleListSales)
		r.Post("/sales", a.handleCreateSale)
		r.Delete("/sales", a.handleResetSales)
		r.Get("/sales/{id}", a.handleGetSale)
		r.Put("/sales/{id}", a.handleUpdateSale)
		r.Delete("/sales/{id}", a.handleDeleteSale)
		r.Get("/summary", a.handleSummary)
		r.Get("/summary/today", a.handleSummaryToday)
		r.Get("/export", a.handleExport)
	})

	return r
}

func (a *API) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) handleListSales(w http.ResponseWriter, r *http.Request) {
	records := filter.Apply(a.journal.ReadAll(), criteriaFromQuery(r))
	a.writeJSON(w, http.StatusOK, map[string]any{
		"sales": records,
		"count": len(records),
	})
}

func (a *API) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var input domain.SaleInput
	if err := decodeJSON(r, &input); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := a.journal.Create(r.Context(), input)
	if err != nil {
		a.writeValidationOrError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, map[string]any{"sale": created})
}

func (a *API) handleGetSale(w http.ResponseWriter, r *http.Request) {
	rec, err := a.journal.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, err)
			return
		}
		a.writeError(w, http.StatusInternalServerError, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"sale": rec})
}

// handleUpdateSale answers 204 even for an unknown id: update is a
// silent no-op in that case and callers must not rely on it
// confirming existence.
func (a *API) handleUpdateSale(w http.ResponseWriter, r *http.Request) {
	var input domain.SaleInput
	if err := decodeJSON(r, &input); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := a.journal.Update(r.Context(), chi.URLParam(r, "id"), input); err != nil {
		a.writeValidationOrError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	a.journal.Delete(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleResetSales(w http.ResponseWriter, r *http.Request) {
	a.journal.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	records := filter.Apply(a.journal.ReadAll(), criteriaFromQuery(r))
	a.writeJSON(w, http.StatusOK, map[string]any{
		"summary": metrics.Summarize(records),
		"count":   len(records),
	})
}

func (a *API) handleSummaryToday(w http.ResponseWriter, r *http.Request) {
	today := time.Now().UTC().Format(dateLayout)
	a.writeJSON(w, http.StatusOK, map[string]any{
		"date":    today,
		"summary": metrics.SummarizeToday(a.journal.ReadAll(), today),
	})
}

// handleExport answers 204 when the journal is empty: "nothing to
// export" is a signal to the UI layer, not a header-only file.
func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	records := filter.Apply(a.journal.ReadAll(), criteriaFromQuery(r))
	if len(records) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	filename := fmt.Sprintf("sales-export-%s.csv", time.Now().UTC().Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(export.ToDelimitedText(records))); err != nil {
		a.log.Warn().Err(err).Msg("httpapi: export write failed")
	}
}

func criteriaFromQuery(r *http.Request) domain.FilterCriteria {
	q := r.URL.Query()
	return domain.FilterCriteria{
		DateFrom:      q.Get("date_from"),
		DateTo:        q.Get("date_to"),
		CustomerType:  q.Get("customer_type"),
		PaymentMethod: q.Get("payment_method"),
		SearchText:    q.Get("q"),
	}
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func (a *API) writeValidationOrError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		a.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
		return
	}
	a.writeError(w, http.StatusInternalServerError, err)
}

func (a *API) writeError(w http.ResponseWriter, status int, err error) {
	// 5xx responses get a generic message so internals never leak;
	// 4xx messages are user-facing.
	msg := err.Error()
	if status >= 500 {
		a.log.Error().Int("status", status).Err(err).Msg("httpapi: internal error")
		msg = "internal server error"
	}
	a.writeJSON(w, status, map[string]any{"error": msg})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
