package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/analytics"
	"subscription-tracker/internal/domain/civil"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/infra/metrics"
	"subscription-tracker/internal/usecase"
)

// subscriptionRequest is the JSON body for create and update.
type subscriptionRequest struct {
	Name         string `json:"name"`
	Cost         string `json:"cost"`
	BillingCycle string `json:"billing_cycle"`
	RenewalDate  string `json:"renewal_date"`
	Category     string `json:"category"`
	Domain       string `json:"domain"`
	Description  string `json:"description"`
	Reminders    []int  `json:"reminders"`
}

func (req subscriptionRequest) toInput() usecase.SubscriptionInput {
	return usecase.SubscriptionInput{
		Name:         req.Name,
		Cost:         req.Cost,
		BillingCycle: req.BillingCycle,
		RenewalDate:  req.RenewalDate,
		Category:     req.Category,
		Domain:       req.Domain,
		Description:  req.Description,
		Reminders:    req.Reminders,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidCycle),
		errors.Is(err, domain.ErrNegativeCost),
		errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// resolveNow reads the optional ?now=YYYY-MM-DD override. Analytics
// endpoints accept it so a client can render "as of" an arbitrary day;
// the wall clock is the default.
func resolveNow(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("now")
	if raw == "" {
		return time.Now(), nil
	}
	d, err := civil.Parse(raw)
	if err != nil {
		return time.Time{}, err
	}
	return d.In(time.Local), nil
}

func subscriptionCreateHandler(subUC usecase.SubscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		sub, err := subUC.Create(r.Context(), req.toInput())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	}
}

func subscriptionUpdateHandler(subUC usecase.SubscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req subscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		sub, err := subUC.Update(r.Context(), id, req.toInput())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

func subscriptionGetHandler(subUC usecase.SubscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := subUC.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

func subscriptionsListHandler(subUC usecase.SubscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, err := subUC.List(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if subs == nil {
			subs = []*model.Subscription{}
		}
		response := struct {
			Data  []*model.Subscription `json:"data"`
			Total int                   `json:"total"`
		}{
			Data:  subs,
			Total: len(subs),
		}
		writeJSON(w, http.StatusOK, response)
	}
}

func subscriptionsUpcomingHandler(subUC usecase.SubscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now, err := resolveNow(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		days := 7
		if raw := r.URL.Query().Get("days"); raw != "" {
			d, err := strconv.Atoi(raw)
			if err != nil || d <= 0 {
				http.Error(w, "days must be a positive integer", http.StatusBadRequest)
				return
			}
			days = d
		}

		subs, err := subUC.Upcoming(r.Context(), days, now)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if subs == nil {
			subs = []*model.Subscription{}
		}
		response := struct {
			Data  []*model.Subscription `json:"data"`
			Total int                   `json:"total"`
		}{
			Data:  subs,
			Total: len(subs),
		}
		writeJSON(w, http.StatusOK, response)
	}
}

func subscriptionDeleteHandler(subUC usecase.SubscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := subUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func summaryHandler(analyticsUC usecase.AnalyticsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now, err := resolveNow(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s, err := analyticsUC.Summary(r.Context(), now)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		metrics.SetSubscriptionsTotal(s.Cycles.Monthly, s.Cycles.Yearly)
		spend, _ := s.TotalMonthlyCost.Float64()
		metrics.SetMonthlySpend(spend)

		writeJSON(w, http.StatusOK, s)
	}
}

func timelineHandler(analyticsUC usecase.AnalyticsUseCase, defaultHorizon int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now, err := resolveNow(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		horizon := defaultHorizon
		if raw := r.URL.Query().Get("horizon"); raw != "" {
			h, err := strconv.Atoi(raw)
			if err != nil || h <= 0 {
				http.Error(w, "horizon must be a positive integer", http.StatusBadRequest)
				return
			}
			horizon = h
		}

		tl, err := analyticsUC.Timeline(r.Context(), horizon, now)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tl)
	}
}

func insightsHandler(analyticsUC usecase.AnalyticsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now, err := resolveNow(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		ins, err := analyticsUC.Insights(r.Context(), now)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if ins == nil {
			ins = []analytics.Insight{}
		}
		response := struct {
			Data []analytics.Insight `json:"data"`
		}{Data: ins}
		writeJSON(w, http.StatusOK, response)
	}
}
