package http

import (
	"encoding/json"
	"net/http"

	"dinamifin/internal/core"
	"dinamifin/internal/log"
)

type setIncomeRequest struct {
	Amount float64 `json:"amount"`
}

// handleSetIncome upserts the monthly income scalar for a user and period.
func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	period := core.Period(r.PathValue("period"))
	if !period.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid period, expected YYYY-MM"})
		return
	}

	var req setIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	cents, err := core.CentsFromFloat(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.records.SetIncome(r.Context(), userID, period, core.Money{Cents: cents}); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateUser(userID)

	log.FromContext(r.Context()).InfoContext(r.Context(), "Income set",
		log.FieldUserID, userID,
		log.FieldPeriod, period,
		log.FieldAmountCents, cents)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetIncome reads the income scalar for the current period, or for
// the month of an explicit now parameter.
func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	now, err := s.requestNow(r)
	if err != nil {
		writeError(w, err)
		return
	}
	period := core.PeriodOf(now)

	income, err := s.records.GetIncome(r.Context(), userID, period)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"period": string(period),
		"amount": income.Dollars(),
	})
}

type setGoalRequest struct {
	Percent float64 `json:"percent"`
}

// handleSetGoal upserts the goal percentage for a user, type, and period.
func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	t, err := pathRecordType(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID := r.PathValue("userID")

	period := core.Period(r.PathValue("period"))
	if !period.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid period, expected YYYY-MM"})
		return
	}

	var req setGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if req.Percent < 0 {
		writeError(w, core.ErrInvalidAmount)
		return
	}

	if err := s.records.SetGoal(r.Context(), userID, t, period, req.Percent); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateUser(userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetGoal reads the goal percentage in force for the current period.
func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	t, err := pathRecordType(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID := r.PathValue("userID")

	now, err := s.requestNow(r)
	if err != nil {
		writeError(w, err)
		return
	}
	period := core.PeriodOf(now)

	percent, err := s.records.GetGoal(r.Context(), userID, t, period)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"period":  string(period),
		"percent": percent,
	})
}
