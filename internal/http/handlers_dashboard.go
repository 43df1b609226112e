package http

import (
	"net/http"

	"dinamifin/internal/core"
	"dinamifin/internal/log"
	"dinamifin/internal/services"
)

type goalStatusResponse struct {
	ActualPercent int     `json:"actual_percent"`
	GoalPercent   float64 `json:"goal_percent"`
	Compliant     bool    `json:"compliant"`
}

type categoryShareResponse struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Percent  float64 `json:"percent"`
}

type typeOverviewResponse struct {
	AllTime    float64                 `json:"all_time"`
	Month      float64                 `json:"month"`
	Goal       goalStatusResponse      `json:"goal"`
	Categories []categoryShareResponse `json:"categories"`
}

type totalsResponse struct {
	Expenses    float64 `json:"expenses"`
	Savings     float64 `json:"savings"`
	Investments float64 `json:"investments"`
	Income      float64 `json:"income"`
}

type dashboardResponse struct {
	UserID  string                          `json:"user_id"`
	Period  string                          `json:"period"`
	Income  float64                         `json:"income"`
	Types   map[string]typeOverviewResponse `json:"types"`
	AllTime totalsResponse                  `json:"all_time"`
	Month   totalsResponse                  `json:"month"`
}

func toTotalsResponse(t core.Totals) totalsResponse {
	return totalsResponse{
		Expenses:    t.Expenses.Dollars(),
		Savings:     t.Savings.Dollars(),
		Investments: t.Investments.Dollars(),
		Income:      t.Income.Dollars(),
	}
}

func toDashboardResponse(d *services.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		UserID:  d.UserID,
		Period:  string(d.Period),
		Income:  d.Income.Dollars(),
		Types:   make(map[string]typeOverviewResponse, len(d.Types)),
		AllTime: toTotalsResponse(d.AllTime),
		Month:   toTotalsResponse(d.Month),
	}
	for t, overview := range d.Types {
		shares := make([]categoryShareResponse, 0, len(overview.Categories))
		for _, share := range overview.Categories {
			shares = append(shares, categoryShareResponse{
				Category: share.Category,
				Amount:   share.Amount.Dollars(),
				Percent:  share.Percent,
			})
		}
		resp.Types[string(t)] = typeOverviewResponse{
			AllTime: overview.AllTime.Dollars(),
			Month:   overview.Month.Dollars(),
			Goal: goalStatusResponse{
				ActualPercent: overview.Goal.ActualPercent,
				GoalPercent:   overview.Goal.GoalPercent,
				Compliant:     overview.Goal.Compliant,
			},
			Categories: shares,
		}
	}
	return resp
}

// handleDashboard serves the aggregate per-user view, cached for a few
// minutes unless a write invalidates it first.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	now, err := s.requestNow(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cacheKey := "dashboard:" + userID + ":" + string(core.PeriodOf(now))
	if cached, ok := s.dashboardCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	dashboard, err := s.dashboards.Build(r.Context(), userID, now)
	if err != nil {
		s.structured.LogError(r.Context(), "Failed to build dashboard", err,
			log.ComponentDashboard, log.OpRead,
			log.NewFields().WithUserID(userID))
		writeError(w, err)
		return
	}

	resp := toDashboardResponse(dashboard)
	s.dashboardCache.Set(cacheKey, resp)

	writeJSON(w, http.StatusOK, resp)
}
