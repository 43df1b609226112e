package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dinamifin/internal/core"
	"dinamifin/internal/log"
	"dinamifin/internal/services"
)

type trendResponse struct {
	ChangePercent float64 `json:"change_percent"`
	Increase      bool    `json:"increase"`
}

type seriesPointResponse struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

type historyResponse struct {
	Metric string                `json:"metric"`
	Window string                `json:"window"`
	Points []seriesPointResponse `json:"points"`
	Trend  trendResponse         `json:"trend"`
}

type goalPeriodResponse struct {
	Period        string  `json:"period"`
	Real          float64 `json:"real"`
	Income        float64 `json:"income"`
	GoalPercent   float64 `json:"goal_percent"`
	ActualPercent int     `json:"actual_percent"`
	Compliant     bool    `json:"compliant"`
}

type goalReportResponse struct {
	Metric  string               `json:"metric"`
	Window  string               `json:"window"`
	Periods []goalPeriodResponse `json:"periods"`
	Met     int                  `json:"met"`
	Missed  int                  `json:"missed"`
	Rate    int                  `json:"rate"`
	Trend   trendResponse        `json:"trend"`
}

func toHistoryResponse(metric string, w core.Window, h *services.History) historyResponse {
	points := make([]seriesPointResponse, 0, len(h.Points))
	for _, p := range h.Points {
		points = append(points, seriesPointResponse{
			Period: string(p.Period),
			Value:  p.Value.Dollars(),
		})
	}
	return historyResponse{
		Metric: metric,
		Window: string(w),
		Points: points,
		Trend:  trendResponse{ChangePercent: h.Trend.ChangePercent, Increase: h.Trend.Increase},
	}
}

func toGoalReportResponse(metric string, w core.Window, rep *services.GoalReport) goalReportResponse {
	periods := make([]goalPeriodResponse, 0, len(rep.Periods))
	for _, p := range rep.Periods {
		periods = append(periods, goalPeriodResponse{
			Period:        string(p.Period),
			Real:          p.Real.Dollars(),
			Income:        p.Income.Dollars(),
			GoalPercent:   p.GoalPercent,
			ActualPercent: p.ActualPercent,
			Compliant:     p.Compliant,
		})
	}
	return goalReportResponse{
		Metric:  metric,
		Window:  string(w),
		Periods: periods,
		Met:     rep.Stats.Met,
		Missed:  rep.Stats.Missed,
		Rate:    rep.Stats.Rate,
		Trend:   trendResponse{ChangePercent: rep.Trend.ChangePercent, Increase: rep.Trend.Increase},
	}
}

// handleHistory serves windowed monthly series. The metric path segment
// selects a plain total series (expense, saving, investment, income) or a
// goal compliance report (expense-goal, saving-goal, investment-goal).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	metric := strings.TrimSpace(r.PathValue("metric"))

	now, err := s.requestNow(r)
	if err != nil {
		writeError(w, err)
		return
	}

	window, err := requestWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cacheKey := fmt.Sprintf("history:%s:%s:%s:%s", userID, metric, window, core.PeriodOf(now))
	if cached, ok := s.historyCache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	}

	body, err := s.buildHistory(r, userID, metric, window, now)
	if err != nil {
		s.structured.LogError(r.Context(), "Failed to build history", err,
			log.ComponentHistory, log.OpRead,
			log.NewFields().WithUserID(userID).WithMetric(metric, string(window)))
		writeError(w, err)
		return
	}

	s.historyCache.Set(cacheKey, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) buildHistory(r *http.Request, userID, metric string, window core.Window, now time.Time) ([]byte, error) {
	ctx := r.Context()

	if metric == "income" {
		history, err := s.histories.Income(ctx, userID, window, now)
		if err != nil {
			return nil, err
		}
		return json.Marshal(toHistoryResponse(metric, window, history))
	}

	if t, ok := strings.CutSuffix(metric, "-goal"); ok {
		report, err := s.histories.Goals(ctx, userID, core.RecordType(t), window, now)
		if err != nil {
			return nil, err
		}
		return json.Marshal(toGoalReportResponse(metric, window, report))
	}

	history, err := s.histories.Totals(ctx, userID, core.RecordType(metric), window, now)
	if err != nil {
		return nil, err
	}
	return json.Marshal(toHistoryResponse(metric, window, history))
}
