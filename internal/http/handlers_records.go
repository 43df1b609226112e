package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"dinamifin/internal/core"
)

type recordResponse struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

func toRecordResponse(rec core.Record) recordResponse {
	return recordResponse{
		ID:       rec.ID,
		Type:     string(rec.Type),
		Amount:   rec.Amount.Dollars(),
		Category: rec.Category,
		Date:     rec.Date.String(),
	}
}

// handleCreateRecord accepts the type-specific raw payload and stores the
// normalized record.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	t, err := pathRecordType(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID := r.PathValue("userID")

	var raw core.RawRecord
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	rec, err := s.records.CreateRecord(r.Context(), userID, t, raw)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateUser(userID)

	s.structured.LogRecordStored(r.Context(), userID, string(t), rec.Category, rec.Amount.Cents)

	writeJSON(w, http.StatusCreated, toRecordResponse(rec))
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	t, err := pathRecordType(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID := r.PathValue("userID")

	records, err := s.records.ListRecords(r.Context(), userID, t)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordResponse(rec))
	}

	writeJSON(w, http.StatusOK, out)
}

type updateRecordRequest struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

// handleUpdateRecord rewrites the record addressed by its natural key.
func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	t, err := pathRecordType(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID := r.PathValue("userID")

	date, err := core.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	cents, err := core.CentsFromFloat(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.records.UpdateRecord(r.Context(), userID, t, date, core.Money{Cents: cents}, req.Category); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateUser(userID)
	writeJSON(w, http.StatusOK, map[string]string{"id": fmt.Sprintf("%s-%s", t, date)})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	t, err := pathRecordType(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID := r.PathValue("userID")

	date, err := core.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.records.DeleteRecord(r.Context(), userID, t, date); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateUser(userID)
	w.WriteHeader(http.StatusNoContent)
}
