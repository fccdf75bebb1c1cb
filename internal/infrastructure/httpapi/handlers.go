package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/doeshing/symcheck-go/internal/domain"
)

// commonSymptoms seeds the symptom picker in the frontend.
var commonSymptoms = []string{
	"headache", "fever", "cough", "sore throat", "fatigue", "nausea",
	"shortness of breath", "chest pain", "abdominal pain", "dizziness",
	"muscle aches", "runny nose", "congestion", "loss of appetite",
	"difficulty swallowing", "joint pain", "skin rash", "vomiting",
}

type analysisData struct {
	Analysis   string        `json:"analysis"`
	Disclaimer string        `json:"disclaimer"`
	Timestamp  string        `json:"timestamp"`
	QueryID    string        `json:"queryId"`
	Source     domain.Source `json:"source"`
}

type rateLimitedResponse struct {
	Success   bool          `json:"success"`
	Error     string        `json:"error"`
	Message   string        `json:"message"`
	Fallback  string        `json:"fallback"`
	Source    domain.Source `json:"source"`
	QueryID   string        `json:"queryId"`
	Retryable bool          `json:"retryable"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, s.opts.MaxBodyBytes, &req); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "Payload too large", "Request body exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid input", "Request body must be a JSON object")
		return
	}

	query, verr := req.toQuery()
	if verr != nil {
		writeError(w, http.StatusBadRequest, verr.Code, verr.Message)
		return
	}

	outcome := s.opts.Analyzer.Analyze(r.Context(), query)

	if outcome.Retryable() {
		if outcome.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(outcome.RetryAfter)))
		}
		writeJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
			Success:   false,
			Error:     "API quota exceeded",
			Message:   "Our AI service is temporarily unavailable. Please try again later.",
			Fallback:  outcome.Result.Text,
			Source:    outcome.Result.Source,
			QueryID:   outcome.QueryID,
			Retryable: true,
		})
		return
	}

	message := "Symptom analysis completed successfully"
	if outcome.Result.Source == domain.SourceFallback {
		message = "Analysis completed using intelligent fallback system"
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data: analysisData{
			Analysis:   outcome.Result.Text,
			Disclaimer: domain.MedicalDisclaimer,
			Timestamp:  domain.FormatTimestamp(outcome.Timestamp),
			QueryID:    outcome.QueryID,
			Source:     outcome.Result.Source,
		},
		Message: message,
	})
}

func (s *Server) handleCommonSymptoms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    commonSymptoms,
		Message: "Common symptoms retrieved successfully",
	})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset, verr := pageParams(q.Get("limit"), q.Get("offset"))
	if verr != nil {
		writeError(w, http.StatusBadRequest, verr.Code, verr.Message)
		return
	}

	page, err := s.opts.History.List(r.Context(), limit, offset)
	if err != nil {
		s.logStoreError("failed to list history", err, r)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve history", "Unable to fetch query history at this time")
		return
	}
	if page.Records == nil {
		page.Records = []domain.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    page,
		Message: "Query history retrieved successfully",
	})
}

// handleSaveHistory stores a client-supplied record as is; the store fills a
// missing id or timestamp.
func (s *Server) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	var record domain.HistoryRecord
	if err := decodeJSON(w, r, s.opts.MaxBodyBytes, &record); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "Payload too large", "Request body exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid input", "Request body must be a history record")
		return
	}

	if _, err := s.opts.History.Append(r.Context(), record); err != nil {
		s.logStoreError("failed to save query", err, r)
		writeError(w, http.StatusInternalServerError, "Failed to save query", "Unable to save query to history")
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Query saved to history successfully",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "Healthcare Symptom Checker API is running",
		"mode":      s.opts.Selection.Label(),
		"timestamp": domain.FormatTimestamp(s.now()),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "API endpoint not found", "Please check the API documentation for valid endpoints")
}

func (s *Server) logStoreError(msg string, err error, r *http.Request) {
	fields := map[string]interface{}{
		"path":       r.URL.Path,
		"request_id": RequestID(r.Context()),
	}
	var pe *domain.PersistenceError
	if errors.As(err, &pe) {
		fields["op"] = pe.Op
		fields["file"] = pe.Path
	}
	s.opts.Logger.Error(msg, err, fields)
}
