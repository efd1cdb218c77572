// Package server exposes the learner flows as a JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/p-n-ai/pathforge/internal/generator"
	"github.com/p-n-ai/pathforge/internal/metrics"
	"github.com/p-n-ai/pathforge/internal/realtime"
	"github.com/p-n-ai/pathforge/internal/service"
	"github.com/p-n-ai/pathforge/internal/store"
)

// UserHeader carries the caller's user id, set by the fronting auth proxy.
const UserHeader = "X-User-ID"

const maxBodyBytes = 1 << 20

// Server holds the API handlers.
type Server struct {
	svc     *service.Service
	hub     *realtime.Hub
	schemas schemaSet
}

// New creates the API server. hub may be nil, which disables /ws/progress.
func New(svc *service.Service, hub *realtime.Hub) (*Server, error) {
	schemas, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	return &Server{svc: svc, hub: hub, schemas: schemas}, nil
}

// Register adds the API routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/paths", s.withUser(s.handleGeneratePath))
	mux.HandleFunc("GET /api/paths/active", s.withUser(s.handleActivePath))
	mux.HandleFunc("GET /api/paths/active/export.xlsx", s.withUser(s.handleExport))
	mux.HandleFunc("GET /api/paths/{id}", s.withUser(s.handleGetPath))
	mux.HandleFunc("GET /api/recommendations", s.withUser(s.handleRecommendations))
	mux.HandleFunc("POST /api/resources/recommend", s.handleResources)
	mux.HandleFunc("POST /api/schedule", s.withUser(s.handleSchedule))

	mux.HandleFunc("POST /api/progress/complete", s.withUser(s.handleCompleteTopic))
	mux.HandleFunc("POST /api/progress/activity", s.withUser(s.handleLogActivity))
	mux.HandleFunc("GET /api/progress/stats", s.withUser(s.handleStats))
	mux.HandleFunc("GET /api/progress/streak", s.withUser(s.handleStreak))
	mux.HandleFunc("GET /api/progress/heatmap", s.withUser(s.handleHeatmap))

	mux.HandleFunc("GET /api/analytics/velocity", s.withUser(s.handleVelocity))
	mux.HandleFunc("GET /api/analytics/prediction", s.withUser(s.handlePrediction))
	mux.HandleFunc("POST /api/analytics/adapt", s.withUser(s.handleAdapt))
	mux.HandleFunc("GET /api/analytics/insights", s.withUser(s.handleInsights))
	mux.HandleFunc("GET /api/analytics/struggling", s.withUser(s.handleStruggling))

	mux.HandleFunc("GET /api/achievements", s.withUser(s.handleAchievements))

	if s.hub != nil {
		mux.HandleFunc("GET /ws/progress", s.handleProgressStream)
	}
}

type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

func (s *Server) withUser(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserHeader)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "missing "+UserHeader+" header")
			return
		}
		h(w, r, userID)
	}
}

// Instrument records request count and latency per matched route.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(r.Method, route, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the hijacker for websockets.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) handleGeneratePath(w http.ResponseWriter, r *http.Request, userID string) {
	var p generator.Profile
	if !s.readBody(w, r, schemaProfile, &p) {
		return
	}
	path, err := s.svc.GeneratePath(r.Context(), userID, p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"path": path})
}

func (s *Server) handleActivePath(w http.ResponseWriter, r *http.Request, userID string) {
	path, err := s.svc.ActivePath(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": path})
}

func (s *Server) handleGetPath(w http.ResponseWriter, r *http.Request, userID string) {
	path, err := s.svc.Path(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": path})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, userID string) {
	var buf bytes.Buffer
	if err := s.svc.ExportActivePath(r.Context(), userID, &buf); err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="learning-path.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("export write failed", "user_id", userID, "error", err)
	}
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request, userID string) {
	recs, err := s.svc.Recommend(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	var in service.ResourceInput
	if !s.readBody(w, r, schemaResources, &in) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"resources": s.svc.Resources(in)})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request, userID string) {
	var in service.ScheduleInput
	if !s.readBody(w, r, schemaSchedule, &in) {
		return
	}
	schedule, err := s.svc.Schedule(r.Context(), userID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedule": schedule})
}

func (s *Server) handleCompleteTopic(w http.ResponseWriter, r *http.Request, userID string) {
	var in service.CompleteTopicInput
	if !s.readBody(w, r, schemaCompleteTopic, &in) {
		return
	}
	res, err := s.svc.CompleteTopic(r.Context(), userID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLogActivity(w http.ResponseWriter, r *http.Request, userID string) {
	var in service.ActivityInput
	if !s.readBody(w, r, schemaActivity, &in) {
		return
	}
	log, err := s.svc.LogActivity(r.Context(), userID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": log})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, userID string) {
	stats, err := s.svc.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request, userID string) {
	streak, err := s.svc.Streak(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, streak)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request, userID string) {
	weeks := 0
	if v := r.URL.Query().Get("weeks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 52 {
			writeError(w, http.StatusBadRequest, "weeks must be an integer between 1 and 52")
			return
		}
		weeks = n
	}
	cells, err := s.svc.Heatmap(r.Context(), userID, weeks)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"heatmap": cells})
}

func (s *Server) handleVelocity(w http.ResponseWriter, r *http.Request, userID string) {
	m, err := s.svc.Velocity(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"metrics": m})
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request, userID string) {
	p, err := s.svc.Predict(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prediction": p})
}

func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request, userID string) {
	var in service.AdaptInput
	if !s.readBody(w, r, schemaAdapt, &in) {
		return
	}
	set, err := s.svc.Adapt(r.Context(), userID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"adaptations": set})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request, userID string) {
	insights, err := s.svc.Insights(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

func (s *Server) handleStruggling(w http.ResponseWriter, r *http.Request, userID string) {
	topics, err := s.svc.Struggling(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"struggling_topics": topics})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request, userID string) {
	achievements, err := s.svc.Achievements(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": achievements})
}

// handleProgressStream accepts the user id from the header or, for browser
// clients that cannot set headers on websocket upgrades, a user_id query
// parameter.
func (s *Server) handleProgressStream(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(UserHeader)
	if userID == "" {
		userID = r.URL.Query().Get("user_id")
	}
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing "+UserHeader+" header")
		return
	}
	s.hub.Serve(w, r, userID)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request, schema string, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	if err := s.schemas.decode(schema, body, dst); err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			writeError(w, http.StatusBadRequest, reqErr.msg)
			return false
		}
		slog.Error("request decode failed", "schema", schema, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, generator.ErrInvalidProfile):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}
