package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unimonitor/sports-activity-service/src/internal/api/apiErrors"
	"github.com/unimonitor/sports-activity-service/src/internal/auth"
	"github.com/unimonitor/sports-activity-service/src/internal/model"
	"github.com/unimonitor/sports-activity-service/src/internal/service"
)

type Handler struct {
	svc     *service.Service
	log     *zap.Logger
	timeout time.Duration
}

func NewHandler(svc *service.Service, logger *zap.Logger, timeout time.Duration) *Handler {
	return &Handler{svc: svc, log: logger, timeout: timeout}
}

func RegisterRoutes(r *chi.Mux, h *Handler, authMW *auth.Middleware) {
	// Public read surface, no authentication.
	r.Get("/activities/public", h.withTimeout(h.listPublicActivities))
	r.Get("/announcements/public", h.withTimeout(h.listPublicAnnouncements))
	r.Get("/modalities", h.withTimeout(h.listModalities))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Everything else requires a resolved identity.
	r.Group(func(r chi.Router) {
		r.Use(authMW.Require)

		r.Post("/activities/create", h.withTimeout(h.createActivity))
		r.Post("/activities/update", h.withTimeout(h.updateActivity))
		r.Post("/activities/delete", h.withTimeout(h.deleteActivity))
		r.Post("/activities/decide", h.withTimeout(h.decideActivity))
		r.Get("/activities/mine", h.withTimeout(h.listOwnActivities))
		r.Get("/activities/pending", h.withTimeout(h.listPendingActivities))
		r.Get("/activities/all", h.withTimeout(h.listAllActivities))

		r.Post("/announcements/create", h.withTimeout(h.createAnnouncement))
		r.Post("/announcements/update", h.withTimeout(h.updateAnnouncement))
		r.Post("/announcements/delete", h.withTimeout(h.deleteAnnouncement))
		r.Get("/announcements/mine", h.withTimeout(h.listOwnAnnouncements))

		r.Get("/users/list", h.withTimeout(h.listUsers))
	})
}

func (h *Handler) withTimeout(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}

func actorFrom(r *http.Request) (*model.User, bool) {
	return auth.UserFromContext(r.Context())
}

func (h *Handler) listPublicActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.ListPublicActivities(r.Context(), r.URL.Query().Get("modality"))
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": emptyIfNil(activities)})
}

func (h *Handler) listPublicAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.svc.ListPublicAnnouncements(r.Context(), r.URL.Query().Get("modality"))
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"announcements": emptyIfNil(announcements)})
}

func (h *Handler) listModalities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"modalities": model.Modalities})
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	var req struct {
		Modality  string `json:"modality"`
		Weekday   string `json:"weekday"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apiErrors.ValidationFailed, "invalid body")
		return
	}
	activity, err := h.svc.CreateActivity(r.Context(), actor, model.Activity{
		Modality:  req.Modality,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"activity": activity})
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	var req struct {
		ID string `json:"id"`
		model.ActivityUpdate
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, apiErrors.ValidationFailed, "id required")
		return
	}
	activity, err := h.svc.UpdateActivity(r.Context(), actor, req.ID, req.ActivityUpdate)
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": activity})
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, apiErrors.ValidationFailed, "id required")
		return
	}
	if err := h.svc.DeleteActivity(r.Context(), actor, req.ID); err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": req.ID})
}

func (h *Handler) decideActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	var req struct {
		ID     string       `json:"id"`
		Status model.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, apiErrors.ValidationFailed, "id and status required")
		return
	}
	activity, err := h.svc.DecideActivity(r.Context(), actor, req.ID, req.Status)
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": activity})
}

func (h *Handler) listOwnActivities(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	activities, err := h.svc.ListOwnActivities(r.Context(), actor)
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": emptyIfNil(activities)})
}

func (h *Handler) listPendingActivities(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	activities, err := h.svc.ListPendingActivities(r.Context(), actor)
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": emptyIfNil(activities)})
}

func (h *Handler) listAllActivities(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	activities, err := h.svc.ListAllActivities(r.Context(), actor)
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": emptyIfNil(activities)})
}

func (h *Handler) createAnnouncement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	var req struct {
		Title    string `json:"title"`
		Message  string `json:"message"`
		Modality string `json:"modality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apiErrors.ValidationFailed, "invalid body")
		return
	}
	announcement, err := h.svc.CreateAnnouncement(r.Context(), actor, model.Announcement{
		Title:    req.Title,
		Message:  req.Message,
		Modality: req.Modality,
	})
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"announcement": announcement})
}

func (h *Handler) updateAnnouncement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	var req struct {
		ID string `json:"id"`
		model.AnnouncementUpdate
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, apiErrors.ValidationFailed, "id required")
		return
	}
	announcement, err := h.svc.UpdateAnnouncement(r.Context(), actor, req.ID, req.AnnouncementUpdate)
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"announcement": announcement})
}

func (h *Handler) deleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, apiErrors.ValidationFailed, "id required")
		return
	}
	if err := h.svc.DeleteAnnouncement(r.Context(), actor, req.ID); err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": req.ID})
}

func (h *Handler) listOwnAnnouncements(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	announcements, err := h.svc.ListOwnAnnouncements(r.Context(), actor)
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"announcements": emptyIfNil(announcements)})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "authentication required")
		return
	}
	users, err := h.svc.ListUsers(r.Context(), actor)
	if err != nil {
		handleSvcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": emptyIfNil(users)})
}

// emptyIfNil keeps list responses as [] instead of null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, errCode apiErrors.ErrorCode, message string) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{"code": errCode, "message": message},
	})
}

func writeFieldError(w http.ResponseWriter, code int, e apiErrors.APIError) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{"code": e.Code, "message": e.Message, "field": e.Field},
	})
}

func handleSvcError(w http.ResponseWriter, err error) {
	var e apiErrors.APIError
	switch {
	case errors.As(err, &e):
		switch e.Code {
		case apiErrors.NotAuthenticated:
			writeError(w, http.StatusUnauthorized, e.Code, e.Message)
		case apiErrors.UserNotProvisioned, apiErrors.InsufficientRole:
			writeError(w, http.StatusForbidden, e.Code, e.Message)
		case apiErrors.NotFound:
			writeError(w, http.StatusNotFound, e.Code, e.Message)
		case apiErrors.ValidationFailed:
			writeFieldError(w, http.StatusUnprocessableEntity, e)
		case apiErrors.Conflict:
			writeError(w, http.StatusConflict, e.Code, e.Message)
		case apiErrors.StoreUnavailable:
			writeError(w, http.StatusServiceUnavailable, e.Code, e.Message)
		default:
			writeError(w, http.StatusInternalServerError, apiErrors.InternalError, e.Message)
		}
	default:
		writeError(w, http.StatusInternalServerError, apiErrors.InternalError, "internal error")
	}
}
