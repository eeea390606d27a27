package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterRequest is the request body for POST /registrations.
type RegisterRequest struct {
	EventID string `json:"eventId"`
}

// Validate implements helpers.Validator.
func (r *RegisterRequest) Validate() []string {
	id := strings.TrimSpace(r.EventID)
	if id == "" {
		return []string{"eventId is required"}
	}
	if !uuidRegex.MatchString(id) {
		return []string{"invalid eventId"}
	}
	r.EventID = id
	return nil
}

// RegisterSuccessResponse is the success response envelope for POST /registrations (200 or 201).
type RegisterSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Register godoc
// @Summary Register the current student for an event
// @Description Registers the authenticated student for the event. Returns 201 when a new registration is created, 200 when a cancelled registration is revived (same record, same id). An active registration yields 400 with error.code conflict and no mutation.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.RegisterRequest true "Event to register for"
// @Success 200 {object} controllers.RegisterSuccessResponse "Cancelled registration revived"
// @Success 201 {object} controllers.RegisterSuccessResponse "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict (already registered)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, created, err := c.Service.Register(r.Context(), req.EventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeConflict, "already registered for this event")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if created {
		helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Sets the registration's status to cancelled. Only the owning student may cancel. Cancelling an already-cancelled registration is a no-op success.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.RegisterSuccessResponse "Cancelled registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/cancel [patch]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationID")
	if registrationID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing registrationID")
		return
	}
	if !uuidRegex.MatchString(registrationID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid registrationID")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := c.Service.Cancel(r.Context(), registrationID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not authorized")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// ListMineSuccessResponse is the success response envelope for GET /registrations/my-registrations (200).
type ListMineSuccessResponse struct {
	Data  []*domain.RegistrationWithEvent `json:"data"`
	Error *helpers.APIError               `json:"error"`
}

// ListMine godoc
// @Summary Get the current student's registrations
// @Description Returns the authenticated student's registrations joined with their events, most recently created first. An empty list is a valid result.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMineSuccessResponse "data is an array of registration + event objects"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/my-registrations [get]
func (c *RegistrationController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	items, err := c.Service.ListForStudent(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if items == nil {
		items = []*domain.RegistrationWithEvent{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// ListForEventSuccessResponse is the success response envelope for GET /registrations/event/{eventID} (200).
type ListForEventSuccessResponse struct {
	Data  []*domain.RegistrationWithStudent `json:"data"`
	Error *helpers.APIError                 `json:"error"`
}

// ListForEvent godoc
// @Summary Get an event's registrations
// @Description Returns the event's registrations joined with student summaries. Restricted to club, tnp, and admin roles.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListForEventSuccessResponse "data is an array of registration + student objects"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/event/{eventID} [get]
func (c *RegistrationController) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	role, ok := middleware.RoleFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	items, err := c.Service.ListForEvent(r.Context(), eventID, role)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if items == nil {
		items = []*domain.RegistrationWithStudent{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}
