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

var (
	emailRegexp   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	otpCodeRegexp = regexp.MustCompile(`^\d{6}$`)
)

type AuthController struct {
	Logger       *slog.Logger
	Service      domain.AuthService
	Notification domain.NotificationService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService, notification domain.NotificationService) *AuthController {
	return &AuthController{
		Logger:       logger,
		Service:      svc,
		Notification: notification,
	}
}

// SignUpRequest is the request body for POST /auth/register.
type SignUpRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Role        string   `json:"role"` // optional: student, club, tnp, admin (defaults to student)
	Interests   []string `json:"interests"`
	Photo       string   `json:"photo"`
	Description string   `json:"description"`
}

// Validate implements helpers.Validator.
func (s *SignUpRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(s.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	} else if len(s.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	role := strings.TrimSpace(strings.ToLower(s.Role))
	if role != "" && !domain.ValidRole(role) {
		errs = append(errs, "role must be one of student, club, tnp, admin")
	}
	return errs
}

// AuthSuccessResponse is the success response envelope for POST /auth/register and POST /auth/login.
type AuthSuccessResponse struct {
	Data  *AuthPayload      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AuthPayload carries the issued token and the user.
type AuthPayload struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Creates a user with name, email, password, optional role (defaults to student), interests, and photo URL. Returns a JWT and the created user.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body controllers.SignUpRequest true "Sign-up data"
// @Success 201 {object} controllers.AuthSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict (email already in use)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/register [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := c.Service.SignUp(r.Context(), req.Name, req.Email, req.Password, req.Role, req.Interests, req.Photo, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeConflict, "email already in use")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, &AuthPayload{Token: token, TokenType: "Bearer", User: user})
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements helpers.Validator.
func (l *LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT containing user id, email, and role.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body controllers.LoginRequest true "Login credentials"
// @Success 200 {object} controllers.AuthSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &AuthPayload{Token: token, TokenType: "Bearer", User: user})
}

// UpdateProfileRequest is the request body for PUT /auth/profile. Absent
// fields are left unchanged.
type UpdateProfileRequest struct {
	Name      *string  `json:"name"`
	Photo     *string  `json:"photo"`
	Interests []string `json:"interests"`
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Description Updates name, photo URL, and interests for the authenticated user. Absent fields are left unchanged.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/profile [put]
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	user, err := c.Service.UpdateProfile(r.Context(), userID, domain.ProfileUpdate{
		Name:      req.Name,
		Photo:     req.Photo,
		Interests: req.Interests,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// SendOTP godoc
// @Summary Send a one-time code to the current user
// @Description Generates a 6-digit code with a 10-minute expiry, replaces any pending code, and emails it to the authenticated user.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error (includes delivery failure)"
// @Router /auth/send-otp [post]
func (c *AuthController) SendOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Notification.IssueOTP(r.Context(), userID); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to send code")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "code sent"})
}

// VerifyOTPRequest is the request body for POST /auth/verify-otp.
type VerifyOTPRequest struct {
	Code string `json:"code"`
}

// Validate implements helpers.Validator.
func (v *VerifyOTPRequest) Validate() []string {
	code := strings.TrimSpace(v.Code)
	if code == "" {
		return []string{"code is required"}
	}
	if !otpCodeRegexp.MatchString(code) {
		return []string{"code must be 6 digits"}
	}
	v.Code = code
	return nil
}

// VerifyOTP godoc
// @Summary Verify a one-time code
// @Description Verifies the 6-digit code for the authenticated user. data.result is "valid", "invalid", or "expired". A valid or expired code is consumed; a mismatched code may be retried.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.VerifyOTPRequest true "The 6-digit code"
// @Success 200 {object} helpers.APIResponse "data contains result: valid | invalid | expired"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/verify-otp [post]
func (c *AuthController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	result, err := c.Notification.VerifyOTP(r.Context(), userID, req.Code)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"result": result.String()})
}
