package httpx

import (
	"net/http"

	"github.com/smartpdf/ui-api/internal/domain/model"
	"github.com/smartpdf/ui-api/internal/service"
)

// AuthHandlers serves the account endpoints: registration, activation,
// login, password reset, and profile.
type AuthHandlers struct {
	Svc  *service.AuthService
	Auth *Authenticator
}

// loginResponse mirrors the token payload the SPA consumes.
type loginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Profile      profilePayload `json:"profile"`
}

type profilePayload struct {
	User *model.User `json:"user"`
}

func (h *AuthHandlers) writeLoginResult(w http.ResponseWriter, res *service.LoginResult) {
	h.Auth.SetSessionCookie(w, res.Session)
	WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		Profile:      profilePayload{User: res.User},
	})
}

// Register handles POST /api/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.Register(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, profilePayload{User: user})
}

type activateRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Activate handles POST /api/accounts/activate.
func (h *AuthHandlers) Activate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Activate(r.Context(), req.Email, req.OTP)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	h.writeLoginResult(w, res)
}

type emailRequest struct {
	Email string `json:"email"`
}

// ResendOTP handles POST /api/accounts/resend-otp.
func (h *AuthHandlers) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.ResendOTP(r.Context(), req.Email); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	h.writeLoginResult(w, res)
}

// Logout handles POST /api/logout. The auth middleware guarantees a session.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if err := h.Svc.Logout(r.Context(), session.ID); err != nil {
		WriteAppError(w, err)
		return
	}
	// Expire the browser cookie alongside the server-side session.
	h.Auth.ClearSessionCookie(w)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOTP handles POST /api/otp/create (password-reset codes).
func (h *AuthHandlers) CreateOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.IssueResetOTP(r.Context(), req.Email); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP handles POST /api/otp/verify.
func (h *AuthHandlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.VerifyResetOTP(r.Context(), req.Email, req.OTP); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// ResetPassword handles POST /api/password-reset/confirm.
func (h *AuthHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles POST /api/password-change.
func (h *AuthHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	session := GetSessionFromContext(r.Context())
	if err := h.Svc.ChangePassword(r.Context(), session.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetProfile handles GET /api/profile.
func (h *AuthHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	user, err := h.Svc.GetProfile(r.Context(), session.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, profilePayload{User: user})
}

// UpdateProfile handles PUT /api/profile.
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	session := GetSessionFromContext(r.Context())
	user, err := h.Svc.UpdateProfile(r.Context(), session.UserID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, profilePayload{User: user})
}
