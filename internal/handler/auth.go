package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/gocart-dev/gocart/internal/domain"
	"github.com/gocart-dev/gocart/internal/utils"
)

const refreshCookieName = "refresh_token"

type userResponse struct {
	Id       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{Id: user.Id, Email: user.Email, FullName: user.FullName, Role: string(user.Role)}
}

type registerRequest struct {
	Email    string `validate:"required,email" json:"email"`
	FullName string `validate:"required" json:"full_name"`
	Password string `validate:"required" json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, err := h.auth.Register(body.Email, body.FullName, body.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, toUserResponse(user))
}

// Login accepts the OAuth2 password form (username carries the email) and
// returns a token pair. The refresh token is additionally set as an HttpOnly
// cookie for the logout flow.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	pair, err := h.auth.Login(email, password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		MaxAge:   int(h.cfg.Public.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, pair)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, toUserResponse(*user))
}

type changePasswordRequest struct {
	CurrentPassword string `validate:"required" json:"current_password"`
	NewPassword     string `validate:"required" json:"new_password"`
	ConfirmPassword string `validate:"required" json:"confirm_password"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var body changePasswordRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.ChangePassword(*user, body.CurrentPassword, body.NewPassword, body.ConfirmPassword); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, messageResponse{Message: "Password updated successfully"})
}

type forgotPasswordRequest struct {
	Email string `validate:"required,email" json:"email"`
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body forgotPasswordRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.ForgotPassword(body.Email); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, messageResponse{Message: "Password reset email sent."})
}

type resetPasswordRequest struct {
	Token           string
	NewPassword     string
	ConfirmPassword string
}

// ResetPassword consumes the form posted from the reset page.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	body := resetPasswordRequest{
		Token:           r.PostForm.Get("token"),
		NewPassword:     r.PostForm.Get("new_password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}
	if body.Token == "" || body.NewPassword == "" {
		http.Error(w, "token and new_password are required", http.StatusBadRequest)
		return
	}

	if err := h.auth.ResetPassword(body.Token, body.NewPassword, body.ConfirmPassword); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, messageResponse{Message: "Password has been reset successfully"})
}

// RefreshToken reads the refresh token from the form body, query string or the
// login cookie, in that order.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.FormValue(refreshCookieName)
	if refreshToken == "" {
		if cookie, err := r.Cookie(refreshCookieName); err == nil {
			refreshToken = cookie.Value
		}
	}
	if refreshToken == "" {
		http.Error(w, "refresh_token is required", http.StatusBadRequest)
		return
	}

	pair, err := h.auth.Refresh(refreshToken)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, pair)
}

// Logout revokes the bearer access token together with the refresh token from
// the login cookie, then deletes the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	accessToken, err := utils.BearerToken(r)
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		http.Error(w, "No refresh token cookie", http.StatusBadRequest)
		return
	}

	if err := h.auth.Logout(accessToken, cookie.Value); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     refreshCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, messageResponse{Message: "Logged out"})
}
