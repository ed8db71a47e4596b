package handler

import (
	"html/template"
	"net/http"

	"github.com/gocart-dev/gocart/internal/logger"
)

// Minimal self-contained page so the reset flow works without any frontend.
var resetFormTemplate = template.Must(template.New("reset_form").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<title>Reset Your Password</title>
<style>
  body { margin: 0; font-family: sans-serif; background: #f5f7fa; display: flex; align-items: center; justify-content: center; height: 100vh; }
  .container { background: #fff; padding: 2rem; border-radius: 8px; box-shadow: 0 4px 12px rgba(0,0,0,0.08); width: 100%; max-width: 400px; }
  h2 { margin-bottom: 1.5rem; text-align: center; color: #333; }
  input[type="password"] { width: 100%; padding: 0.75rem; margin-bottom: 1rem; border: 1px solid #ccc; border-radius: 4px; box-sizing: border-box; }
  button { width: 100%; padding: 0.75rem; background: #007bff; color: #fff; border: none; border-radius: 4px; cursor: pointer; }
  button:hover { background: #0056b3; }
  .note { margin-top: 1rem; font-size: 0.875rem; color: #666; text-align: center; }
</style>
</head>
<body>
<div class="container">
  <h2>Reset Your Password</h2>
  <form action="/v1/reset-password" method="post">
    <input type="hidden" name="token" value="{{.Token}}" />
    <input type="password" name="new_password" placeholder="Enter your new password" required />
    <input type="password" name="confirm_password" placeholder="Confirm your new password" required />
    <button type="submit">Reset Password</button>
  </form>
  <p class="note">This link is valid for {{.ValidMinutes}} minutes from the time it was requested.</p>
</div>
</body>
</html>
`))

// ResetPasswordForm serves the HTML page the reset email links to. The token
// is not verified here; the POST will reject a bad one.
func (h *Handler) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token query parameter is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := resetFormTemplate.Execute(w, struct {
		Token        string
		ValidMinutes int
	}{
		Token:        token,
		ValidMinutes: int(h.cfg.Public.ResetTokenTTL.Minutes()),
	})
	if err != nil {
		logger.Log.Error("failed to render reset form", "error", err)
	}
}
