package auth

import (
	"log/slog"
	"net/http"

	"github.com/smdiallo/presence-management/internal"
	userDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/user"
	"github.com/smdiallo/presence-management/internal/transport"
	"github.com/smdiallo/presence-management/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	UpdateEmail(userID int64, dto UpdateEmailDTO) error
	UpdatePassword(userID int64, dto UpdatePasswordDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	if base == nil {
		lg := logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
		base = transport.NewBaseHandler(lg, nil)
	}
	return &Handler{
		BaseHandler: base,
		Service:     svc,
	}
}

// Login renders the form on GET and authenticates on POST. A failed
// attempt flashes an error and redirects back, never revealing which
// part of the credentials was wrong.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.Render(w, r, "login.html", nil)
		return
	}

	dto := LoginDTO{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	user, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "email", dto.Email)
		h.FlashError(w, r, internal.ErrInvalidCredentials.Message)
		h.Redirect(w, r, "/login")
		return
	}

	if err := h.Sessions.SetUserID(w, r, user.ID); err != nil {
		h.Logger.Error("failed to save session", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.Redirect(w, r, "/")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Clear(w, r); err != nil {
		h.Logger.Error("failed to clear session", "error", err)
	}
	h.Redirect(w, r, "/login")
}

// Settings renders the account settings on GET and applies an email or
// password change on POST, branching on which form was submitted.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())

	if r.Method == http.MethodGet {
		user, err := h.Service.GetByID(userID)
		if err != nil || user == nil {
			h.Logger.Error("failed to load current user", "user_id", userID, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		h.Render(w, r, "settings.html", map[string]any{"Email": user.Email})
		return
	}

	if r.FormValue("update_email") != "" {
		dto := UpdateEmailDTO{Email: r.FormValue("email")}
		if err := h.Service.UpdateEmail(userID, dto); err != nil {
			h.FlashError(w, r, userMessage(err))
		} else {
			h.FlashSuccess(w, r, "Votre e-mail a été mis à jour avec succès.")
		}
		h.Redirect(w, r, "/settings")
		return
	}

	if r.FormValue("update_password") != "" {
		dto := UpdatePasswordDTO{
			CurrentPassword: r.FormValue("current_password"),
			NewPassword:     r.FormValue("new_password"),
			ConfirmPassword: r.FormValue("confirm_password"),
		}
		if err := h.Service.UpdatePassword(userID, dto); err != nil {
			h.FlashError(w, r, userMessage(err))
		} else {
			h.FlashSuccess(w, r, "Votre mot de passe a été mis à jour avec succès.")
		}
		h.Redirect(w, r, "/settings")
		return
	}

	h.Redirect(w, r, "/settings")
}

// userMessage maps an error to the text flashed to the user.
func userMessage(err error) string {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr.Message
	}
	if vErr, ok := err.(ValidationError); ok {
		return vErr.Msg
	}
	return "Une erreur interne est survenue."
}
