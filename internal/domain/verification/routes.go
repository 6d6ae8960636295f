package verification

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns verification router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/captcha", h.GetCaptcha)
	r.Post("/captcha/verify", h.VerifyCaptcha)

	r.Post("/email-code", h.SendEmailCode)
	r.Post("/email-code/verify", h.VerifyEmailCode)

	r.Post("/ticket/verify", h.VerifyTicket)

	return r
}
