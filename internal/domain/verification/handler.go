package verification

import (
	"errors"
	"net/http"

	"github.com/vipadmin/vipadmin-api/internal/middleware"
	"github.com/vipadmin/vipadmin-api/internal/pkg/errorhandler"
	"github.com/vipadmin/vipadmin-api/internal/pkg/jwt"
	"github.com/vipadmin/vipadmin-api/internal/pkg/response"
	"github.com/vipadmin/vipadmin-api/internal/pkg/validator"
)

// Handler handles verification HTTP requests
type Handler struct {
	service *Service
	appName string
}

// NewHandler creates verification handler
func NewHandler(service *Service, appName string) *Handler {
	return &Handler{service: service, appName: appName}
}

// GetCaptcha handles GET /captcha
// @Summary Issue an image captcha
// @Tags Verification
// @Produce json
// @Success 200 {object} response.Response{data=CaptchaResponse}
// @Failure 500 {object} response.Response
// @Router /verification/captcha [get]
func (h *Handler) GetCaptcha(w http.ResponseWriter, r *http.Request) {
	challenge, err := h.service.IssueImageChallenge(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to issue captcha")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	response.OK(w, CaptchaResponse{
		CaptchaID: challenge.ID,
		Image:     challenge.DataURI(),
		ExpiresIn: int(challenge.ExpiresIn.Seconds()),
	})
}

// VerifyCaptcha handles POST /captcha/verify
// The challenge is consumed whether or not the code matches.
func (h *Handler) VerifyCaptcha(w http.ResponseWriter, r *http.Request) {
	var req VerifyCaptchaRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	valid, err := h.service.ValidateImageChallenge(r.Context(), req.CaptchaID, req.Code)
	if err != nil {
		h.writeError(w, r, err, "Failed to verify captcha")
		return
	}

	response.OK(w, ValidResponse{Valid: valid})
}

// SendEmailCode handles POST /email-code
// @Summary Send an email verification code
// @Description Requires a solved image captcha. Codes can be re-requested once the resend cooldown has passed.
// @Tags Verification
// @Accept json
// @Produce json
// @Param body body SendEmailCodeRequest true "Recipient and captcha answer"
// @Success 200 {object} response.Response{data=SendEmailCodeResponse}
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /verification/email-code [post]
func (h *Handler) SendEmailCode(w http.ResponseWriter, r *http.Request) {
	var req SendEmailCodeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ctx := r.Context()

	solved, err := h.service.ValidateImageChallenge(ctx, req.CaptchaID, req.CaptchaCode)
	if err != nil {
		h.writeError(w, r, err, "Failed to verify captcha")
		return
	}
	if !solved {
		response.Error(w, http.StatusBadRequest, "INVALID_CAPTCHA", "Captcha is invalid or expired")
		return
	}

	app := AppContext{AppName: h.appName, ClientIP: middleware.GetClientIP(ctx)}
	if err := h.service.IssueEmailCode(ctx, req.Email, app); err != nil {
		h.writeError(w, r, err, "Failed to send verification code")
		return
	}

	cfg := h.service.Config()
	response.OK(w, SendEmailCodeResponse{
		Sent:        true,
		ExpiresIn:   int(cfg.EmailCodeExpire.Seconds()),
		ResendAfter: int(cfg.EmailResendWait.Seconds()),
	})
}

// VerifyEmailCode handles POST /email-code/verify
// A valid code is consumed and exchanged for a verification ticket.
func (h *Handler) VerifyEmailCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailCodeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	valid, err := h.service.ValidateEmailCode(r.Context(), req.Email, req.Code)
	if err != nil {
		h.writeError(w, r, err, "Failed to verify code")
		return
	}
	if !valid {
		response.OK(w, ValidResponse{Valid: false})
		return
	}

	ticket, expiresAt, err := h.service.IssueVerificationTicket(req.Email)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue verification ticket", err)
		return
	}

	response.OK(w, ValidResponse{Valid: true, Ticket: ticket, TicketExpiresAt: &expiresAt})
}

// VerifyTicket handles POST /ticket/verify
func (h *Handler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	var req VerifyTicketRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	email, err := h.service.ParseVerificationTicket(req.Ticket)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrExpiredToken):
			response.Error(w, http.StatusUnauthorized, "TICKET_EXPIRED", "Verification ticket has expired")
		case errors.Is(err, jwt.ErrInvalidToken):
			response.Error(w, http.StatusUnauthorized, "INVALID_TICKET", "Verification ticket is invalid")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to parse verification ticket", err)
		}
		return
	}

	response.OK(w, TicketResponse{Email: email})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var rateLimited *RateLimitedError
	switch {
	case errors.As(err, &rateLimited):
		response.TooManyRequests(w, rateLimited.Error(), rateLimited.Seconds())
	case errors.Is(err, ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrDelivery):
		errorhandler.HandleError(r.Context(), w, http.StatusBadGateway, "DELIVERY_FAILED", "Could not deliver the verification code, please try again", err)
	case errors.Is(err, ErrStore):
		errorhandler.HandleError(r.Context(), w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Verification is temporarily unavailable", err)
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", msg, err)
	}
}
