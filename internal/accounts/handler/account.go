package handler

import (
	"encoding/json"
	"net/http"

	"railbook/internal/accounts/service"
	apperrors "railbook/pkg/errors"
	httputil "railbook/pkg/http"
	"railbook/pkg/logger"
	"railbook/pkg/middleware"
	"railbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AccountHandler struct {
	service service.AccountService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewAccountHandler(service service.AccountService, auth *middleware.Authenticator, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reg model.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		if writeErr := httputil.WriteBadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Register", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	account, err := h.service.CreateAccount(r.Context(), &reg)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, account); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

// CreateWithRole lets an admin create accounts of any role, admins included.
func (h *AccountHandler) CreateWithRole(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reg model.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		if writeErr := httputil.WriteBadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateWithRole", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	account, err := h.service.CreateAccountWithRole(r.Context(), &reg)
	if err != nil {
		h.writeError(w, "CreateWithRole", err)
		return
	}

	if principal, ok := middleware.PrincipalFromContext(r.Context()); ok {
		h.log.Info("Account created by admin",
			"admin_user_id", principal.UserID,
			"user_id", account.UserID,
			"role", account.Role,
		)
	}

	if err := httputil.WriteCreated(w, account); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateWithRole", "operation", "WriteCreated", "error", err)
	}
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteBadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Login", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	session, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteCreated(w, session); err != nil {
		h.log.Error("failed to write created response", "handler", "Login", "operation", "WriteCreated", "error", err)
	}
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, "Me", apperrors.Unauthorized("missing session"))
		return
	}

	account, err := h.service.GetByID(r.Context(), principal.UserID)
	if err != nil {
		h.writeError(w, "Me", err)
		return
	}

	if err := httputil.WriteSuccess(w, account); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccountHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AccountHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/accounts", h.Register)
	router.POST("/api/v1/admin/accounts", h.auth.RequireRole(model.RoleAdmin, h.CreateWithRole))
	router.POST("/api/v1/sessions", h.Login)
	router.GET("/api/v1/accounts/me", h.auth.Authenticate(h.Me))
}
