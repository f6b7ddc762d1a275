package handler

import (
	"net/http"

	"railbook/internal/reservations/service"
	apperrors "railbook/pkg/errors"
	httputil "railbook/pkg/http"
	"railbook/pkg/logger"
	"railbook/pkg/middleware"
	"railbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, auth *middleware.Authenticator, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

// ListMine returns the caller's booking history, newest first.
func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, "ListMine", apperrors.Unauthorized("missing session"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	reservations, total, err := h.service.ListByUser(r.Context(), principal.UserID, limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "operation", "WritePaginated", "error", err)
	}
}

// GetByID hides reservations owned by other users behind NOT_FOUND unless the
// caller is an admin.
func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, "GetByID", apperrors.Unauthorized("missing session"))
		return
	}

	id := ps.ByName("id")
	reservation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if reservation.UserID != principal.UserID && !principal.IsAdmin() {
		h.writeError(w, "GetByID", apperrors.NotFoundWithID("Reservation", id))
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetLatestByTrain(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	trainNumber, err := httputil.ParseInt64Param("train_number", r.URL.Query().Get("train_number"))
	if err != nil {
		h.writeError(w, "GetLatestByTrain", err)
		return
	}

	reservation, err := h.service.FindLatestByTrain(r.Context(), trainNumber)
	if err != nil {
		h.writeError(w, "GetLatestByTrain", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetLatestByTrain", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reservations", h.auth.Authenticate(h.ListMine))
	router.GET("/api/v1/reservations/id/:id", h.auth.Authenticate(h.GetByID))
	router.GET("/api/v1/reservations/latest", h.auth.RequireRole(model.RoleAdmin, h.GetLatestByTrain))
}
