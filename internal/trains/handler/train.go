package handler

import (
	"encoding/json"
	"net/http"

	"railbook/internal/trains/service"
	httputil "railbook/pkg/http"
	"railbook/pkg/logger"
	"railbook/pkg/middleware"
	"railbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type TrainHandler struct {
	service service.TrainService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewTrainHandler(service service.TrainService, auth *middleware.Authenticator, log *logger.Logger) *TrainHandler {
	return &TrainHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *TrainHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var train model.TrainSchedule
	if err := json.NewDecoder(r.Body).Decode(&train); err != nil {
		if writeErr := httputil.WriteBadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateSchedule(r.Context(), &train); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, train); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *TrainHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	trains, err := h.service.SearchRoutes(r.Context(), query.Get("source"), query.Get("destination"))
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WriteSuccess(w, trains); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TrainHandler) GetByNumber(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	trainNumber, err := httputil.ParseInt64Param("train number", ps.ByName("number"))
	if err != nil {
		h.writeError(w, "GetByNumber", err)
		return
	}

	train, err := h.service.GetSchedule(r.Context(), trainNumber)
	if err != nil {
		h.writeError(w, "GetByNumber", err)
		return
	}

	if err := httputil.WriteSuccess(w, train); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByNumber", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TrainHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	trains, total, err := h.service.ListSchedules(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, trains, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *TrainHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *TrainHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/trains", h.GetAll)
	router.POST("/api/v1/trains", h.auth.RequireRole(model.RoleAdmin, h.Create))
	router.GET("/api/v1/trains/search", h.Search)
	router.GET("/api/v1/trains/number/:number", h.GetByNumber)
}
