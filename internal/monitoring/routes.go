package monitoring

import (
	"errors"
	"fmt"
	"net/http"

	"certifire/internal/api/request"
	"certifire/internal/api/response"
	"certifire/internal/logger"
	"certifire/internal/monitoring/types"

	"github.com/go-chi/chi/v5"
)

type handler struct {
	service *Service
}

func RegisterRoutes(r chi.Router, service *Service) {
	h := &handler{service: service}

	r.Route("/target", func(r chi.Router) {
		r.Post("/", h.createTarget)
		r.Get("/", h.listTargets)
		r.Get("/{id}", h.getTarget)
		r.Delete("/{id}", h.deleteTarget)
	})

	r.Route("/worker", func(r chi.Router) {
		r.Post("/", h.createWorker)
		r.Get("/", h.listWorkers)
		r.Get("/{id}", h.getWorker)
		r.Delete("/{id}", h.deleteWorker)
	})

	r.Post("/monitoring", h.ingest)
}

func (h *handler) createTarget(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTargetRequest

	if err := request.DecodeFormOrJSON(r, &req); err != nil {
		response.WriteStatus(w, http.StatusBadRequest, ErrHostOrIPRequired.Error())
		return
	}

	target := &types.Target{IP: req.IP, Host: req.Host, URL: req.URL, BwURL: req.BwURL}

	if err := h.service.CreateTarget(target); err != nil {
		writeCreateError(w, "target", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/target/%d", target.ID))
	w.Header().Set("target_id", fmt.Sprint(target.ID))
	response.WriteJSON(w, http.StatusCreated, target)
}

func (h *handler) listTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.service.Repository().GetAllTargets()

	if err != nil {
		logger.Error("Failed to list targets: %v", err)
		response.WriteStatus(w, http.StatusInternalServerError, "Internal Error")
		return
	}

	byID := make(map[uint]*types.Target, len(targets))
	for _, target := range targets {
		byID[target.ID] = target
	}

	response.WriteJSON(w, http.StatusOK, byID)
}

func (h *handler) getTarget(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))

	if err != nil {
		response.WriteStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := h.service.Repository().GetTarget(id)

	if err != nil {
		response.WriteStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, target)
}

func (h *handler) deleteTarget(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))

	if err == nil {
		err = h.service.DeleteTarget(id)
	}

	if err != nil {
		logger.Warn("Failed to delete target %s: %v", chi.URLParam(r, "id"), err)
		response.WriteStatus(w, http.StatusBadRequest, "Failed to delete")
		return
	}

	response.WriteStatus(w, http.StatusOK, "Target deleted")
}

func (h *handler) createWorker(w http.ResponseWriter, r *http.Request) {
	var req request.CreateWorkerRequest

	if err := request.DecodeFormOrJSON(r, &req); err != nil {
		response.WriteStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	worker := &types.Worker{
		IP:       req.IP,
		Host:     req.Host,
		Location: req.Location,
		MonSelf:  req.MonSelf,
		MonURL:   req.MonURL,
		BwURL:    req.BwURL,
	}

	if err := h.service.CreateWorker(worker, req.CreateHost); err != nil {
		writeCreateError(w, "worker", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/worker/%d", worker.ID))
	w.Header().Set("worker_id", fmt.Sprint(worker.ID))
	response.WriteJSON(w, http.StatusCreated, worker)
}

func (h *handler) listWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.service.Repository().GetAllWorkers()

	if err != nil {
		logger.Error("Failed to list workers: %v", err)
		response.WriteStatus(w, http.StatusInternalServerError, "Internal Error")
		return
	}

	byID := make(map[uint]*types.Worker, len(workers))
	for _, worker := range workers {
		byID[worker.ID] = worker
	}

	response.WriteJSON(w, http.StatusOK, byID)
}

func (h *handler) getWorker(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))

	if err != nil {
		response.WriteStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	worker, err := h.service.Repository().GetWorker(id)

	if err != nil {
		response.WriteStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, worker)
}

func (h *handler) deleteWorker(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))

	if err == nil {
		err = h.service.DeleteWorker(id)
	}

	if err != nil {
		logger.Warn("Failed to delete worker %s: %v", chi.URLParam(r, "id"), err)
		response.WriteStatus(w, http.StatusBadRequest, "Failed to delete")
		return
	}

	response.WriteStatus(w, http.StatusOK, "Worker deleted")
}

func (h *handler) ingest(w http.ResponseWriter, r *http.Request) {
	var req request.MonitoringDataRequest

	if err := request.Decode(r, &req); err != nil {
		response.WriteStatus(w, http.StatusBadRequest, "Internal Error")
		return
	}

	if err := h.service.Ingest(r.Context(), req.Data); err != nil {
		response.WriteStatus(w, http.StatusUnauthorized, "TSDB Error")
		return
	}

	response.WriteStatus(w, http.StatusCreated, "Data Inserted")
}

func writeCreateError(w http.ResponseWriter, kind string, err error) {
	if errors.Is(err, ErrHostOrIPRequired) || errors.Is(err, ErrLocationRequired) {
		response.WriteStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Error("Failed to create %s: %v", kind, err)
	response.WriteStatus(w, http.StatusBadRequest, "Internal Error")
}
