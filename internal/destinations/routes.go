package destinations

import (
	"errors"
	"fmt"
	"net/http"

	"certifire/internal/api/request"
	"certifire/internal/api/response"
	"certifire/internal/delivery"
	"certifire/internal/destinations/types"
	"certifire/internal/logger"
	"certifire/internal/ssh"

	"github.com/go-chi/chi/v5"
)

type handler struct {
	service  *Service
	delivery *delivery.Service
}

func RegisterRoutes(r chi.Router, service *Service, deliveryService *delivery.Service) {
	h := &handler{service: service, delivery: deliveryService}

	r.Route("/destination", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/certificate", h.deliverCertificate)
		r.Post("/{id}/challenge", h.deliverChallenge)
		r.Delete("/{id}/challenge", h.withdrawChallenge)
	})
}

// statusFor maps destination and delivery errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case ssh.IsConnectivityError(err), errors.Is(err, delivery.ErrTransfer):
		return http.StatusBadGateway
	case ssh.IsConfigError(err), ssh.IsAuthError(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrDestinationNotFound),
		errors.Is(err, ErrHostRequired),
		errors.Is(err, ErrInvalidExportFormat),
		errors.Is(err, delivery.ErrMissingCertificate),
		errors.Is(err, delivery.ErrMissingToken):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	logger.Error("[%s] %s failed (%d): %v", r.Method, r.URL.Path, status, err)

	response.WriteError(w, status, err.Error())
}

func (h *handler) destination(w http.ResponseWriter, r *http.Request) (*types.Destination, bool) {
	id, err := request.RequireID(chi.URLParam(r, "id"))

	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	destination, err := h.service.Repository().Get(id)

	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}

	return destination, true
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDestinationRequest

	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	destination := &types.Destination{
		Host:                       req.Host,
		Port:                       req.Port,
		User:                       req.User,
		Password:                   req.Password,
		PrivateKeyPath:             req.PrivateKeyPath,
		Passphrase:                 req.Passphrase,
		ChallengeDestinationPath:   req.ChallengeDestinationPath,
		CertificateDestinationPath: req.CertificateDestinationPath,
		ExportFormat:               types.ExportFormat(req.ExportFormat),
		SkipVerify:                 req.SkipVerify,
		StrictHostKeyChecking:      req.StrictHostKeyChecking,
		KnownHostsPath:             req.KnownHostsPath,
		Domains:                    req.Domains,
	}

	if err := h.service.Create(r.Context(), destination); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/destination/%d", destination.ID))
	w.Header().Set("destination_id", fmt.Sprint(destination.ID))
	response.WriteJSON(w, http.StatusCreated, destination)
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.service.Repository().GetAll()

	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	byID := make(map[uint]*types.Destination, len(destinations))
	for _, destination := range destinations {
		byID[destination.ID] = destination
	}

	response.WriteJSON(w, http.StatusOK, byID)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	destination, ok := h.destination(w, r)

	if !ok {
		return
	}

	response.WriteJSON(w, http.StatusOK, destination)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.destination(w, r)

	if !ok {
		return
	}

	var req request.UpdateDestinationRequest

	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	strict := existing.StrictHostKeyChecking
	if req.StrictHostKeyChecking != nil {
		strict = *req.StrictHostKeyChecking
	}

	updated, err := h.service.Update(r.Context(), existing.ID, &types.Destination{
		Host:                       req.Host,
		Port:                       req.Port,
		User:                       req.User,
		Password:                   req.Password,
		PrivateKeyPath:             req.PrivateKeyPath,
		Passphrase:                 req.Passphrase,
		ChallengeDestinationPath:   req.ChallengeDestinationPath,
		CertificateDestinationPath: req.CertificateDestinationPath,
		ExportFormat:               types.ExportFormat(req.ExportFormat),
		SkipVerify:                 req.SkipVerify,
		StrictHostKeyChecking:      strict,
		KnownHostsPath:             req.KnownHostsPath,
		Domains:                    req.Domains,
	})

	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, updated)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))

	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Delete(id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteStatus(w, http.StatusOK, "Destination deleted")
}

func (h *handler) deliverCertificate(w http.ResponseWriter, r *http.Request) {
	destination, ok := h.destination(w, r)

	if !ok {
		return
	}

	var req request.DeliverCertificateRequest

	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.delivery.DeliverCertificate(r.Context(), destination, []byte(req.PrivateKey), []byte(req.Body), []byte(req.Chain))

	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteStatus(w, http.StatusCreated, "Certificate delivered")
}

func (h *handler) deliverChallenge(w http.ResponseWriter, r *http.Request) {
	destination, ok := h.destination(w, r)

	if !ok {
		return
	}

	var req request.ChallengeTokenRequest

	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.delivery.DeliverChallengeToken(r.Context(), destination, req.TokenPath, req.Token, req.DstPath); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteStatus(w, http.StatusCreated, "Challenge token delivered")
}

func (h *handler) withdrawChallenge(w http.ResponseWriter, r *http.Request) {
	destination, ok := h.destination(w, r)

	if !ok {
		return
	}

	var req request.WithdrawChallengeTokenRequest

	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.delivery.WithdrawChallengeToken(r.Context(), destination, req.TokenPath, req.DstPath); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteStatus(w, http.StatusOK, "Challenge token withdrawn")
}
