package verification

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, authed *mux.Router) {
	authed.HandleFunc("/verification/request", h.request).Methods(http.MethodPost)
	authed.HandleFunc("/verification/confirm", h.confirm).Methods(http.MethodPost)
}

func (h *Handler) request(w http.ResponseWriter, r *http.Request) {
	actor, _ := common.ActorFromContext(r.Context())

	var req api.VerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, common.Validation("invalid request body"))
		return
	}
	if err := h.svc.RequestCode(r.Context(), actor, req.Phone, r.RemoteAddr); err != nil {
		api.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	actor, _ := common.ActorFromContext(r.Context())

	var req api.VerificationConfirm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, common.Validation("invalid request body"))
		return
	}
	if err := h.svc.ConfirmCode(r.Context(), actor, req.Phone, req.Code, r.RemoteAddr); err != nil {
		api.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
