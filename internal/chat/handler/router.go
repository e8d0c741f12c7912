package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
)

// RouteRegistrar mounts a component's endpoints. Public routes skip auth.
type RouteRegistrar interface {
	RegisterRoutes(public, authed *mux.Router)
}

// NewHTTPRouter serves everything that is not plain RPC: the realtime
// upgrade, media and phone verification.
func NewHTTPRouter(tokens *common.TokenManager, registrars ...RouteRegistrar) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	public := r.PathPrefix("/api/v1").Subrouter()
	authed := r.PathPrefix("/api/v1").Subrouter()
	authed.Use(common.HTTPAuth(tokens, api.WriteError))

	for _, reg := range registrars {
		reg.RegisterRoutes(public, authed)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteError(w, common.ErrNotFound)
	})
	return r
}
