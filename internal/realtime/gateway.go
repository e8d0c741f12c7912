package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
	"communitychat/internal/dbmysql"
)

// SubscribeAuthorizer decides whether an actor may join a room channel.
type SubscribeAuthorizer interface {
	CanSubscribe(ctx context.Context, actor common.Actor, roomID uint64) (*dbmysql.Account, error)
}

// Gateway upgrades /api/v1/realtime requests into room sessions.
type Gateway struct {
	hub      *Hub
	bus      Publisher
	auth     SubscribeAuthorizer
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewGateway(hub *Hub, bus Publisher, auth SubscribeAuthorizer, logger *slog.Logger) *Gateway {
	return &Gateway{
		hub:  hub,
		bus:  bus,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the token travels in the query string, so any origin may connect
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (g *Gateway) RegisterRoutes(public, authed *mux.Router) {
	authed.HandleFunc("/realtime", g.ServeWS).Methods(http.MethodGet)
}

// ServeWS expects an authenticated actor on the request context and a
// room_id query parameter. Rejections are plain HTTP errors; once upgraded
// the first frame is always "subscribed".
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.ActorFromContext(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthenticated)
		return
	}
	roomID, err := strconv.ParseUint(r.URL.Query().Get("room_id"), 10, 64)
	if err != nil || roomID == 0 {
		api.WriteError(w, common.Validation("room_id is required"))
		return
	}

	member, err := g.auth.CanSubscribe(r.Context(), actor, roomID)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("[WS] upgrade failed", "error", err)
		return
	}

	s := newSession(g.hub, g.bus, conn, uuid.NewString(), roomID, actor, member)
	g.hub.register(s)
	if f, err := api.NewFrame(api.FrameSubscribed, "", roomID, api.SubscribedPayload{RoomID: roomID, SessionKey: s.key}); err == nil {
		s.enqueue(f)
	}
	g.logger.Info("[WS] subscribed", "room_id", roomID, "user_id", actor.UserID, "session", s.key)

	go s.writePump()
	s.readPump()
}
