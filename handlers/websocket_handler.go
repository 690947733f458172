package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/bracket-engine/realtime"
	"github.com/Dosada05/bracket-engine/services"
)

// WebSocketHandler subscribes spectators to live updates of one bracket set
// or pool stage.
type WebSocketHandler struct {
	hub               *realtime.Hub
	tournamentService services.TournamentService
	upgrader          websocket.Upgrader
	logger            *slog.Logger
}

// NewWebSocketHandler accepts any origin when allowedOrigins is empty.
func NewWebSocketHandler(hub *realtime.Hub, ts services.TournamentService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		logger:            logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *WebSocketHandler) ServeBracket(w http.ResponseWriter, r *http.Request) {
	setID, ok := urlParam(w, r, "setID")
	if !ok {
		return
	}
	if _, err := h.tournamentService.GetBracketSet(r.Context(), setID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.serve(w, r, realtime.BracketRoom(setID))
}

func (h *WebSocketHandler) ServePools(w http.ResponseWriter, r *http.Request) {
	stageID, ok := urlParam(w, r, "stageID")
	if !ok {
		return
	}
	if _, err := h.tournamentService.GetPoolStage(r.Context(), stageID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.serve(w, r, realtime.PoolRoom(stageID))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("websocket upgrade failed", slog.String("room", room), slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, room)
	select {
	case h.hub.Register <- client:
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
	h.logger.Debug("websocket subscribed", slog.String("room", room))
}
