package websocket

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
	"github.com/princekumarofficial/tourism-media-service/internal/utils/response"
	wsClient "github.com/princekumarofficial/tourism-media-service/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Gallery pages are served from other origins
		return true
	},
}

// WebSocketHandler subscribes the connection to one parent's media events
// @Summary Subscribe to media changes
// @Description Upgrades to a WebSocket that receives media.uploaded, media.updated and media.deleted events for one parent
// @Tags realtime
// @Param parent query string true "Parent type, e.g. sanctuary"
// @Param id query int true "Parent ID"
// @Failure 400 {object} response.Response "Bad request"
// @Router /ws [get]
func WebSocketHandler(hub *wsClient.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parent, ok := media.LookupParentType(r.URL.Query().Get("parent"))
		if !ok {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("unknown parent type")))
			return
		}

		parentID, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil || parentID <= 0 {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid parent id")))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("Failed to upgrade WebSocket connection", slog.String("error", err.Error()))
			return
		}

		room := media.Room(parent.Name, parentID)
		client := wsClient.NewClient(conn, room, hub)
		hub.RegisterClient(client)

		client.Start()
	}
}
