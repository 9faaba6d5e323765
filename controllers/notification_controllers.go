package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-orders/kds"
	"github.com/yeremiapane/restaurant-orders/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // board dibuka dari origin mana saja
	},
}

// NotificationController serves the order board's live feed.
type NotificationController struct {
	Hub *kds.Hub
}

func NewNotificationController(hub *kds.Hub) *NotificationController {
	return &NotificationController{Hub: hub}
}

// OrdersFeed upgrades to a websocket and keeps the viewer subscribed until
// it disconnects. Anything the viewer sends is ignored.
func (nc *NotificationController) OrdersFeed(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	sub := nc.Hub.Subscribe(ws)
	defer nc.Hub.Unsubscribe(sub)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
