package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler pushes refresh signals to connected dashboards so they re-pull
// after a background refresh or a workflow-triggered reload lands.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 64 * 1024

	// Keep-alive for cloud hosting proxies that drop idle connections.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		log.Printf("✅ Dashboard client connected: %s", s.Request.RemoteAddr)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		log.Printf("🔌 Dashboard client disconnected: %s", s.Request.RemoteAddr)
	})
	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request to a WebSocket session.
func (h *WSHandler) HandleWS(c *gin.Context) {
	if err := h.M.HandleRequest(c.Writer, c.Request); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastRefresh tells every connected client one dataset's snapshot was
// replaced. Clients re-fetch; no data rides on the signal itself.
func (h *WSHandler) BroadcastRefresh(dataset string) {
	msg, _ := json.Marshal(map[string]string{"type": "refresh", "dataset": dataset})
	if err := h.M.Broadcast(msg); err != nil {
		log.Printf("⚠️ Error broadcasting refresh for %q: %v", dataset, err)
	}
}
