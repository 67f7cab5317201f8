package broadcast

import (
	"github.com/gin-gonic/gin"

	"agent_console/internal/events"
	"agent_console/internal/httpx"
)

// Request is the body for POST /internal/broadcast. Data is forwarded
// untouched, whatever shape the trusted caller chose.
type Request struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Handler returns the trusted-caller re-emit endpoint. An event is sent
// to every connected client; the HTTP caller only learns how many there
// were.
func Handler(bus events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
			return
		}
		if req.Event == "" || req.Data == nil {
			httpx.FailErr(c, httpx.ErrParamMissing("event and data are required"))
			return
		}

		bus.Emit(req.Event, req.Data)
		httpx.OK(c, gin.H{"clients": bus.ConnectionCount()})
	}
}
