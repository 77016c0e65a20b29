package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/montoya-e/laked/internal/api"
	"github.com/montoya-e/laked/internal/core/ports"
)

type WebsocketHandler struct {
	authorizerService ports.AuthorizerServiceInterface
	logManager        ports.LogManagerInterface
}

func NewWebsocketHandler(
	authorizerService ports.AuthorizerServiceInterface,
	logManager ports.LogManagerInterface,
) *WebsocketHandler {
	return &WebsocketHandler{
		authorizerService,
		logManager,
	}
}

// @Summary Create a single-use token for the websocket endpoint
// @ID createToken
// @Tags websocket, laked, daemon
// @Accept json
// @Produce json
// @Success 200 {object} api.TokenResponse
// @Router /api/v1/token [get]
func (wh WebsocketHandler) CreateToken(c *fiber.Ctx) error {
	token := wh.authorizerService.GenerateQueryToken()

	return c.JSON(api.TokenResponse{Token: token})
}

type websocketWriter interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// HandleLogs streams every job log line to the connected client until
// it disconnects or the hub closes.
func (wh WebsocketHandler) HandleLogs(c *websocket.Conn) {
	subscription := wh.logManager.Subscribe()

	//read pump, only there to notice the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	wh.streamLines(c, subscription, closed)
}

func (wh WebsocketHandler) streamLines(conn websocketWriter, subscription chan *[]byte, closed <-chan struct{}) {
	for {
		select {
		case <-closed:
			wh.logManager.Unsubscribe(subscription)
			conn.Close()
			return
		case buffer := <-subscription:
			//if nil is sent, assume the hub is closed
			if buffer == nil {
				conn.Close()
				return
			}
			err := conn.WriteMessage(websocket.TextMessage, *buffer)
			if err != nil {
				wh.logManager.Unsubscribe(subscription)
				conn.Close()
				return
			}
		}
	}
}
