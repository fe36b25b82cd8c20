package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/middleware"
	"github.com/edunexus-app/backend/internal/service"
	"github.com/edunexus-app/backend/pkg/response"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already filtered by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ChatHandler struct {
	service service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{service: chatService}
}

func (h *ChatHandler) History(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var p dto.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		bindingError(c, err)
		return
	}
	p.Normalize()

	messages, total, err := h.service.History(c.Request.Context(), middleware.CurrentActor(c), courseID, p)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, messages, response.NewMeta(p.Page, p.Limit, total))
}

func (h *ChatHandler) Post(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	message, err := h.service.Post(c.Request.Context(), middleware.CurrentActor(c), courseID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, message)
}

func (h *ChatHandler) MarkSeen(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	messageID, ok := parseUUIDParam(c, "messageId")
	if !ok {
		return
	}

	if err := h.service.MarkSeen(c.Request.Context(), middleware.CurrentActor(c), courseID, messageID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "marked as seen")
}

// Stream upgrades to a websocket and relays new course messages to the
// client. Messages are read-only over the socket; posting goes through
// the REST endpoint.
func (h *ChatHandler) Stream(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c)

	// Membership is checked the same way History does before upgrading,
	// so rejections still produce a proper HTTP status.
	if _, _, err := h.service.History(c.Request.Context(), actor, courseID, dto.Pagination{Page: 1, Limit: 1}); err != nil {
		response.Error(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	messages, cancel, err := h.service.Subscribe(c.Request.Context(), courseID)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscription failed"),
			time.Now().Add(wsWriteWait))
		return
	}
	defer cancel()

	// Drain client frames so close and pong frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, open := <-messages:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
