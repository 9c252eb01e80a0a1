package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// frame is the only message shape sent on a stream socket
type frame struct {
	Type  string `json:"type"`
	Data  string `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

const (
	frameToken  = "token"
	frameResult = "result"
	frameError  = "error"
)

// socketHandler forwards tokens as frames. It implements llm.StreamHandler.
type socketHandler struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (h *socketHandler) OnToken(ctx context.Context, token string) error {
	return h.send(frame{Type: frameToken, Data: token})
}

func (h *socketHandler) send(f frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return h.conn.WriteJSON(f)
}

func (h *socketHandler) finish(result string, err error) {
	if err != nil {
		h.send(frame{Type: frameError, Error: err.Error()})
	} else {
		h.send(frame{Type: frameResult, Data: result})
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

// stream upgrades the connection, reads one request frame into req and
// hands a socket handler to run.
func (s *Server) stream(c *gin.Context, req any, run func(ctx context.Context, h *socketHandler) (string, error)) {
	log := requestLogger(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	h := &socketHandler{conn: conn}
	if err := conn.ReadJSON(req); err != nil {
		log.Error("invalid stream request: %v", err)
		h.finish("", err)
		return
	}

	result, err := run(c.Request.Context(), h)
	if err != nil {
		log.Error("%s failed: %v", c.Request.URL.Path, err)
	}
	h.finish(result, err)
}

func (s *Server) handleAskStream(c *gin.Context) {
	var req askRequest
	s.stream(c, &req, func(ctx context.Context, h *socketHandler) (string, error) {
		return s.chat.AskStream(ctx, req.Question, h)
	})
}

func (s *Server) handleFBFSStream(c *gin.Context) {
	var req fbfsRequest
	s.stream(c, &req, func(ctx context.Context, h *socketHandler) (string, error) {
		return s.fbfs.GenerateStream(ctx, req.FishBigger, req.FishSmaller, h)
	})
}
