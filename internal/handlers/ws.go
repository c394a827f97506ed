// internal/handlers/ws.go
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/perchgames/slaptable/internal/middleware"
	"github.com/perchgames/slaptable/internal/router"
)

// writeTimeout bounds each outbound frame so one stalled client cannot wedge a
// broadcast.
const writeTimeout = 3 * time.Second

// wsConn adapts a coder/websocket connection to the router's Conn interface.
// Each accepted socket gets a process-unique id.
type wsConn struct {
	id string
	c  *websocket.Conn
}

func newWSConn(c *websocket.Conn) *wsConn {
	return &wsConn{id: uuid.NewString(), c: c}
}

func (w *wsConn) ID() string { return w.id }

func (w *wsConn) Send(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return w.c.Write(ctx, websocket.MessageText, data)
}

// WSHandler upgrades the HTTP connection to WebSocket and pumps inbound frames
// into the session router until the client goes away. All cleanup flows
// through Router.HandleDisconnect.
func WSHandler(logger *logrus.Logger, rt *router.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		conn := newWSConn(c)
		middleware.LogWebSocketConnect(logger, conn.ID(), r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readErr := readFrames(ctx, c, conn, rt, logger)

		rt.HandleDisconnect(conn)
		middleware.LogWebSocketDisconnect(logger, conn.ID(), r.RemoteAddr, readErr)
	}
}

// readFrames blocks reading text frames and handing them to the router. It
// returns nil on a clean close and the read error otherwise.
func readFrames(ctx context.Context, c *websocket.Conn, conn *wsConn, rt *router.Router, logger *logrus.Logger) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			logger.Debugf("ignoring non-text message type %d from conn %s", typ, conn.ID())
			continue
		}
		rt.HandleMessage(conn, data)
	}
}
