// SPDX-License-Identifier: MIT
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	applog "audioviz/internal/log"

	"github.com/gorilla/websocket"
)

// WebSocketTransport broadcasts analysis snapshots to connected clients.
// It is the stand-in for the rendering layer: browsers (or anything else)
// connect to /stream and receive JSON frames at the broadcaster's rate.
//
// Thread Safety:
// - The clients map is mutex-guarded
// - Send may be called concurrently with connects/disconnects
type WebSocketTransport struct {
	clients      map[*websocket.Conn]bool
	clientsMutex sync.Mutex
	upgrader     websocket.Upgrader
	server       *http.Server
}

// NewWebSocketTransport creates the transport and starts its HTTP server on
// the given port. The server runs until Close.
func NewWebSocketTransport(port string) *WebSocketTransport {
	t := &WebSocketTransport{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local visualization clients only
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/stream", t.handleWebSocket)
	t.server = &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		applog.Infof("Transport: WebSocket server listening on :%s", port)
		if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
			applog.Errorf("Transport: WebSocket server error: %v", err)
		}
	}()

	return t
}

// handleWebSocket upgrades the connection, registers the client, and
// reaps it when its read loop fails.
func (t *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Warnf("Transport: WebSocket upgrade error: %v", err)
		return
	}

	t.clientsMutex.Lock()
	t.clients[conn] = true
	t.clientsMutex.Unlock()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				t.clientsMutex.Lock()
				delete(t.clients, conn)
				t.clientsMutex.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// Send marshals the snapshot once and writes it to every connected client,
// dropping clients whose writes fail.
func (t *WebSocketTransport) Send(snap *Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	t.clientsMutex.Lock()
	defer t.clientsMutex.Unlock()

	for conn := range t.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(t.clients, conn)
			conn.Close()
		}
	}
	return nil
}

// Close disconnects all clients and shuts down the HTTP server.
func (t *WebSocketTransport) Close() error {
	t.clientsMutex.Lock()
	for conn := range t.clients {
		conn.Close()
		delete(t.clients, conn)
	}
	t.clientsMutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return t.server.Shutdown(ctx)
}

var _ Transport = (*WebSocketTransport)(nil)
