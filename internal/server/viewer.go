package server

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/bspdungeon/internal/replay"
)

const (
	writeWait  = 10 * time.Second
	closeGrace = time.Second
)

// viewer wraps the WebSocket connection of someone watching a replay.
// Viewers only receive; anything they send is read and dropped so control
// frames are processed and a disconnect is noticed.
type viewer struct {
	conn *websocket.Conn
	gone chan struct{}
}

// newViewer starts draining conn. readLimit caps inbound message size; 0 means no limit.
func newViewer(conn *websocket.Conn, readLimit int64) *viewer {
	if readLimit > 0 {
		conn.SetReadLimit(readLimit)
	}
	v := &viewer{
		conn: conn,
		gone: make(chan struct{}),
	}
	go v.drain()
	return v
}

func (v *viewer) drain() {
	defer close(v.gone)
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Gone is closed once the connection can no longer be read.
func (v *viewer) Gone() <-chan struct{} {
	return v.gone
}

// WriteFrame sends f as one JSON text message.
func (v *viewer) WriteFrame(f replay.Frame) error {
	v.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return v.conn.WriteJSON(f)
}

// CloseWith sends a close message and waits briefly for the peer to answer.
// The connection still has to be closed with Close.
func (v *viewer) CloseWith(code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	if err := v.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		return
	}

	select {
	case <-v.gone:
	case <-time.After(closeGrace):
	}
}

// Close drops the connection.
func (v *viewer) Close() error {
	return v.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (v *viewer) RemoteAddr() string {
	return v.conn.RemoteAddr().String()
}
