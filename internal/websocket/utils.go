package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write; a stalled client loses the
	// stream rather than blocking the session.
	writeWait = 10 * time.Second
	// readWait is generous: a candidate may sit on one question for a long
	// time between autosaves. Pings reset it.
	readWait = 5 * time.Minute
)

// WriteTyped marshals one event payload onto the connection with a write
// deadline. Callers must serialize writes; gorilla allows one writer.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteError emits an error event with the given message.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON decodes the next client frame into v, refreshing the read
// deadline first.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(readWait))
	return conn.ReadJSON(v)
}
