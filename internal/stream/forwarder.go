// Package stream forwards collected records live over a websocket
// connection so a collector can observe the watch window as it runs.
package stream

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"inwatch/internal/monitor"
)

const defaultWriteDeadline = 10 * time.Second

// Forwarder sends each record as one JSON text frame. It implements
// monitor.Sink.
type Forwarder struct {
	conn          *websocket.Conn
	writeDeadline time.Duration
}

// Dial connects to a ws:// or wss:// endpoint.
func Dial(url string, writeDeadline time.Duration) (*Forwarder, error) {
	if writeDeadline <= 0 {
		writeDeadline = defaultWriteDeadline
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial stream endpoint: %w", err)
	}
	return &Forwarder{conn: conn, writeDeadline: writeDeadline}, nil
}

// Record sends one record, bounded by the write deadline.
func (f *Forwarder) Record(record monitor.Record) error {
	if err := f.conn.SetWriteDeadline(time.Now().Add(f.writeDeadline)); err != nil {
		return fmt.Errorf("set stream deadline: %w", err)
	}
	if err := f.conn.WriteJSON(record); err != nil {
		return fmt.Errorf("stream record: %w", err)
	}
	return nil
}

// Close sends a close frame and releases the connection.
func (f *Forwarder) Close() error {
	if f == nil || f.conn == nil {
		return nil
	}
	deadline := time.Now().Add(f.writeDeadline)
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = f.conn.WriteControl(websocket.CloseMessage, message, deadline)
	return f.conn.Close()
}
