package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/facts"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/logger"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/metrics"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Size of the buffered progress channel; slow readers drop events
	// rather than stalling the ingest loop.
	progressBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS middleware handles origin policy for the rest of the API.
		return true
	},
}

// StreamMessage is the frame type sent over the progress stream.
type StreamMessage struct {
	Type    string      `json:"type"` // "progress", "done", "error"
	Payload interface{} `json:"payload"`
}

// PopulateProgress handles GET /api/cat-facts/populate/ws (protected). It
// upgrades to a websocket, runs one population and streams per-cycle
// progress frames, then closes with a final "done" frame carrying the run
// summary.
func PopulateProgress(svc Populator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := 50
		if v := r.URL.Query().Get("count"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 100 {
				count = n
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.ErrorContext(r.Context(), "Websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		metrics.ProgressStreamsActive.Inc()
		defer metrics.ProgressStreamsActive.Dec()

		events := make(chan facts.ProgressEvent, progressBuffer)
		done := make(chan struct{})

		// Writer goroutine: the ingest loop must never block on a slow peer.
		go func() {
			defer close(done)
			for ev := range events {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := writeFrame(conn, StreamMessage{Type: "progress", Payload: ev}); err != nil {
					// Peer gone; keep draining so the ingest loop can finish.
					for range events {
					}
					return
				}
			}
		}()

		result, runErr := svc.PopulateWithObserver(r.Context(), count, func(ev facts.ProgressEvent) {
			select {
			case events <- ev:
			default:
				// Drop the event rather than stall ingestion.
			}
		})
		close(events)
		<-done

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if runErr != nil {
			writeFrame(conn, StreamMessage{Type: "error", Payload: runErr.Error()})
		} else {
			writeFrame(conn, StreamMessage{Type: "done", Payload: result})
		}

		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
	}
}

func writeFrame(conn *websocket.Conn, msg StreamMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
