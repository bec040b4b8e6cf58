package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"reposcope/internal/analysis"
	"reposcope/internal/store"
)

// handleWatch dispatches /analyze/{uuid} to the SSE stream and
// /analyze/{uuid}/ws to the websocket variant of the same stream.
func (s *apiServer) handleWatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/analyze/")
	if strings.HasSuffix(rest, "/ws") {
		s.watchWS(w, r, strings.TrimSuffix(rest, "/ws"))
		return
	}
	s.watchSSE(w, r, rest)
}

func (s *apiServer) loadJob(w http.ResponseWriter, r *http.Request, jobID string) (store.Job, bool) {
	if jobID == "" || strings.Contains(jobID, "/") {
		http.Error(w, "repository id required", http.StatusBadRequest)
		return store.Job{}, false
	}
	job, err := s.store.Job(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Repository "+jobID+" not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return store.Job{}, false
	}
	return job, true
}

// watchSSE runs the analysis and streams its events as Server-Sent Events.
func (s *apiServer) watchSSE(w http.ResponseWriter, r *http.Request, jobID string) {
	job, ok := s.loadJob(w, r, jobID)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	events := make(chan analysis.Event, 16)
	go func() {
		defer close(events)
		s.analysis.Run(ctx, job, func(ev analysis.Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		})
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()

			// Close on terminal events
			if ev.EventType == analysis.EventCompleted || ev.EventType == analysis.EventError {
				return
			}
		}
	}
}

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// watchWS runs the analysis over a websocket, one JSON event per message.
// All writes go through a single writer goroutine that also keeps the
// connection alive with pings.
func (s *apiServer) watchWS(w http.ResponseWriter, r *http.Request, jobID string) {
	job, ok := s.loadJob(w, r, jobID)
	if !ok {
		return
	}

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		log.Printf("watch ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	// The client is not expected to send anything. The read loop services
	// pongs and turns a disconnect into a context cancel.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	writeCh := make(chan analysis.Event, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(watchWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, chOpen := <-writeCh:
				if !chOpen {
					return
				}
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	s.analysis.Run(ctx, job, func(ev analysis.Event) {
		select {
		case writeCh <- ev:
		case <-ctx.Done():
		}
	})

	// Closing the channel lets the writer drain buffered events before the
	// close frame goes out.
	close(writeCh)
	<-writerDone

	_ = conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
