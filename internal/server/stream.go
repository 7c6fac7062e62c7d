package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/bspdungeon/internal/logger"
	"github.com/lawnchairsociety/bspdungeon/internal/replay"
)

// handleWebSocketUpgrade generates a layout for the request and, once the
// connection is upgraded, streams its replay.
func (s *ReplayServer) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	if s.isShuttingDown() {
		http.Error(w, "Server is shutting down.", http.StatusServiceUnavailable)
		return
	}

	clientIP := getRealIP(r)
	if s.rejectIfLocked(w, clientIP) {
		return
	}

	// Parameter errors are reported before upgrading so the client gets a status code
	gen, err := generationFor(s.cfg.Generation, s.cfg.Replay.MaxRooms, r)
	if err != nil {
		s.fail(w, clientIP, err)
		return
	}

	// The slot is held while generating so the connection cap bounds that work too
	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	layout, err := generate(gen)
	if err != nil {
		s.connLimiter.Release(clientIP)
		s.fail(w, clientIP, err)
		return
	}
	s.badRequests.Forgive(clientIP)

	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the error response
		logger.Warning("WebSocket upgrade failed", "error", err, "client_ip", clientIP)
		s.connLimiter.Release(clientIP)
		return
	}

	frames := replay.Build(layout, layout.CheckConnectivity())
	log := logger.With("client_ip", clientIP, "seed", gen.Seed)
	v := newViewer(wsConn, s.cfg.Replay.MaxMessageSize)

	s.streams.Add(1)
	go func() {
		defer s.streams.Done()
		defer s.connLimiter.Release(clientIP)
		defer v.Close()

		s.stream(v, frames, log)
	}()
}

// stream writes frames to v one per frame interval and then closes the
// connection normally. It stops early if the viewer goes away or the server
// shuts down.
func (s *ReplayServer) stream(v *viewer, frames []replay.Frame, log *slog.Logger) {
	log.Info("Replay started", "frames", len(frames), "remote_addr", v.RemoteAddr())

	// With no interval every frame is sent as soon as the previous one is written.
	now := make(chan time.Time)
	close(now)
	var tick <-chan time.Time = now
	if interval := s.cfg.Replay.FrameInterval(); interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for i, frame := range frames {
		if i > 0 {
			select {
			case <-tick:
			case <-v.Gone():
				log.Info("Viewer left during replay", "sent", i)
				return
			case <-s.shutdown:
				v.CloseWith(websocket.CloseGoingAway, "server shutting down")
				log.Info("Replay interrupted by shutdown", "sent", i)
				return
			}
		}

		if err := v.WriteFrame(frame); err != nil {
			log.Warn("Failed to write replay frame", "error", err, "seq", frame.Seq)
			return
		}
	}

	v.CloseWith(websocket.CloseNormalClosure, "replay complete")
	log.Info("Replay complete", "frames", len(frames))
}
