// Package server serves generated layouts over HTTP: a JSON report at
// /layout and a frame-by-frame WebSocket replay at /ws.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/bspdungeon/internal/config"
	"github.com/lawnchairsociety/bspdungeon/internal/export"
	"github.com/lawnchairsociety/bspdungeon/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// ReplayServer hands out layouts and streams their replays.
type ReplayServer struct {
	cfg          *config.Config
	connLimiter  *ConnLimiter
	badRequests  *BadRequestLimiter
	upgrader     websocket.Upgrader
	httpServer   *http.Server
	streams      sync.WaitGroup
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewReplayServer creates a server for cfg. Nothing listens until Start or Serve.
func NewReplayServer(cfg *config.Config) *ReplayServer {
	s := &ReplayServer{
		cfg:         cfg,
		connLimiter: NewConnLimiter(cfg.Replay.Connections),
		badRequests: NewBadRequestLimiter(cfg.Replay.RateLimit),
		shutdown:    make(chan struct{}),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.Replay.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /layout", s.handleLayout)
	mux.HandleFunc("GET /ws", s.handleWebSocketUpgrade)

	s.httpServer = &http.Server{
		Addr:              cfg.Replay.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the server's routes.
func (s *ReplayServer) Handler() http.Handler {
	return s.httpServer.Handler
}

// ConnStats returns the current WebSocket viewer counts.
func (s *ReplayServer) ConnStats() ConnStats {
	return s.connLimiter.Stats()
}

// Start listens on the configured address and serves until ctx is cancelled
// or Shutdown is called.
func (s *ReplayServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Replay.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or Shutdown is
// called. It returns nil after a clean shutdown.
func (s *ReplayServer) Serve(ctx context.Context, ln net.Listener) error {
	logger.Info("Replay server listening", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := s.Shutdown(shutdownCtx)
		<-errCh
		return err
	}
}

// Shutdown stops accepting connections, ends every replay in progress with a
// going-away close message and waits for them to finish or for ctx to expire.
func (s *ReplayServer) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		s.badRequests.Stop()
	})

	err := s.httpServer.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.streams.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}

	stats := s.connLimiter.Stats()
	logger.Info("Replay server shutdown complete", "open_viewers", stats.Total)
	return err
}

func (s *ReplayServer) isShuttingDown() bool {
	select {
	case <-s.shutdown:
		return true
	default:
		return false
	}
}

// rejectIfLocked answers 429 and returns true when ip is locked out for
// sending too many bad requests.
func (s *ReplayServer) rejectIfLocked(w http.ResponseWriter, ip string) bool {
	locked, remaining := s.badRequests.Locked(ip)
	if !locked {
		return false
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(remaining.Seconds())+1))
	http.Error(w, "Too many bad requests. Please try again later.", http.StatusTooManyRequests)
	return true
}

// fail answers with the status for err. Bad requests count toward a lockout.
func (s *ReplayServer) fail(w http.ResponseWriter, ip string, err error) {
	status := statusFor(err)
	if status == http.StatusBadRequest {
		if locked, d := s.badRequests.Penalize(ip); locked {
			logger.Warning("Client locked out after repeated bad requests",
				"client_ip", ip,
				"lockout", d.String())
		}
	}
	http.Error(w, err.Error(), status)
}

// handleLayout generates a layout and writes its report. ?format=yaml selects
// YAML, anything else JSON.
func (s *ReplayServer) handleLayout(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)
	if s.rejectIfLocked(w, clientIP) {
		return
	}

	gen, err := generationFor(s.cfg.Generation, s.cfg.Replay.MaxRooms, r)
	if err != nil {
		s.fail(w, clientIP, err)
		return
	}

	layout, err := generate(gen)
	if err != nil {
		s.fail(w, clientIP, err)
		return
	}
	s.badRequests.Forgive(clientIP)

	report := export.NewReport(layout, layout.CheckConnectivity(), gen.Seed)

	if r.URL.Query().Get("format") == "yaml" {
		w.Header().Set("Content-Type", "application/yaml")
		err = export.WriteYAML(w, report)
	} else {
		w.Header().Set("Content-Type", "application/json")
		err = export.WriteJSON(w, report)
	}
	if err != nil {
		logger.Error("Failed to write layout report", "error", err, "seed", gen.Seed)
		return
	}

	logger.Debug("Served layout", "seed", gen.Seed, "rooms", layout.RoomCount(),
		"client_ip", clientIP)
}
