// Package server serves cube environments over websockets. Each connection
// owns an independent environment.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/SeamusWaldron/rubikscube"
	"github.com/SeamusWaldron/rubikscube/env"
)

// Config configures the environments handed to clients.
type Config struct {
	Metric          rubikscube.MetricKind
	ScrambleMoves   int
	MaxEpisodeSteps int

	// Seed, when set, makes connection n scramble with seed Seed+n.
	Seed *uint64

	// AllowOrigins lists browser origins permitted to connect. Requests
	// without an Origin header are always accepted.
	AllowOrigins []string
}

type client struct {
	id   string
	conn *websocket.Conn
	env  *env.Env
	send chan []byte
}

// Server accepts websocket connections and runs one environment for each.
type Server struct {
	cfg          Config
	logger       *log.Logger
	allowOrigins map[string]bool

	mu      sync.RWMutex
	clients map[*client]struct{}
	conns   atomic.Uint64
}

// New creates a server. A nil logger discards output.
func New(cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := map[string]bool{}
	for _, a := range cfg.AllowOrigins {
		if a != "" {
			m[a] = true
		}
	}
	return &Server{
		cfg:          cfg,
		logger:       logger,
		allowOrigins: m,
		clients:      map[*client]struct{}{},
	}
}

// Handler returns the HTTP routes: /ws for environments and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Clients returns the number of open connections.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) newEnv() (*env.Env, error) {
	n := s.conns.Add(1) - 1
	opts := []env.Option{
		env.WithMetric(s.cfg.Metric),
		env.WithMaxEpisodeSteps(s.cfg.MaxEpisodeSteps),
		env.WithLogger(s.logger),
	}
	if s.cfg.ScrambleMoves != 0 {
		opts = append(opts, env.WithScrambleMoves(s.cfg.ScrambleMoves))
	}
	if s.cfg.Seed != nil {
		opts = append(opts, env.WithSeed(*s.cfg.Seed+n))
	}
	return env.New(opts...)
}

// ServeWS upgrades the request and runs the request loop until the client
// disconnects.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" && !s.allowOrigins[origin] {
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}

	e, err := s.newEnv()
	if err != nil {
		s.logger.Error("failed to create environment", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}

	cl := &client{id: uuid.NewString(), conn: c, env: e, send: make(chan []byte, 64)}
	s.mu.Lock()
	s.clients[cl] = struct{}{}
	s.mu.Unlock()
	s.logger.Info("client connected", "client", cl.id)

	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		cancel()
		s.mu.Lock()
		delete(s.clients, cl)
		s.mu.Unlock()
		s.logger.Info("client disconnected", "client", cl.id)
	}()

	// writer
	done := make(chan struct{})
	go func() {
		defer close(done)
		ping := time.NewTicker(15 * time.Second)
		defer func() { ping.Stop(); _ = c.Close(websocket.StatusNormalClosure, "bye") }()
		for {
			select {
			case msg, ok := <-cl.send:
				if !ok {
					return
				}
				if err := c.Write(ctx, websocket.MessageText, msg); err != nil {
					return
				}
			case <-ping.C:
				_ = c.Ping(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	// reader
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			break
		}

		var in Msg
		var out Msg
		if err := json.Unmarshal(data, &in); err != nil {
			out = errorMsg(CodeBadRequest, "malformed message")
		} else {
			out = handle(cl.env, in)
		}
		s.logger.Debug("request", "client", cl.id, "type", in.T, "reply", out.T)

		frame, err := json.Marshal(out)
		if err != nil {
			s.logger.Error("failed to encode reply", "client", cl.id, "err", err)
			continue
		}
		select {
		case cl.send <- frame:
		case <-done:
		}
	}

	close(cl.send)
	<-done
}
