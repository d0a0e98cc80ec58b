package vllm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/exec"
	"sync"
	"time"
)

// DefaultReadyTimeout bounds how long Start waits for the engine health
// endpoint. Engine startup includes loading model weights, so this is
// generous.
const DefaultReadyTimeout = 5 * time.Minute

// Server supervises a single `vllm serve` process.
type Server struct {
	args   *Args
	cmd    *exec.Cmd
	cancel context.CancelFunc
	ready  bool
	mu     sync.Mutex
}

// NewServer creates a supervisor for the given engine args. The process
// is not started until Start.
func NewServer(args *Args) *Server {
	return &Server{args: args}
}

// BaseURL returns the engine's HTTP endpoint.
func (s *Server) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", s.args.Port)
}

// Start launches the engine and waits for its health endpoint.
func (s *Server) Start(ctx context.Context, readyTimeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return nil // Already running
	}

	if _, err := exec.LookPath(Binary); err != nil {
		return fmt.Errorf("vllm: engine binary not found: %w", err)
	}

	procCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(procCtx, Binary, s.args.CommandLine()...)

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("vllm: failed to start engine server: %w", err)
	}

	if readyTimeout == 0 {
		readyTimeout = DefaultReadyTimeout
	}

	if err := s.waitForHealth(ctx, s.BaseURL()+"/health", readyTimeout); err != nil {
		cancel()
		if killErr := cmd.Process.Kill(); killErr != nil {
			slog.Error("Failed to kill engine process", "error", killErr)
		}
		return fmt.Errorf("vllm: engine server did not become ready: %w", err)
	}

	s.cmd = cmd
	s.cancel = cancel
	s.ready = true

	slog.Info("Engine server started", "model", s.args.Model, "port", s.args.Port)
	return nil
}

// Ready reports whether the engine passed its health check.
func (s *Server) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ready
}

// Stop terminates the engine process. Safe to call more than once.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		return nil
	}

	s.cancel()
	if err := s.cmd.Process.Kill(); err != nil {
		slog.Error("Failed to kill engine process", "error", err)
	}

	s.cmd = nil
	s.ready = false

	slog.Info("Engine server stopped", "model", s.args.Model, "port", s.args.Port)
	return nil
}

// waitForHealth polls the health endpoint until it responds or the
// timeout elapses.
func (s *Server) waitForHealth(ctx context.Context, url string, timeout time.Duration) error {
	client := &http.Client{Timeout: 1 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}

	return fmt.Errorf("engine failed to respond at %s within %v", url, timeout)
}
