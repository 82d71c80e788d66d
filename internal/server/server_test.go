package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

func testServer(h http.Handler) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(h, Options{ShutdownTimeout: 2 * time.Second}, logger)
}

func TestServe_ShutdownOrder(t *testing.T) {
	srv := testServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))

	var order []string
	srv.OnShutdown("first", func(context.Context) error { order = append(order, "first"); return nil })
	srv.OnShutdown("second", func(context.Context) error { order = append(order, "second"); return nil })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String())
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	if strings.Join(order, ",") != "second,first" {
		t.Errorf("shutdown order = %v, want second,first", order)
	}
}

func TestServe_ComponentErrorsAreJoined(t *testing.T) {
	srv := testServer(http.NotFoundHandler())

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	srv.OnShutdown("a", func(context.Context) error { return errA })
	srv.OnShutdown("b", func(context.Context) error { return errB })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = srv.Serve(ctx, ln)
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("expected both component errors, got %v", err)
	}
}

func TestAddr(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{Port: 9000}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if srv.Addr() != ":9000" {
		t.Errorf("Addr = %q", srv.Addr())
	}
}
