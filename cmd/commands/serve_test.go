package commands

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingLoop stands in for the monitor: it runs until its context ends
type blockingLoop struct {
	started  chan struct{}
	returned atomic.Bool
}

func newBlockingLoop() *blockingLoop {
	return &blockingLoop{started: make(chan struct{})}
}

func (l *blockingLoop) Start(ctx context.Context) error {
	close(l.started)
	<-ctx.Done()
	// Simulates the tail of an in-flight sweep
	time.Sleep(20 * time.Millisecond)
	l.returned.Store(true)
	return nil
}

func TestRunServerWaitsForMonitorWhenListenFails(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	loop := newBlockingLoop()
	srv := &http.Server{Addr: taken.Addr().String(), Handler: http.NotFoundHandler()}

	err = runServer(context.Background(), srv, loop, log.New(io.Discard, "", 0))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start server")
	assert.True(t, loop.returned.Load(), "monitor loop must stop before the store is closed")
}

func TestRunServerStopsOnCancel(t *testing.T) {
	loop := newBlockingLoop()
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv, loop, log.New(io.Discard, "", 0)) }()

	<-loop.started
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.True(t, loop.returned.Load())
	case <-time.After(5 * time.Second):
		t.Fatal("runServer did not return after cancel")
	}
}

func TestRunServerReturnsMonitorError(t *testing.T) {
	loop := &failingLoop{err: errors.New("check interval must be positive, got 0s")}
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	err := runServer(context.Background(), srv, loop, log.New(io.Discard, "", 0))
	assert.EqualError(t, err, "check interval must be positive, got 0s")
}

type failingLoop struct {
	err error
}

func (l *failingLoop) Start(ctx context.Context) error {
	return l.err
}
