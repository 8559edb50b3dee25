package main

import (
	"net"
	"net/http"
	"os"
	osSignal "os/signal"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// sendTermOnNotify makes shutdown observe SIGTERM as soon as it subscribes.
func sendTermOnNotify(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})

	signalNotify = func(ch chan<- os.Signal, sig ...os.Signal) {
		go func() {
			ch <- syscall.SIGTERM
		}()
	}
}

func TestShutdownOnTermDrainsIdleServer(t *testing.T) {
	sendTermOnNotify(t)

	server := &http.Server{}
	called := make(chan struct{}, 1)
	server.RegisterOnShutdown(func() {
		called <- struct{}{}
	})

	core, logs := observer.New(zap.InfoLevel)
	shutdown(server, time.Second, zap.New(core))

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatalf("expected server shutdown callback to execute")
	}
	if logs.FilterMessage("shutting down server").Len() != 1 {
		t.Fatalf("expected shutdown to be logged, got %v", logs.All())
	}
	if n := logs.FilterMessage("graceful shutdown failed").Len(); n != 0 {
		t.Fatalf("idle server should drain cleanly, got %d failures", n)
	}
}

func TestShutdownForcesCloseWhenGracePeriodExpires(t *testing.T) {
	sendTermOnNotify(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-release
		}),
		ErrorLog: zap.NewStdLog(zaptest.NewLogger(t)),
	}
	served := make(chan error, 1)
	go func() {
		served <- server.Serve(ln)
	}()

	requestDone := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err == nil {
			resp.Body.Close()
		}
		requestDone <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("request never reached the handler")
	}

	core, logs := observer.New(zap.WarnLevel)
	shutdown(server, time.Millisecond, zap.New(core))

	if logs.FilterMessage("graceful shutdown failed").Len() != 1 {
		t.Fatalf("expected graceful shutdown to time out, got %v", logs.All())
	}
	if n := logs.FilterMessage("forced close failed").Len(); n != 0 {
		t.Fatalf("expected forced close to succeed, got %d failures", n)
	}

	select {
	case err := <-requestDone:
		if err == nil {
			t.Fatalf("expected in-flight request to be cut off by Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("in-flight request survived forced close")
	}

	select {
	case err := <-served:
		if err != http.ErrServerClosed {
			t.Fatalf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Serve did not return after shutdown")
	}
}
