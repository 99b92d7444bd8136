// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package modelclient

import (
	"encoding/json"
	"io"
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	mberrors "modelbridge/cli/internal/errors"
)

// startPlugin runs handler for a single accepted connection on an ephemeral
// port and returns the client config pointing at it.
func startPlugin(t *testing.T, timeout time.Duration, handler func(conn net.Conn)) Config {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return Config{Host: "127.0.0.1", Port: addr.Port, Timeout: timeout}
}

// readRequest consumes one JSON request document from the plugin side.
func readRequest(t *testing.T, conn net.Conn) map[string]any {
	t.Helper()
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		t.Errorf("plugin read: %v", err)
		return nil
	}
	var req map[string]any
	if err := json.Unmarshal(buf[:n], &req); err != nil {
		t.Errorf("request is not valid JSON: %v (payload %q)", err, buf[:n])
		return nil
	}
	return req
}

func TestSendCommandSerializesTypeAndParams(t *testing.T) {
	reqCh := make(chan map[string]any, 1)
	cfg := startPlugin(t, 2*time.Second, func(conn net.Conn) {
		reqCh <- readRequest(t, conn)
		_, _ = conn.Write([]byte(`{"status":"ok"}`))
	})

	resp, err := Call(cfg, "boolean_union", map[string]any{
		"object_ids":   []any{"a1", "b2"},
		"delete_input": true,
	})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if status, _ := resp.(map[string]any)["status"]; status != "ok" {
		t.Errorf("response = %#v, want status ok", resp)
	}

	req := <-reqCh
	if req["type"] != "boolean_union" {
		t.Errorf("request type = %v, want boolean_union", req["type"])
	}
	wantParams := map[string]any{
		"object_ids":   []any{"a1", "b2"},
		"delete_input": true,
	}
	if !reflect.DeepEqual(req["params"], wantParams) {
		t.Errorf("request params = %#v, want %#v", req["params"], wantParams)
	}
}

func TestSendCommandSingleReadWithWhitespace(t *testing.T) {
	cfg := startPlugin(t, 2*time.Second, func(conn net.Conn) {
		readRequest(t, conn)
		_, _ = conn.Write([]byte("  \n {\"status\": \"ok\", \"count\": 3} \n"))
	})

	resp, err := Call(cfg, "layer_list", nil)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	want := map[string]any{"status": "ok", "count": float64(3)}
	if !reflect.DeepEqual(resp, want) {
		t.Errorf("response = %#v, want %#v", resp, want)
	}
}

func TestSendCommandAssemblesSplitResponse(t *testing.T) {
	cfg := startPlugin(t, 2*time.Second, func(conn net.Conn) {
		readRequest(t, conn)
		_, _ = conn.Write([]byte(`{"status":`))
		time.Sleep(50 * time.Millisecond)
		_, _ = conn.Write([]byte(`"ok"}`))
	})

	resp, err := Call(cfg, "ping", nil)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	want := map[string]any{"status": "ok"}
	if !reflect.DeepEqual(resp, want) {
		t.Errorf("response = %#v, want %#v", resp, want)
	}
}

func TestSendCommandNoResponse(t *testing.T) {
	cfg := startPlugin(t, 2*time.Second, func(conn net.Conn) {
		readRequest(t, conn)
		// Close without sending a byte.
	})

	_, err := Call(cfg, "ping", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if kind := mberrors.KindOf(err); kind != mberrors.NoResponse {
		t.Errorf("error kind = %q, want %q (err: %v)", kind, mberrors.NoResponse, err)
	}
}

func TestSendCommandProtocolFailureOnGarbage(t *testing.T) {
	hold := make(chan struct{})
	defer close(hold)
	cfg := startPlugin(t, 300*time.Millisecond, func(conn net.Conn) {
		readRequest(t, conn)
		_, _ = conn.Write([]byte(`this is {not json`))
		<-hold // keep the connection open until the client times out
	})

	_, err := Call(cfg, "ping", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if kind := mberrors.KindOf(err); kind != mberrors.ProtocolFailure {
		t.Errorf("error kind = %q, want %q (err: %v)", kind, mberrors.ProtocolFailure, err)
	}
	if !strings.Contains(err.Error(), "this is {not json") {
		t.Errorf("error should quote the payload prefix, got: %v", err)
	}
}

func TestSendCommandBestEffortParseOnTimeout(t *testing.T) {
	hold := make(chan struct{})
	defer close(hold)
	cfg := startPlugin(t, 300*time.Millisecond, func(conn net.Conn) {
		readRequest(t, conn)
		// Valid document arrives but the connection stays open and
		// silent. Whether the client returns on the in-loop parse or
		// on the best-effort parse after the deadline, the value must
		// come back intact.
		_, _ = conn.Write([]byte(`{"status":"ok"}`))
		<-hold
	})

	resp, err := Call(cfg, "ping", nil)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	want := map[string]any{"status": "ok"}
	if !reflect.DeepEqual(resp, want) {
		t.Errorf("response = %#v, want %#v", resp, want)
	}
}

func TestSendCommandWithoutConnect(t *testing.T) {
	var c Client
	_, err := c.SendCommand("ping", nil)
	if kind := mberrors.KindOf(err); kind != mberrors.NotConnected {
		t.Errorf("error kind = %q, want %q", kind, mberrors.NotConnected)
	}
}

func TestConnectUnreachable(t *testing.T) {
	// An ephemeral port that was just closed is almost certainly refusing.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	var c Client
	err = c.Connect(Config{Host: "127.0.0.1", Port: port, Timeout: 500 * time.Millisecond})
	if err == nil {
		c.Disconnect()
		t.Fatal("expected connect error")
	}
	if kind := mberrors.KindOf(err); kind != mberrors.ConnectionFailed {
		t.Errorf("error kind = %q, want %q", kind, mberrors.ConnectionFailed)
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	var c Client
	// Never connected: must not panic.
	c.Disconnect()
	c.Disconnect()

	cfg := startPlugin(t, time.Second, func(conn net.Conn) {
		_, _ = io.Copy(io.Discard, conn)
	})
	if err := c.Connect(cfg); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	c.Disconnect()
	c.Disconnect()
	if c.Connected() {
		t.Error("client still reports connected after Disconnect")
	}
}

func TestWithConnectionClosesOnError(t *testing.T) {
	cfg := startPlugin(t, 200*time.Millisecond, func(conn net.Conn) {
		_, _ = io.Copy(io.Discard, conn)
	})

	var captured *Client
	err := WithConnection(cfg, func(c *Client) error {
		captured = c
		_, sendErr := c.SendCommand("ping", nil)
		_ = sendErr
		return io.ErrUnexpectedEOF
	})
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("WithConnection() error = %v, want io.ErrUnexpectedEOF", err)
	}
	if captured.Connected() {
		t.Error("socket left open after callback error")
	}
}
