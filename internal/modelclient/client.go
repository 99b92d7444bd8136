// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package modelclient implements the synchronous TCP request/response client for
// the modeling-tool plugin. One connection carries at most one in-flight command;
// there is no pipelining, no pooling and no retry at this level.
//
// The wire format has no length prefix or delimiter. The only end-of-message
// signal is "the accumulated bytes now parse as a single JSON document", so the
// client re-attempts a full parse after every read. This heuristic is what the
// plugin actually speaks; it must not be replaced with stricter framing, since
// the remote side is a fixed external component.
package modelclient

import (
	"encoding/json"
	"io"
	"net"
	"strconv"
	"time"

	"modelbridge/cli/internal/errors"
	"modelbridge/cli/internal/protocol"
)

// payloadPrefixLimit bounds how much of an unparseable payload is quoted in
// protocol-failure errors.
const payloadPrefixLimit = 256

// readChunkSize is the per-read buffer size while accumulating a response.
const readChunkSize = 4096

// Config identifies the plugin endpoint and the socket timeout applied to the
// connect attempt and to each command's read phase.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Addr returns the host:port dial target.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Client owns a single TCP connection to the plugin for its lifetime.
// The zero value is a disconnected client.
type Client struct {
	conn    net.Conn
	timeout time.Duration
}

// Connect establishes the TCP connection. It fails with the connection_failed
// kind when the remote is unreachable or the attempt exceeds the timeout.
func (c *Client) Connect(cfg Config) error {
	conn, err := net.DialTimeout("tcp", cfg.Addr(), cfg.Timeout)
	if err != nil {
		return errors.Wrap(errors.ConnectionFailed, "dial "+cfg.Addr(), err)
	}
	c.conn = conn
	c.timeout = cfg.Timeout
	return nil
}

// SendCommand serializes {"type": name, "params": params} to JSON, writes it
// fully to the socket, then reads until the accumulated bytes parse as one
// JSON document. The parsed value is returned as soon as parsing succeeds.
//
// On read timeout a best-effort parse of whatever arrived is attempted; if
// that also fails the error carries the protocol_failure kind and a bounded
// prefix of the payload. A remote close with zero bytes received yields the
// no_response kind.
func (c *Client) SendCommand(name string, params map[string]any) (any, error) {
	if c.conn == nil {
		return nil, errors.New(errors.NotConnected, "send_command requires an active connection")
	}

	payload, err := protocol.NewCommand(name, params).Encode()
	if err != nil {
		return nil, errors.Wrap(errors.ProtocolFailure, "encode command "+name, err)
	}

	if c.timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, errors.Wrap(errors.ConnectionFailed, "set write deadline", err)
		}
	}
	if _, err := c.conn.Write(payload); err != nil {
		return nil, errors.Wrap(errors.ConnectionFailed, "write command "+name, err)
	}

	return c.readResponse()
}

// readResponse accumulates socket bytes and re-attempts a full JSON parse
// after every read. The read deadline is absolute for the whole response.
func (c *Client) readResponse() (any, error) {
	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, errors.Wrap(errors.ConnectionFailed, "set read deadline", err)
		}
	}

	var buf []byte
	chunk := make([]byte, readChunkSize)
	for {
		n, err := c.conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			var value any
			if jsonErr := json.Unmarshal(buf, &value); jsonErr == nil {
				return value, nil
			}
		}
		if err == nil {
			continue
		}

		if err == io.EOF {
			if len(buf) == 0 {
				return nil, errors.New(errors.NoResponse, "remote closed the connection without sending a response")
			}
			return nil, c.truncatedErr(buf, err)
		}
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			// Best-effort parse of whatever accumulated before the deadline.
			if len(buf) > 0 {
				var value any
				if jsonErr := json.Unmarshal(buf, &value); jsonErr == nil {
					return value, nil
				}
			}
			return nil, c.truncatedErr(buf, err)
		}
		return nil, errors.Wrap(errors.ConnectionFailed, "read response", err)
	}
}

// truncatedErr builds a protocol-failure error quoting a bounded prefix of
// the bytes received so far, for diagnosis.
func (c *Client) truncatedErr(buf []byte, cause error) error {
	prefix := buf
	if len(prefix) > payloadPrefixLimit {
		prefix = prefix[:payloadPrefixLimit]
	}
	msg := "response never became valid JSON (received " +
		strconv.Itoa(len(buf)) + " bytes, payload prefix: " + strconv.Quote(string(prefix)) + ")"
	return errors.Wrap(errors.ProtocolFailure, msg, cause)
}

// Disconnect closes the socket if open. It is idempotent and never fails
// observably; close errors are swallowed.
func (c *Client) Disconnect() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// Connected reports whether the client currently holds an open socket.
func (c *Client) Connected() bool { return c.conn != nil }

// WithConnection runs fn against a freshly connected client and guarantees
// Disconnect on every exit path, including when fn returns an error.
func WithConnection(cfg Config, fn func(*Client) error) error {
	var c Client
	if err := c.Connect(cfg); err != nil {
		return err
	}
	defer c.Disconnect()
	return fn(&c)
}

// Call performs the whole connect, send, disconnect sequence for one command.
// This is the shape every CLI wrapper uses: one connection, one command, one
// response.
func Call(cfg Config, name string, params map[string]any) (any, error) {
	var resp any
	err := WithConnection(cfg, func(c *Client) error {
		var sendErr error
		resp, sendErr = c.SendCommand(name, params)
		return sendErr
	})
	return resp, err
}
