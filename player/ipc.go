package player

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command []any `json:"command"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
type ipcResponse struct {
	Data  any    `json:"data"`
	Error string `json:"error"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
	readBufSize  = 4096
)

// command sends a JSON-IPC command to mpv, retrying transient connection errors.
// Calls are serialized per player.
func (m *MPV) command(args ...any) (any, error) {
	m.ipcMu.Lock()
	defer m.ipcMu.Unlock()

	if m.socketPath == "" {
		return nil, ErrNotRunning
	}

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := roundTrip(m.socketPath, args)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command %v failed after %d attempts: %w", args[0], maxRetries, lastErr)
}

// roundTrip performs a single request/response exchange on a fresh connection.
func roundTrip(socketPath string, args []any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(ipcCommand{Command: args})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv expects newline-delimited JSON
	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	buf := make([]byte, readBufSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return decodeResponse(buf[:n])
}

// decodeResponse parses the first reply line, skipping any interleaved events.
func decodeResponse(raw []byte) (any, error) {
	for _, line := range bytes.Split(raw, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		// asynchronous events carry no "error" field
		if resp.Error == "" {
			continue
		}

		if resp.Error != "success" {
			return nil, fmt.Errorf("mpv error: %s", resp.Error)
		}

		return resp.Data, nil
	}

	return nil, fmt.Errorf("no reply in %d bytes", len(raw))
}
