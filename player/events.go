package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/adcue/adcue/log"
)

// PropertyCallback receives mpv property changes and raw events.
// For events other than property changes, name is the event name and data the whole payload.
type PropertyCallback func(name string, data any)

// observed are the properties the listener subscribes to, keyed by observer id.
var observed = []string{
	"time-pos",
	"duration",
	"pause",
	"paused-for-cache",
	"eof-reached",
}

// EventListener keeps a persistent IPC connection open and forwards mpv notifications.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   PropertyCallback
	stopCh     chan struct{}
	done       chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a listener for the given socket.
func NewEventListener(socketPath string, callback PropertyCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start subscribes to the observed properties and starts the read loop.
// Observers are bound to the connection, so they are registered on the persistent one.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Infof("mpv event listener started on %s (observing: %v)", el.socketPath, observed)
	return nil
}

// Stop closes the connection and waits for the read loop to exit.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}

	close(el.stopCh)
	el.conn.Close()
	el.listening = false
	el.mu.Unlock()

	<-el.done
}

func (el *EventListener) readLoop() {
	defer close(el.done)

	scanner := bufio.NewScanner(el.conn)
	for scanner.Scan() {
		el.processLine(scanner.Bytes())
	}

	select {
	case <-el.stopCh:
	default:
		if err := scanner.Err(); err != nil {
			log.Warnf("event listener read error: %v", err)
		}
	}
}

// processLine parses and dispatches a single mpv event line.
func (el *EventListener) processLine(line []byte) {
	if el.callback == nil {
		return
	}

	var event map[string]any
	if err := json.Unmarshal(line, &event); err != nil {
		return
	}

	// command replies have no "event" field
	eventType, ok := event["event"].(string)
	if !ok {
		return
	}

	if eventType == "property-change" {
		if name, _ := event["name"].(string); name != "" {
			el.callback(name, event["data"])
		}
		return
	}

	el.callback(eventType, event)
}
