package mpv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/epcltv/epcltv/engine"
	"github.com/epcltv/epcltv/log"
)

// listener reads mpv's event stream from a persistent connection and forwards
// translated events to out. out is closed when the stream ends.
type listener struct {
	conn      net.Conn
	out       chan<- engine.Event
	translate func(ipcMessage) []engine.Event

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// startListener subscribes conn to the observed properties and starts the read loop.
func startListener(conn net.Conn, out chan<- engine.Event, translate func(ipcMessage) []engine.Event) (*listener, error) {
	l := &listener{
		conn:      conn,
		out:       out,
		translate: translate,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	// Observers are bound to the connection that registers them.
	enc := json.NewEncoder(conn)
	for _, prop := range observed {
		if err := enc.Encode(ipcCommand{Command: []any{"observe_property", prop.id, prop.name}}); err != nil {
			return nil, fmt.Errorf("observe %s: %w", prop.name, err)
		}
	}

	go l.readLoop()

	log.Infof("mpv event listener started (observing %d properties)", len(observed))
	return l, nil
}

// Stop terminates the read loop and waits for it to exit.
func (l *listener) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
		_ = l.conn.Close()
	})
	<-l.done
}

func (l *listener) readLoop() {
	defer close(l.done)
	defer close(l.out)

	scanner := bufio.NewScanner(l.conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			log.Debugf("skipping malformed mpv line: %v", err)
			continue
		}

		// replies to observe_property
		if msg.Event == "" {
			continue
		}

		for _, ev := range l.translate(msg) {
			select {
			case l.out <- ev:
			case <-l.stop:
				return
			}
		}
	}

	select {
	case <-l.stop:
	default:
		if err := scanner.Err(); err != nil {
			log.Warnf("mpv event listener read error: %v", err)
		} else {
			log.Info("mpv event stream closed")
		}
	}
}
