package feed

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

const (
	dialTimeout       = 5 * time.Second
	heartbeatTimeout  = 10 * time.Second
	heartbeatInterval = 30 * time.Second
	backoffStep       = 5 // seconds per failed attempt
	backoffMax        = 30
)

// Stream reads raw NMEA lines from a websocket feed. Servers in the wild
// batch several sentences per frame, so frames are split on line endings
// before delivery. Lines carries one sentence per receive.
type Stream struct {
	URL   string
	Conn  *websocket.Conn
	Lines chan []byte
	Quit  chan struct{}
	Done  chan struct{}
}

// NewStream creates a Stream for the given websocket URL. Call
// ConnectAndStream in a goroutine, then range over Lines.
func NewStream(url string) *Stream {
	return &Stream{
		URL:   url,
		Lines: make(chan []byte),
		Quit:  make(chan struct{}),
		Done:  make(chan struct{}),
	}
}

func (st *Stream) connect() error {
	hc := &http.Client{Timeout: dialTimeout}

	c, _, err := websocket.Dial(context.Background(), st.URL, &websocket.DialOptions{HTTPClient: hc})
	if err != nil {
		return fmt.Errorf("could not connect to websocket: %w", err)
	}
	st.Conn = c
	return nil
}

// Stop closes Quit and waits for the stream loop to finish. Closing rather
// than sending matters: the loop may be parked on an unbuffered Lines send
// with no receiver left, and only a closed channel reaches that select arm.
func (st *Stream) Stop() {
	close(st.Quit)
	<-st.Done
}

// ConnectAndStream dials the feed and forwards lines until Quit is closed.
// Broken connections are redialed with a linear backoff, so the loop only
// returns on Quit. Done is signalled on the way out.
func (st *Stream) ConnectAndStream() {
	backoffCount := 0

connect:
	for {
		select {
		case <-st.Quit:
			st.Done <- struct{}{}
			return
		default:
			err := st.connect()
			if err != nil {
				log.Printf("stream connect failed: %s", err)
				backoffCount = backoff(backoffCount)
				continue connect
			}

			go st.heartbeat()

			for {
				select {
				case <-st.Quit:
					st.Conn.Close(websocket.StatusNormalClosure, "")
					st.Done <- struct{}{}
					return
				default:
					_, b, err := st.Conn.Read(context.Background())
					if err != nil {
						log.Printf("stream read failed: %s", err)
						st.Conn.Close(websocket.StatusNormalClosure, "")
						backoffCount = backoff(backoffCount)
						continue connect
					}
					backoffCount = 0
					if !st.deliver(b) {
						st.Conn.Close(websocket.StatusNormalClosure, "")
						st.Done <- struct{}{}
						return
					}
				}
			}
		}
	}
}

// heartbeat pings the server at heartbeatInterval. A ping that cannot be
// written within heartbeatTimeout closes the connection, which surfaces as
// a Read error in ConnectAndStream and triggers a redial. This keeps Reads
// free of context timeouts on quiet feeds.
func (st *Stream) heartbeat() {
	for {
		ctx, cancel := context.WithTimeout(context.Background(), heartbeatTimeout)
		err := st.Conn.Ping(ctx)
		if err != nil {
			cancel()
			return
		}
		cancel()
		time.Sleep(heartbeatInterval)
	}
}

// deliver forwards one frame's sentences to Lines. Each send also watches
// Quit, so a consumer that stopped receiving can still shut the stream down.
// Returns false when delivery was cut short by Quit.
func (st *Stream) deliver(b []byte) bool {
	for _, line := range splitLines(b) {
		select {
		case st.Lines <- line:
		case <-st.Quit:
			return false
		}
	}
	return true
}

func splitLines(b []byte) [][]byte {
	var lines [][]byte
	for _, line := range bytes.Split(b, []byte{'\n'}) {
		line = bytes.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func backoff(backoffCount int) int {
	backoffSleep := backoffStep * backoffCount
	if backoffSleep > backoffMax {
		backoffSleep = backoffMax
	}

	time.Sleep(time.Duration(backoffSleep) * time.Second)

	return backoffCount + 1
}
