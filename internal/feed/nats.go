package feed

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const natsReconnectWait = 2 * time.Second

// NATSSource subscribes to a NATS subject carrying raw NMEA sentences, one
// sentence per message. Receivers that publish over NATS fan a single
// antenna out to many consumers, so reconnects are unbounded.
type NATSSource struct {
	conn *nats.Conn
	sub  *nats.Subscription
}

// ConnectNATS dials the NATS server at url.
func ConnectNATS(url string) (*NATSSource, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(natsReconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("could not connect to nats server %s: %w", url, err)
	}
	return &NATSSource{conn: conn}, nil
}

// Subscribe delivers every raw sentence published on subject to handler.
// Handlers run on the connection's delivery goroutine and should hand
// slow work off rather than block it.
func (n *NATSSource) Subscribe(subject string, handler func(raw []byte)) error {
	sub, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("could not subscribe to %s: %w", subject, err)
	}
	n.sub = sub
	return nil
}

// Close drains the subscription and closes the connection.
func (n *NATSSource) Close() {
	if n.sub != nil {
		n.sub.Drain()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
