// Package feed provides raw-sentence sources and the caller-side buffering
// that turns asynchronously arriving fragments into complete packets. The
// parsing core below it never buffers; that responsibility lives here, with
// the callers.
package feed

import (
	"fmt"

	"ais_parser/internal/nmea"
)

type groupKey struct {
	talker string
	seqID  string
}

// Grouper collects multi-fragment sentences by (talker, seqID) and assembles
// each group once its last fragment arrives. Not safe for concurrent use;
// give each input source its own Grouper.
type Grouper struct {
	pending map[groupKey][]*nmea.Sentence
}

// NewGrouper creates an empty Grouper.
func NewGrouper() *Grouper {
	return &Grouper{
		pending: make(map[groupKey][]*nmea.Sentence),
	}
}

// Add feeds one parsed sentence. It returns a complete packet when the
// sentence completes a logical message, or nil while fragments are pending.
// A fragment that does not continue its group discards the stale partial
// group; if it also cannot start a new one, Add fails.
func (g *Grouper) Add(s *nmea.Sentence) (*nmea.Packet, error) {
	if s.IsSingle() {
		return nmea.Single(s), nil
	}

	key := groupKey{talker: s.Talker, seqID: s.SeqID}
	pend := g.pending[key]

	continues := s.FragmentIndex == len(pend)+1 &&
		(len(pend) == 0 || pend[0].FragmentCount == s.FragmentCount)
	if !continues {
		delete(g.pending, key)
		if s.FragmentIndex != 1 {
			return nil, fmt.Errorf("%w: fragment %d/%d for group %s/%q arrived out of order",
				nmea.ErrAssembly, s.FragmentIndex, s.FragmentCount, s.Talker, s.SeqID)
		}
		pend = nil
	}

	pend = append(pend, s)
	if s.FragmentIndex == s.FragmentCount {
		delete(g.pending, key)
		return nmea.Assemble(pend)
	}
	g.pending[key] = pend
	return nil, nil
}

// PendingGroups returns the number of incomplete fragment groups held.
func (g *Grouper) PendingGroups() int {
	return len(g.pending)
}
