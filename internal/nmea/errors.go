package nmea

import "errors"

// Parse failures are fatal to the sentence that caused them; nothing is
// retried and no partially-parsed sentence is ever returned.
var (
	// ErrIgnored marks input that is not an encapsulated AIS sentence
	// (the lead byte is not '!'). It is a pass-through signal, not a failure:
	// mixed NMEA feeds carry plenty of non-AIS traffic.
	ErrIgnored = errors.New("not an encapsulated AIS sentence")

	// ErrFraming marks a sentence with the wrong field count or an
	// unparseable header.
	ErrFraming = errors.New("malformed sentence framing")

	// ErrNumericField marks a fragment count, fragment index, pad count, or
	// checksum field that failed numeric parsing.
	ErrNumericField = errors.New("non-numeric sentence field")

	// ErrChecksum marks a declared checksum that does not match the computed
	// one. Always fatal, never partially accepted.
	ErrChecksum = errors.New("checksum mismatch")

	// ErrAssembly marks a fragment set with mismatched framing metadata or
	// gaps, duplicates, or misordering in the fragment indexes.
	ErrAssembly = errors.New("invalid fragment set")
)
