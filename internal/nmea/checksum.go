// Package nmea implements NMEA 0183 framing for AIS sentences: checksum
// validation, sentence parsing, and multi-fragment assembly.
package nmea

// Checksum computes the NMEA checksum of a raw sentence: the XOR fold of
// every byte strictly between the leading sentinel ('!' or '$') and the '*'
// delimiter, exclusive of both.
func Checksum(raw []byte) byte {
	var sum byte
	for _, b := range raw[1:] {
		if b == '*' {
			break
		}
		sum ^= b
	}
	return sum
}
