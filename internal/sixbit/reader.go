package sixbit

// Reader extracts a sequence of fields from one bit stream with sticky error
// handling: after the first failed read every later read returns the zero
// value, and Err reports the first failure.
type Reader struct {
	bits Bits
	err  error
}

// NewReader returns a Reader over the given stream.
func NewReader(bits Bits) *Reader {
	return &Reader{bits: bits}
}

// Uint reads an unsigned field.
func (r *Reader) Uint(start, length int) uint64 {
	if r.err != nil {
		return 0
	}
	v, err := r.bits.Uint(start, length)
	if err != nil {
		r.err = err
		return 0
	}
	return v
}

// Int reads a signed two's-complement field.
func (r *Reader) Int(start, length int) int64 {
	if r.err != nil {
		return 0
	}
	v, err := r.bits.Int(start, length)
	if err != nil {
		r.err = err
		return 0
	}
	return v
}

// Text reads a six-bit text field.
func (r *Reader) Text(start, length int) string {
	if r.err != nil {
		return ""
	}
	v, err := r.bits.Text(start, length)
	if err != nil {
		r.err = err
		return ""
	}
	return v
}

// Err returns the first read failure, or nil.
func (r *Reader) Err() error {
	return r.err
}
