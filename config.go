package brief

// Config tunes the encoding and decoding behavior. The zero value encodes
// struct fields by name, allows trailing input, and applies no size limit;
// use DefaultConfig for the recommended strict-decoding defaults.
type Config struct {
	// UseIndices encodes struct field keys as their declaration index
	// instead of their name. Smaller output, but renames become silent
	// and reordering breaks compatibility. Decoding always accepts both
	// key styles regardless of this setting.
	UseIndices bool

	// ErrorOnExcessData makes a decode fail with ErrExcessData when input
	// bytes remain after the value.
	ErrorOnExcessData bool

	// MaxSize caps the number of bytes written or read by a single
	// operation. Zero means unlimited. Exceeding the cap fails with
	// ErrLimitReached.
	MaxSize int
}

// DefaultConfig returns the default configuration: field names as keys,
// trailing input rejected, no size limit.
func DefaultConfig() Config {
	return Config{ErrorOnExcessData: true}
}
