// Package decoder turns a raw ITCH 5.0 byte stream into a sequence of
// itch.Message values, one at a time, without buffering the whole feed in
// memory.
package decoder

import (
	"encoding/binary"
	"io"

	"itch50/internal/domain/entity/itch"
	"itch50/internal/domain/interfaces"
)

// FramingMode selects how message boundaries are recovered from the byte
// stream.
type FramingMode int

const (
	// FixedByType recovers message length purely from the tag->length
	// table: there is no length prefix on the wire, matching a raw venue
	// multicast stream.
	FixedByType FramingMode = iota
	// LengthPrefixed expects a 2-byte big-endian length prefix ahead of
	// every message (the length counts the message itself, not the
	// prefix), matching a persisted/replayed feed file.
	LengthPrefixed
)

const initialBufferSize = 4096

// Decoder streams itch.Message values out of a ByteSource.
type Decoder struct {
	src     interfaces.ByteSource
	lengths map[byte]int
	framing FramingMode

	buf  []byte
	r, w int
	eof  bool
}

// Option configures a Decoder at construction.
type Option func(*Decoder)

// WithLengthTable overrides the default ITCH 5.0 tag->length table, for
// feed variants with different field widths.
func WithLengthTable(t map[byte]int) Option {
	return func(d *Decoder) { d.lengths = t }
}

// WithFraming selects the framing mode. Default is LengthPrefixed.
func WithFraming(mode FramingMode) Option {
	return func(d *Decoder) { d.framing = mode }
}

// New constructs a Decoder reading from src.
func New(src interfaces.ByteSource, opts ...Option) *Decoder {
	d := &Decoder{
		src:     src,
		lengths: itch.FixedLengths(),
		framing: LengthPrefixed,
		buf:     make([]byte, initialBufferSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next decodes and returns the next message, or an error. io.EOF (wrapped
// in neither TruncatedStreamError nor any other type) is returned once the
// stream ends cleanly between messages.
func (d *Decoder) Next() (itch.Message, error) {
	msg, _, err := d.NextRaw()
	return msg, err
}

// NextRaw decodes the next message and also returns the exact wire bytes it
// was decoded from (tag byte through the last field, excluding any length
// prefix), for callers that need to pass the original bytes through
// unmodified, such as encoder.Encoder.
func (d *Decoder) NextRaw() (itch.Message, []byte, error) {
	switch d.framing {
	case LengthPrefixed:
		return d.nextLengthPrefixed()
	default:
		return d.nextFixedByType()
	}
}

func (d *Decoder) nextLengthPrefixed() (itch.Message, []byte, error) {
	if err := d.fillOrCleanEOF(2); err != nil {
		return nil, nil, err
	}
	declared := int(binary.BigEndian.Uint16(d.buf[d.r : d.r+2]))
	d.r += 2
	if err := d.fill(declared); err != nil {
		return nil, nil, err
	}
	frame := d.buf[d.r : d.r+declared]
	tag := frame[0]
	expected, ok := d.lengths[tag]
	if !ok {
		return nil, nil, &UnknownTypeError{Tag: tag}
	}
	if expected != declared {
		return nil, nil, &LengthMismatchError{Tag: tag, Declared: declared, Expected: expected}
	}
	msg, err := decodeMessage(tag, frame)
	raw := append([]byte(nil), frame...)
	d.r += declared
	return msg, raw, err
}

func (d *Decoder) nextFixedByType() (itch.Message, []byte, error) {
	if err := d.fillOrCleanEOF(1); err != nil {
		return nil, nil, err
	}
	tag := d.buf[d.r]
	expected, ok := d.lengths[tag]
	if !ok {
		return nil, nil, &UnknownTypeError{Tag: tag}
	}
	if err := d.fill(expected); err != nil {
		return nil, nil, err
	}
	frame := d.buf[d.r : d.r+expected]
	msg, err := decodeMessage(tag, frame)
	raw := append([]byte(nil), frame...)
	d.r += expected
	return msg, raw, err
}

// fillOrCleanEOF is like fill, but returns a plain io.EOF instead of
// TruncatedStreamError when the stream ends with zero bytes pending — that
// is a clean end of stream between messages, not a truncated one.
func (d *Decoder) fillOrCleanEOF(need int) error {
	if d.w-d.r == 0 {
		if err := d.refillOnce(); err != nil {
			return err
		}
		if d.w-d.r == 0 && d.eof {
			return io.EOF
		}
	}
	return d.fill(need)
}

func (d *Decoder) refillOnce() error {
	if d.eof {
		return nil
	}
	d.compact()
	if len(d.buf) == d.w {
		d.grow()
	}
	n, err := d.src.Read(d.buf[d.w:])
	d.w += n
	if err != nil {
		if err == io.EOF {
			d.eof = true
			return nil
		}
		return err
	}
	return nil
}

func (d *Decoder) fill(need int) error {
	for d.w-d.r < need {
		if d.eof {
			return &TruncatedStreamError{Wanted: need, Got: d.w - d.r}
		}
		d.compact()
		if len(d.buf)-d.w < need {
			d.grow()
		}
		n, err := d.src.Read(d.buf[d.w:])
		d.w += n
		if err != nil {
			if err == io.EOF {
				d.eof = true
				continue
			}
			return err
		}
	}
	return nil
}

func (d *Decoder) compact() {
	if d.r == 0 {
		return
	}
	copy(d.buf, d.buf[d.r:d.w])
	d.w -= d.r
	d.r = 0
}

func (d *Decoder) grow() {
	next := make([]byte, len(d.buf)*2)
	copy(next, d.buf[:d.w])
	d.buf = next
}
