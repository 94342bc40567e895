// Package encoder implements a symbol-filtering passthrough: it re-emits
// the original wire bytes of messages that match a symbol membership set,
// silently dropping everything else, while keeping order- and
// match-number-keyed follow-up messages consistent with what it has
// already let through.
package encoder

import (
	"encoding/binary"
	"io"

	"itch50/internal/application/service/decoder"
	"itch50/internal/domain/entity/book"
	"itch50/internal/domain/entity/itch"
	"itch50/internal/domain/interfaces"
)

// Encoder filters a decoded stream down to the messages relevant to a
// symbol set, byte-for-byte passthrough for everything it keeps.
type Encoder struct {
	dec     *decoder.Decoder
	w       interfaces.Writer
	filter  interfaces.SymbolFilter
	framing decoder.FramingMode

	emittedRefs    map[itch.OrderReference]struct{}
	emittedMatches map[uint64]struct{}
}

// Option configures an Encoder at construction.
type Option func(*Encoder)

// WithFraming selects the output framing (defaults to LengthPrefixed,
// matching the decoder's default).
func WithFraming(mode decoder.FramingMode) Option {
	return func(e *Encoder) { e.framing = mode }
}

// New builds an Encoder reading from src through dec and writing passed
// messages to w.
func New(dec *decoder.Decoder, w interfaces.Writer, filter interfaces.SymbolFilter, opts ...Option) *Encoder {
	e := &Encoder{
		dec:            dec,
		w:              w,
		filter:         filter,
		framing:        decoder.LengthPrefixed,
		emittedRefs:    make(map[itch.OrderReference]struct{}),
		emittedMatches: make(map[uint64]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run drains the decoder, writing every message that passes the filter,
// until the stream ends (io.EOF, returned as nil) or a decode/write error
// occurs.
func (e *Encoder) Run() error {
	for {
		msg, raw, err := e.dec.NextRaw()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if e.shouldEmit(msg) {
			if err := e.write(raw); err != nil {
				return err
			}
		}
	}
}

func (e *Encoder) shouldEmit(msg itch.Message) bool {
	switch itch.CategoryOf(msg.Tag()) {
	case itch.CategorySystemWide:
		return true
	case itch.CategorySymbolKeyed:
		symbol, ok := itch.SymbolOf(msg)
		allowed := ok && e.filter.Allow(book.Symbol(symbol.String()))
		if allowed {
			if ref, isNew := itch.NewOrderRefOf(msg); isNew {
				e.emittedRefs[ref] = struct{}{}
			}
			if match, isTrade := itch.MatchNumberOf(msg); isTrade {
				e.emittedMatches[match] = struct{}{}
			}
		}
		return allowed
	case itch.CategoryOrderFollowUp:
		old, newRef, hasNew := itch.OrderRefsOf(msg)
		_, known := e.emittedRefs[old]
		if !known {
			return false
		}
		if hasNew {
			delete(e.emittedRefs, old)
			e.emittedRefs[newRef] = struct{}{}
		} else if msg.Tag() == itch.TagOrderDelete {
			delete(e.emittedRefs, old)
		}
		return true
	case itch.CategoryMatchFollowUp:
		match, _ := itch.MatchNumberOf(msg)
		_, known := e.emittedMatches[match]
		if known {
			delete(e.emittedMatches, match)
		}
		return known
	default:
		return false
	}
}

func (e *Encoder) write(raw []byte) error {
	if e.framing == decoder.LengthPrefixed {
		var prefix [2]byte
		binary.BigEndian.PutUint16(prefix[:], uint16(len(raw)))
		if _, err := e.w.Write(prefix[:]); err != nil {
			return err
		}
	}
	_, err := e.w.Write(raw)
	return err
}
