// Package interfaces declares the collaborator boundaries the core decode
// and process pipeline depends on: byte sources, raw writers, symbol
// filters, and event handlers. Besides the interfaces it holds only small
// in-memory adapters (SymbolFilterFunc, SymbolSet, NopHandler); concrete
// implementations backed by files, network sockets or queues live under
// internal/infrastructure and cmd.
package interfaces

import "itch50/internal/domain/entity/book"

// ByteSource supplies the raw bytes of an ITCH feed to a Decoder. It is
// intentionally narrower than io.Reader: implementations may be backed by
// a file, a buffered socket, or an in-memory fixture.
type ByteSource interface {
	// Read behaves like io.Reader: it may return fewer bytes than len(p)
	// without error, and returns io.EOF once exhausted.
	Read(p []byte) (n int, err error)
}

// Writer accepts raw encoded bytes for an Encoder's passthrough output. It
// is intentionally the same narrow shape as ByteSource's write-side
// counterpart (io.Writer's contract) rather than a new abstraction.
type Writer interface {
	Write(p []byte) (n int, err error)
}

// SymbolFilter decides whether a symbol-keyed message should be retained by
// an Encoder's passthrough filter.
type SymbolFilter interface {
	Allow(symbol book.Symbol) bool
}

// SymbolFilterFunc adapts a plain function to SymbolFilter.
type SymbolFilterFunc func(book.Symbol) bool

func (f SymbolFilterFunc) Allow(symbol book.Symbol) bool { return f(symbol) }

// SymbolSet is a SymbolFilter backed by a fixed membership set.
type SymbolSet map[book.Symbol]struct{}

func (s SymbolSet) Allow(symbol book.Symbol) bool {
	_, ok := s[symbol]
	return ok
}

// NewSymbolSet builds a SymbolSet from a list of tickers.
func NewSymbolSet(symbols ...book.Symbol) SymbolSet {
	set := make(SymbolSet, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	return set
}
