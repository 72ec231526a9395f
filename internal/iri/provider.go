package iri

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Sentinel errors reported by conversion handles
var (
	// ErrUnsupportedEncoding indicates no converter exists for a pairing
	ErrUnsupportedEncoding = errors.New("unsupported encoding pair")

	// ErrInvalidSequence indicates an incomplete or invalid multibyte sequence
	ErrInvalidSequence = errors.New("invalid multibyte sequence")

	// ErrBufferFull indicates the output buffer has no room for the next unit
	ErrBufferFull = errors.New("output buffer full")
)

// Handle is an open conversion between two named encodings. Step consumes
// bytes from src and writes converted bytes to dst, returning how many bytes
// of each were used. It returns nil once all of src has been consumed,
// ErrInvalidSequence when src starts with a byte sequence it cannot convert,
// ErrBufferFull when dst has no room to continue, or any other error for
// unrecoverable conditions.
type Handle interface {
	Step(dst, src []byte) (nDst, nSrc int, err error)
	Reset()
	Close() error
}

// Transcoder yields conversion handles for encoding pairs.
type Transcoder interface {
	Open(srcEncoding, dstEncoding string) (Handle, error)
}

// XTextTranscoder implements Transcoder on top of golang.org/x/text.
// Encoding names are resolved through the WHATWG index, so the usual
// aliases (latin1, iso-8859-1, windows-1252, ...) all work.
type XTextTranscoder struct{}

// NewXTextTranscoder returns the default production transcoder.
func NewXTextTranscoder() *XTextTranscoder {
	return &XTextTranscoder{}
}

// Open builds a conversion handle for the given pairing.
func (p *XTextTranscoder) Open(srcEncoding, dstEncoding string) (Handle, error) {
	src, err := htmlindex.Get(srcEncoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, srcEncoding)
	}
	dst, err := htmlindex.Get(dstEncoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, dstEncoding)
	}

	srcName, _ := htmlindex.Name(src)
	dstName, _ := htmlindex.Name(dst)

	// The pivot encoding is UTF-8, so one side (or both) can be elided.
	switch {
	case dstName == "utf-8":
		return &decodeHandle{t: src.NewDecoder()}, nil
	case srcName == "utf-8":
		return &xtextHandle{t: dst.NewEncoder()}, nil
	default:
		return &xtextHandle{t: transform.Chain(src.NewDecoder(), dst.NewEncoder())}, nil
	}
}

type xtextHandle struct {
	t transform.Transformer
}

func (h *xtextHandle) Step(dst, src []byte) (int, int, error) {
	nDst, nSrc, err := h.t.Transform(dst, src, true)
	return nDst, nSrc, classifyTransformError(err)
}

func (h *xtextHandle) Reset() {
	h.t.Reset()
}

func (h *xtextHandle) Close() error {
	return nil
}

// utf8Replacement is the UTF-8 encoding of U+FFFD, which x/text decoders
// emit in place of bytes they cannot decode.
var utf8Replacement = []byte("\uFFFD")

// decodeHandle wraps a decoder for the to-UTF-8 direction. x/text decoders
// never fail on undecodable input; they silently substitute U+FFFD. The
// handle decodes one encoded unit at a time and reports a substitution as
// ErrInvalidSequence with the offending bytes left unconsumed, so the caller
// can copy them through instead.
type decodeHandle struct {
	t transform.Transformer
}

func (h *decodeHandle) Step(dst, src []byte) (int, int, error) {
	nDst, nSrc := 0, 0
	for nSrc < len(src) {
		d, s, err := h.decodeUnit(dst[nDst:], src[nSrc:])
		nDst += d
		nSrc += s
		if err != nil {
			return nDst, nSrc, err
		}
		if d == 0 && s == 0 {
			// No progress and no error; treat as undecodable.
			return nDst, nSrc, ErrInvalidSequence
		}
	}
	return nDst, nSrc, nil
}

// decodeUnit feeds the decoder a window that grows until the first complete
// unit is consumed, then checks whether the unit decoded to the replacement
// rune without the source actually spelling one.
func (h *decodeHandle) decodeUnit(dst, src []byte) (int, int, error) {
	for w := 1; ; w++ {
		atEOF := w >= len(src)
		if atEOF {
			w = len(src)
		}
		nDst, nSrc, err := h.t.Transform(dst, src[:w], atEOF)
		if errors.Is(err, transform.ErrShortSrc) && !atEOF && nSrc == 0 {
			continue
		}
		if cerr := classifyTransformError(err); cerr != nil {
			return nDst, nSrc, cerr
		}
		if bytes.Contains(dst[:nDst], utf8Replacement) && !bytes.Equal(src[:nSrc], utf8Replacement) {
			// Substituted output is discarded and the offending
			// bytes stay unconsumed.
			return 0, 0, ErrInvalidSequence
		}
		return nDst, nSrc, nil
	}
}

func (h *decodeHandle) Reset() {
	h.t.Reset()
}

func (h *decodeHandle) Close() error {
	return nil
}

// classifyTransformError maps x/text transformer errors onto the handle's
// error taxonomy.
func classifyTransformError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, transform.ErrShortDst) {
		return ErrBufferFull
	}
	// With atEOF set, a short source means a truncated multibyte sequence.
	if errors.Is(err, transform.ErrShortSrc) {
		return ErrInvalidSequence
	}
	if errors.Is(err, encoding.ErrInvalidUTF8) {
		return ErrInvalidSequence
	}
	// Encoders report runes outside the target repertoire with an error
	// carrying a suggested replacement byte.
	var repertoire interface{ Replacement() byte }
	if errors.As(err, &repertoire) {
		return ErrInvalidSequence
	}
	return err
}
