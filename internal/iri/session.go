package iri

import (
	"errors"
	"strings"

	"github.com/webfetch/webfetch/internal/utils"
)

// Transcoding failures surfaced to callers. Byte-level anomalies (invalid
// sequences, short buffers) are recovered inside Convert and never escape.
var (
	// ErrNoSourceEncoding indicates no source encoding is known for the
	// remote content, neither configured nor learned from a response
	ErrNoSourceEncoding = errors.New("no known source encoding")

	// ErrNoConversion indicates the conversion produced bytes identical
	// to its input, so nothing was actually converted
	ErrNoConversion = errors.New("no conversion occurred")
)

// Options configures a Session.
type Options struct {
	// LocalEncoding is the encoding of locally authored strings
	// (command-line arguments, input files). Derived from the locale
	// when empty.
	LocalEncoding string

	// RemoteEncoding, when set, overrides any charset learned from
	// responses as the source encoding of remote content.
	RemoteEncoding string

	// EnableIRI is the static IRI-support switch.
	EnableIRI bool

	// Provider yields conversion handles. Defaults to the x/text-backed
	// transcoder.
	Provider Transcoder

	Logger *utils.Logger
}

// Session ties together the encoding state of one fetch session: the
// configured encodings, the charset registry consulted by link processing,
// and the cached locale-to-UTF-8 conversion handle.
type Session struct {
	provider Transcoder
	state    *State
	log      *utils.Logger

	localEncoding  string
	remoteEncoding string

	// locale2utf8 is opened lazily and reused for the session lifetime.
	// localeFailedFor remembers an encoding whose open failed so it is
	// not retried until the configuration changes.
	locale2utf8     Handle
	localeFailedFor string
}

// NewSession creates a session with empty encoding state.
func NewSession(opts Options) *Session {
	if opts.Provider == nil {
		opts.Provider = NewXTextTranscoder()
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewDefaultLogger()
	}
	if opts.LocalEncoding == "" {
		opts.LocalEncoding = FindLocale()
	}

	return &Session{
		provider:       opts.Provider,
		state:          NewState(opts.LocalEncoding, opts.EnableIRI),
		log:            opts.Logger.WithComponent("iri"),
		localEncoding:  opts.LocalEncoding,
		remoteEncoding: opts.RemoteEncoding,
	}
}

// State returns the session's encoding state registry.
func (s *Session) State() *State {
	return s.state
}

// LocalEncoding returns the encoding assumed for locally authored strings.
func (s *Session) LocalEncoding() string {
	return s.localEncoding
}

// SetLocalEncoding reconfigures the local encoding. The cached locale
// conversion handle is dropped so the next LocaleToUTF8 reopens it, and a
// previously failed open becomes eligible for retry.
func (s *Session) SetLocalEncoding(name string) {
	if name == s.localEncoding {
		return
	}
	s.localEncoding = name
	s.localeFailedFor = ""
	if s.locale2utf8 != nil {
		_ = s.locale2utf8.Close()
		s.locale2utf8 = nil
	}
}

// LocaleToUTF8 converts a locally authored string to UTF-8. Failure is
// non-fatal: when the locale pairing is unsupported or the conversion
// errors, the input is returned unchanged.
func (s *Session) LocaleToUTF8(str string) string {
	if strings.EqualFold(s.localEncoding, "utf-8") {
		return str
	}

	if !s.openLocaleToUTF8() {
		return str
	}

	out, err := Convert(s.locale2utf8, []byte(str), s.log)
	if err != nil {
		return str
	}
	return string(out)
}

// openLocaleToUTF8 opens the cached locale-to-UTF-8 handle if needed.
func (s *Session) openLocaleToUTF8() bool {
	if s.locale2utf8 != nil {
		return true
	}

	if s.localEncoding == "" {
		s.log.Debug().Msg("local encoding unset, deriving from locale")
		s.localEncoding = FindLocale()
	}
	if s.localEncoding == "" || s.localeFailedFor == s.localEncoding {
		return false
	}

	h, err := s.provider.Open(s.localEncoding, "UTF-8")
	if err != nil {
		s.log.Debug().
			Str("from", s.localEncoding).
			Str("to", "UTF-8").
			Msg("conversion pair not supported")
		s.localeFailedFor = s.localEncoding
		return false
	}

	s.locale2utf8 = h
	return true
}

// RemoteToUTF8 converts a string from the remote content's encoding to
// UTF-8. The source encoding is the configured override if any, else the
// state's current charset, else the call fails with ErrNoSourceEncoding.
// When the converted bytes are identical to the input the result is
// ErrNoConversion rather than a pointless copy.
func (s *Session) RemoteToUTF8(str string) (string, error) {
	src := s.remoteEncoding
	if src == "" {
		src = s.state.Current()
	}
	if src == "" {
		return "", ErrNoSourceEncoding
	}

	h, err := s.provider.Open(src, "UTF-8")
	if err != nil {
		s.log.Debug().
			Str("from", src).
			Str("to", "UTF-8").
			Msg("conversion pair not supported")
		return "", err
	}
	defer h.Close()

	out, err := Convert(h, []byte(str), s.log)
	if err != nil {
		return "", err
	}

	if string(out) == str {
		return "", ErrNoConversion
	}
	return string(out), nil
}
