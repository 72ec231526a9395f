package iri

// State holds the encoding bookkeeping for one fetch session: the charset
// the current response declared, the charset future discovered links should
// be interpreted in, and the UTF-8 URL-encoding flags. An empty charset
// string means "unset".
//
// A State belongs to exactly one session and is not synchronized; callers
// running concurrent sessions give each its own instance.
type State struct {
	remote        string
	current       string
	utf8Encode    bool
	forceNoEncode bool

	locale     string
	iriEnabled bool
}

// NewState returns an empty state. locale is the configured local encoding
// (used by SetCurrentAsLocale) and iriEnabled is the static IRI-support
// switch that ResetUTF8Encode re-derives the UTF-8 flag from.
func NewState(locale string, iriEnabled bool) *State {
	return &State{locale: locale, iriEnabled: iriEnabled}
}

// Remote returns the charset of the current fetch's content, or "".
func (s *State) Remote() string { return s.remote }

// Current returns the charset discovered links are interpreted in, or "".
func (s *State) Current() string { return s.current }

// SetRemote replaces the remote charset. An empty value clears it.
func (s *State) SetRemote(charset string) { s.remote = charset }

// SetCurrent replaces the current charset. An empty value clears it.
func (s *State) SetCurrent(charset string) { s.current = charset }

// SetCurrentAsLocale copies the configured local encoding into current.
func (s *State) SetCurrentAsLocale() { s.current = s.locale }

// SetRemoteAsCurrent copies current into remote; if current is unset the
// remote charset is cleared too.
func (s *State) SetRemoteAsCurrent() { s.remote = s.current }

// ResetUTF8Encode re-derives the UTF-8 flag from the IRI-support switch.
func (s *State) ResetUTF8Encode() { s.utf8Encode = s.iriEnabled }

// SetUTF8Encode sets whether outgoing URLs are UTF-8 encoded.
func (s *State) SetUTF8Encode(encode bool) { s.utf8Encode = encode }

// UTF8Encode reports whether outgoing URLs are UTF-8 encoded.
func (s *State) UTF8Encode() bool { return s.utf8Encode }

// SetForceNoEncode force-disables the UTF-8 encoding path for one parse.
func (s *State) SetForceNoEncode(force bool) { s.forceNoEncode = force }

// ForceNoEncode reports whether the UTF-8 encoding path is force-disabled.
func (s *State) ForceNoEncode() bool { return s.forceNoEncode }
