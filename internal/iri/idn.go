package iri

import (
	"errors"
	"fmt"

	"golang.org/x/net/idna"
)

// ErrIDNA indicates the IDNA algorithm rejected a domain name.
var ErrIDNA = errors.New("idna conversion failed")

// EncodeHost converts a Unicode hostname to its ASCII-compatible form.
// Unless the caller states the host is already UTF-8 encoded, it is first
// transcoded from the remote encoding; a failure there fails the whole
// encode, distinct from "host unchanged".
func (s *Session) EncodeHost(host string, utf8Encoded bool) (string, error) {
	if !utf8Encoded {
		converted, err := s.RemoteToUTF8(host)
		if err != nil {
			// Nothing to encode, or the transcoding failed.
			return "", err
		}
		host = converted
	}

	ascii, err := idna.ToASCII(host)
	if err != nil {
		s.log.WithHost(host).Debug().Err(err).Msg("idn encode failed")
		return "", fmt.Errorf("%w: %v", ErrIDNA, err)
	}
	return ascii, nil
}

// DecodeHost converts an ASCII-compatible hostname back to Unicode.
func (s *Session) DecodeHost(host string) (string, error) {
	unicode, err := idna.ToUnicode(host)
	if err != nil {
		s.log.WithHost(host).Debug().Err(err).Msg("idn decode failed")
		return "", fmt.Errorf("%w: %v", ErrIDNA, err)
	}
	return unicode, nil
}
