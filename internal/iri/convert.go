package iri

import (
	"errors"

	"github.com/webfetch/webfetch/internal/utils"
)

// Convert runs in through the conversion handle and returns the converted
// bytes. It is a best-effort primitive: bytes the handle cannot convert are
// copied through unchanged, and the output buffer is regrown on demand, so
// the only failures that escape are unrecoverable handle errors.
//
// The output starts at twice the input length, a heuristic for the typical
// expansion of narrow-to-wide conversions. When it fills up, the replacement
// buffer is sized to the committed bytes plus twice the unconsumed input,
// which bounds reallocations to O(log n).
func Convert(h Handle, in []byte, log *utils.Logger) ([]byte, error) {
	h.Reset()

	out := make([]byte, 2*len(in))
	done := 0
	logged := false

	for {
		nDst, nSrc, err := h.Step(out[done:], in)
		done += nDst
		in = in[nSrc:]

		switch {
		case err == nil:
			return out[:done], nil

		case errors.Is(err, ErrInvalidSequence):
			// Pass the offending byte through unconverted and move on.
			// Logged once per call so a mangled document cannot flood
			// the log.
			if !logged {
				log.Debug().Msg("incomplete or invalid multibyte sequence encountered")
				logged = true
			}
			if len(in) == 0 {
				return out[:done], nil
			}
			if done == len(out) {
				out = regrow(out, done, len(in))
			}
			out[done] = in[0]
			done++
			in = in[1:]

		case errors.Is(err, ErrBufferFull):
			out = regrow(out, done, len(in))

		default:
			log.Debug().Err(err).Msg("conversion aborted")
			return nil, err
		}
	}
}

// regrow replaces out with a buffer sized to the committed bytes plus twice
// the remaining input, carrying the committed bytes over. The size never
// drops below the current buffer plus room for one more decoded unit, so a
// short tail whose output outgrows 2x cannot stall the loop.
func regrow(out []byte, done, remaining int) []byte {
	size := done + 2*remaining
	if floor := len(out) + 8; size < floor {
		size = floor
	}
	next := make([]byte, size)
	copy(next, out[:done])
	return next
}
