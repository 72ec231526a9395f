package iri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider wraps the real transcoder and counts Open calls.
type countingProvider struct {
	inner Transcoder
	opens int
}

func (p *countingProvider) Open(src, dst string) (Handle, error) {
	p.opens++
	return p.inner.Open(src, dst)
}

func TestLocaleToUTF8AlreadyUTF8(t *testing.T) {
	sess := newTestSession(Options{LocalEncoding: "UTF-8"})

	in := "héllo wörld"
	assert.Equal(t, in, sess.LocaleToUTF8(in))
}

func TestLocaleToUTF8Converts(t *testing.T) {
	sess := newTestSession(Options{LocalEncoding: "ISO-8859-1"})

	assert.Equal(t, "café", sess.LocaleToUTF8("caf\xe9"))
}

func TestLocaleToUTF8CachesHandle(t *testing.T) {
	provider := &countingProvider{inner: NewXTextTranscoder()}
	sess := newTestSession(Options{LocalEncoding: "ISO-8859-1", Provider: provider})

	sess.LocaleToUTF8("d\xe9j\xe0")
	sess.LocaleToUTF8("na\xefve")
	assert.Equal(t, 1, provider.opens)
}

func TestLocaleToUTF8UnsupportedFallsThrough(t *testing.T) {
	provider := &countingProvider{inner: NewXTextTranscoder()}
	sess := newTestSession(Options{LocalEncoding: "no-such-encoding", Provider: provider})

	in := "unchanged"
	assert.Equal(t, in, sess.LocaleToUTF8(in))
	assert.Equal(t, in, sess.LocaleToUTF8(in))
	// The failed open is remembered, not retried per call.
	assert.Equal(t, 1, provider.opens)
}

func TestSetLocalEncodingRetriesFailedOpen(t *testing.T) {
	provider := &countingProvider{inner: NewXTextTranscoder()}
	sess := newTestSession(Options{LocalEncoding: "no-such-encoding", Provider: provider})

	assert.Equal(t, "caf\xe9", sess.LocaleToUTF8("caf\xe9"))
	require.Equal(t, 1, provider.opens)

	sess.SetLocalEncoding("ISO-8859-1")
	assert.Equal(t, "café", sess.LocaleToUTF8("caf\xe9"))
	assert.Equal(t, 2, provider.opens)
}

func TestRemoteToUTF8NoSourceEncoding(t *testing.T) {
	sess := newTestSession(Options{})

	_, err := sess.RemoteToUTF8("anything")
	assert.ErrorIs(t, err, ErrNoSourceEncoding)
}

func TestRemoteToUTF8UsesCurrentCharset(t *testing.T) {
	sess := newTestSession(Options{})
	sess.State().SetCurrent("ISO-8859-1")

	out, err := sess.RemoteToUTF8("r\xe9sum\xe9")
	require.NoError(t, err)
	assert.Equal(t, "résumé", out)
}

func TestRemoteToUTF8OverrideWins(t *testing.T) {
	sess := newTestSession(Options{RemoteEncoding: "ISO-8859-1"})
	// A bogus current charset proves the override takes precedence.
	sess.State().SetCurrent("no-such-encoding")

	out, err := sess.RemoteToUTF8("caf\xe9")
	require.NoError(t, err)
	assert.Equal(t, "café", out)
}

func TestRemoteToUTF8NoConversion(t *testing.T) {
	sess := newTestSession(Options{})
	sess.State().SetCurrent("UTF-8")

	_, err := sess.RemoteToUTF8("already utf-8 content")
	assert.ErrorIs(t, err, ErrNoConversion)
}

func TestRemoteToUTF8UnsupportedPair(t *testing.T) {
	sess := newTestSession(Options{})
	sess.State().SetCurrent("no-such-encoding")

	_, err := sess.RemoteToUTF8("content")
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
}

func TestRemoteToUTF8FreshHandlePerCall(t *testing.T) {
	provider := &countingProvider{inner: NewXTextTranscoder()}
	sess := newTestSession(Options{Provider: provider})
	sess.State().SetCurrent("ISO-8859-1")

	_, err := sess.RemoteToUTF8("caf\xe9")
	require.NoError(t, err)
	_, err = sess.RemoteToUTF8("d\xe9j\xe0")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.opens)
}

func TestNewSessionDerivesLocalEncodingFromLocale(t *testing.T) {
	t.Setenv("LC_ALL", "ru_RU.KOI8-R")
	t.Setenv("LC_CTYPE", "")
	t.Setenv("LANG", "")

	sess := NewSession(Options{Logger: testLogger()})
	assert.Equal(t, "KOI8-R", sess.LocalEncoding())
}
