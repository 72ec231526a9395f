package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/webfetch/webfetch/internal/config"
	"github.com/webfetch/webfetch/internal/domain"
	"github.com/webfetch/webfetch/internal/fetcher"
	"github.com/webfetch/webfetch/internal/iri"
	"github.com/webfetch/webfetch/internal/output"
	"github.com/webfetch/webfetch/internal/utils"
)

// App wires one fetch session together: HTTP client, charset negotiation,
// link discovery, and output writing.
type App struct {
	cfg    *config.Config
	log    *utils.Logger
	client *fetcher.Client
	writer *output.Writer
	sess   *iri.Session
}

// New creates an App from configuration.
func New(cfg *config.Config, log *utils.Logger) (*App, error) {
	client, err := fetcher.NewClient(fetcher.ClientOptions{
		Timeout:    cfg.Fetcher.Timeout,
		MaxRetries: cfg.Fetcher.MaxRetries,
		UserAgent:  cfg.Fetcher.UserAgent,
		ProxyURL:   cfg.Fetcher.ProxyURL,
	})
	if err != nil {
		return nil, err
	}

	writer := output.NewWriter(output.WriterOptions{
		BaseDir:      cfg.Output.Directory,
		JSONMetadata: cfg.Output.JSONMetadata,
		Force:        cfg.Output.Overwrite,
		DryRun:       cfg.Output.DryRun,
	})

	sess := iri.NewSession(iri.Options{
		LocalEncoding:  cfg.Encoding.Local,
		RemoteEncoding: cfg.Encoding.Remote,
		EnableIRI:      cfg.Encoding.EnableIRI,
		Logger:         log,
	})

	return &App{
		cfg:    cfg,
		log:    log.WithComponent("app"),
		client: client,
		writer: writer,
		sess:   sess,
	}, nil
}

// Session exposes the app's encoding session.
func (a *App) Session() *iri.Session {
	return a.sess
}

// Run fetches one URL, negotiates its charset, converts the body to UTF-8,
// discovers links, and writes the document.
func (a *App) Run(ctx context.Context, rawURL string) (*domain.Document, error) {
	normalized, err := utils.NormalizeURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	state := a.sess.State()
	state.ResetUTF8Encode()
	// A user-supplied URL is authored in the local encoding.
	state.SetCurrentAsLocale()

	target, err := a.encodeTargetHost(normalized)
	if err != nil {
		return nil, err
	}

	log := a.log.WithURL(target)
	log.Info().Msg("fetching")

	resp, err := a.client.Get(ctx, target)
	if err != nil {
		return nil, err
	}

	charset := a.negotiateCharset(resp)
	body, converted := a.convertBody(resp.Body)
	if converted {
		state.SetUTF8Encode(true)
	}

	doc := &domain.Document{
		URL:       target,
		Title:     fetcher.ExtractTitle(body),
		Body:      body,
		Charset:   charset,
		Converted: converted,
		FetchedAt: resp.FetchedAt,
	}

	links, err := fetcher.ExtractLinks(body, target)
	if err != nil {
		log.Debug().Err(err).Msg("link extraction failed")
	}
	doc.Links = a.encodeLinkHosts(links)

	path, err := a.writer.Write(doc)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("path", path).
		Str("charset", charset).
		Bool("converted", converted).
		Int("links", len(doc.Links)).
		Msg("written")

	return doc, nil
}

// negotiateCharset learns the response charset from the Content-Type header
// or, failing that, from the page's own <meta> declaration, and records it
// as both the remote charset and the charset for discovered links.
func (a *App) negotiateCharset(resp *domain.Response) string {
	state := a.sess.State()

	charset := a.sess.ParseCharset(resp.ContentType)
	if charset == "" {
		charset = a.sess.ParseCharset(fetcher.ExtractMetaContentType(resp.Body))
	}

	if charset != "" {
		state.SetRemote(charset)
		state.SetCurrent(charset)
	} else {
		// Nothing declared: assume the content matches whatever
		// encoding links were being interpreted in.
		state.SetRemoteAsCurrent()
	}

	return state.Remote()
}

// convertBody transcodes the body from the remote encoding to UTF-8.
// The original bytes are kept when nothing was actually converted or the
// pairing is unsupported.
func (a *App) convertBody(body []byte) ([]byte, bool) {
	converted, err := a.sess.RemoteToUTF8(string(body))
	if err != nil {
		if !errors.Is(err, iri.ErrNoConversion) && !errors.Is(err, iri.ErrNoSourceEncoding) {
			a.log.Debug().Err(err).Msg("body conversion failed")
		}
		return body, false
	}
	return []byte(converted), true
}

// encodeTargetHost rewrites the fetch URL's host to its ASCII-compatible
// form when IRI support is on. Failure leaves the URL untouched.
func (a *App) encodeTargetHost(rawURL string) (string, error) {
	if !a.cfg.Encoding.EnableIRI {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if utils.IsASCIIHost(u.Hostname()) {
		return rawURL, nil
	}

	host := a.sess.LocaleToUTF8(u.Hostname())
	ascii, err := a.sess.EncodeHost(host, true)
	if err != nil {
		a.log.Debug().Err(err).Str("host", u.Hostname()).Msg("keeping unencoded host")
		return rawURL, nil
	}

	if port := u.Port(); port != "" {
		u.Host = ascii + ":" + port
	} else {
		u.Host = ascii
	}
	return u.String(), nil
}

// encodeLinkHosts ASCII-encodes the host of every discovered link that
// needs it. Links whose host cannot be encoded are kept as found.
func (a *App) encodeLinkHosts(links []string) []string {
	if !a.cfg.Encoding.EnableIRI || a.sess.State().ForceNoEncode() {
		return links
	}

	state := a.sess.State()
	out := make([]string, 0, len(links))
	for _, link := range links {
		u, err := url.Parse(link)
		if err != nil || utils.IsASCIIHost(u.Hostname()) {
			out = append(out, link)
			continue
		}

		ascii, err := a.sess.EncodeHost(u.Hostname(), state.UTF8Encode())
		if err != nil {
			out = append(out, link)
			continue
		}
		if port := u.Port(); port != "" {
			u.Host = ascii + ":" + port
		} else {
			u.Host = ascii
		}
		out = append(out, u.String())
	}
	return out
}
