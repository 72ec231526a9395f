package domain

import "time"

// Response represents a raw HTTP response
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	Headers     map[string]string
	FetchedAt   time.Time
}

// IsSuccess reports whether the response has a 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Document is a fetched page after charset negotiation: its body is UTF-8
// (best effort), Charset records the encoding the body was converted from,
// and Links holds the discovered references with IDN hosts ASCII-encoded.
type Document struct {
	URL       string
	Title     string
	Body      []byte
	Charset   string
	Converted bool
	Links     []string
	FetchedAt time.Time
}
