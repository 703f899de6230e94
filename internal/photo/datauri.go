// Package photo validates and decodes the photo references attached
// to incident submissions.
package photo

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidReference = errors.New("photo: invalid reference")

// Ref is a validated photo reference: either a decoded data URI or a
// plain http(s) URL.
type Ref struct {
	// Raw is the reference exactly as submitted.
	Raw string
	// URL is set for http(s) references.
	URL string
	// MIMEType and Data are set for data URIs.
	MIMEType string
	Data     []byte
}

// IsDataURI reports whether the reference carried an inline payload.
func (r Ref) IsDataURI() bool { return len(r.Data) > 0 }

// ParseRef validates a submission photo reference. Accepted forms are
// data:<mimetype>;base64,<payload> and http(s) URLs.
func ParseRef(raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}, fmt.Errorf("%w: empty", ErrInvalidReference)
	}
	if strings.HasPrefix(raw, "data:") {
		return parseDataURI(raw)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Ref{}, fmt.Errorf("%w: not a data URI or http(s) URL", ErrInvalidReference)
	}
	return Ref{Raw: raw, URL: raw}, nil
}

func parseDataURI(raw string) (Ref, error) {
	rest := strings.TrimPrefix(raw, "data:")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Ref{}, fmt.Errorf("%w: missing payload separator", ErrInvalidReference)
	}
	mime, enc, ok := strings.Cut(meta, ";")
	if !ok || !strings.EqualFold(strings.TrimSpace(enc), "base64") {
		return Ref{}, fmt.Errorf("%w: payload must be base64 encoded", ErrInvalidReference)
	}
	mime = strings.TrimSpace(mime)
	if mime == "" || !strings.Contains(mime, "/") {
		return Ref{}, fmt.Errorf("%w: missing MIME type", ErrInvalidReference)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return Ref{}, fmt.Errorf("%w: bad base64 payload", ErrInvalidReference)
	}
	if len(data) == 0 {
		return Ref{}, fmt.Errorf("%w: empty payload", ErrInvalidReference)
	}
	return Ref{Raw: raw, MIMEType: mime, Data: data}, nil
}
