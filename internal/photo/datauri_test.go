package photo

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestParseRefDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes"))
	ref, err := ParseRef("data:image/jpeg;base64," + payload)
	if err != nil {
		t.Fatalf("ParseRef() error = %v", err)
	}
	if !ref.IsDataURI() {
		t.Fatalf("IsDataURI() = false")
	}
	if ref.MIMEType != "image/jpeg" {
		t.Fatalf("MIMEType = %q", ref.MIMEType)
	}
	if string(ref.Data) != "fake-jpeg-bytes" {
		t.Fatalf("Data = %q", ref.Data)
	}
}

func TestParseRefHTTPSURL(t *testing.T) {
	ref, err := ParseRef("https://picsum.photos/seed/1/600/400")
	if err != nil {
		t.Fatalf("ParseRef() error = %v", err)
	}
	if ref.IsDataURI() {
		t.Fatalf("IsDataURI() = true for URL reference")
	}
	if ref.URL == "" {
		t.Fatalf("URL empty")
	}
}

func TestParseRefRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-url",
		"ftp://example.com/photo.jpg",
		"data:image/png,unencoded",
		"data:image/png;base64",
		"data:;base64,aGVsbG8=",
		"data:image/png;base64,!!!!",
		"data:image/png;base64,",
	}
	for _, raw := range cases {
		if _, err := ParseRef(raw); !errors.Is(err, ErrInvalidReference) {
			t.Fatalf("ParseRef(%q) error = %v, want ErrInvalidReference", raw, err)
		}
	}
}
