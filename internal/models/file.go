// internal/models/file.go
package models

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EmbeddedFile is an uploaded file held inline with the draft. Data is
// base64-encoded by encoding/json on the wire.
type EmbeddedFile struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

// Size returns the decoded payload size in bytes.
func (f *EmbeddedFile) Size() int64 {
	if f == nil {
		return 0
	}
	return int64(len(f.Data))
}

// IsPDF reports whether the payload is a PDF attachment.
func (f *EmbeddedFile) IsPDF() bool {
	return f != nil && f.ContentType == "application/pdf"
}

// IsImage reports whether the payload is a JPEG or PNG image.
func (f *EmbeddedFile) IsImage() bool {
	if f == nil {
		return false
	}
	return f.ContentType == "image/jpeg" || f.ContentType == "image/png"
}

// DataURI renders the file as a data URI for outbound payloads.
func (f *EmbeddedFile) DataURI() string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", f.ContentType, base64.StdEncoding.EncodeToString(f.Data))
}

// ParseDataURI decodes a "data:<type>;base64,<payload>" string into an
// EmbeddedFile. Plain base64 without a prefix is accepted and treated
// as an untyped payload.
func ParseDataURI(name, uri string) (*EmbeddedFile, error) {
	contentType := "application/octet-stream"
	payload := uri

	if strings.HasPrefix(uri, "data:") {
		rest := uri[len("data:"):]
		sep := strings.Index(rest, ",")
		if sep < 0 {
			return nil, fmt.Errorf("malformed data URI: missing comma")
		}
		meta := rest[:sep]
		payload = rest[sep+1:]

		if !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("unsupported data URI encoding: %q", meta)
		}
		if ct := strings.TrimSuffix(meta, ";base64"); ct != "" {
			contentType = ct
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	return &EmbeddedFile{
		Name:        name,
		ContentType: contentType,
		Data:        data,
	}, nil
}
