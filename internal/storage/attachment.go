package storage

import (
	"fmt"
	"io"
	"mime/multipart"
)

// Attachment is an uploaded binary kept in memory with the content type
// the client declared. The payload is never inspected or re-encoded.
type Attachment struct {
	Data        []byte
	ContentType string
}

// Read buffers the whole file behind fh.
func Read(fh *multipart.FileHeader) (*Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	return &Attachment{Data: data, ContentType: fh.Header.Get("Content-Type")}, nil
}

// FromForm returns the first file uploaded under field, or nil when the
// field carries no file. Extra files under the same field are ignored.
func FromForm(form *multipart.Form, field string) (*Attachment, error) {
	if form == nil {
		return nil, nil
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	return Read(files[0])
}

// Columns splits a into nullable bytea/text column values.
func Columns(a *Attachment) ([]byte, *string) {
	if a == nil {
		return nil, nil
	}
	ct := a.ContentType
	return a.Data, &ct
}

// FromColumns rebuilds an attachment from nullable columns. A NULL
// content type means no attachment was stored.
func FromColumns(data []byte, contentType *string) *Attachment {
	if contentType == nil {
		return nil
	}
	return &Attachment{Data: data, ContentType: *contentType}
}
