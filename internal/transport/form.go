package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Form accumulates multipart form-data fields and files. Field keys must
// match the names the server binds to, so resource clients spell them out
// explicitly.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	key, value string
}

type formFile struct {
	key, filename string
	contents      io.Reader
}

func NewForm() *Form {
	return &Form{}
}

// Field adds a plain text field.
func (f *Form) Field(key, value string) *Form {
	f.fields = append(f.fields, formField{key: key, value: value})
	return f
}

// File adds a file part read from contents.
func (f *Form) File(key, filename string, contents io.Reader) *Form {
	f.files = append(f.files, formFile{key: key, filename: filename, contents: contents})
	return f
}

func (f *Form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range f.fields {
		if err := w.WriteField(field.key, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", field.key, err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.key, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %q: %w", file.key, err)
		}
		if _, err := io.Copy(part, file.contents); err != nil {
			return nil, "", fmt.Errorf("copy file %q: %w", file.filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
