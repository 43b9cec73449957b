package api

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/storefront/internal/domain/product"
)

// form is a multipart/form-data body.
type form struct {
	fields [][2]string
	files  []formFile
}

type formFile struct {
	field  string
	upload product.Upload
}

func newForm() *form { return &form{} }

func (f *form) set(key, value string) *form {
	f.fields = append(f.fields, [2]string{key, value})
	return f
}

// setPtr adds key only when value is non-nil.
func (f *form) setPtr(key string, value *string) *form {
	if value != nil {
		f.set(key, *value)
	}
	return f
}

func (f *form) file(field string, u product.Upload) *form {
	f.files = append(f.files, formFile{field: field, upload: u})
	return f
}

// encode renders the form. Uploaded files are renamed to a random name that
// keeps the original extension.
func (f *form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", errors.Wrapf(err, "write field %s", kv[0])
		}
	}
	for _, ff := range f.files {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(ff.upload.Filename))
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+ff.field+`"; filename="`+name+`"`)
		ct := ff.upload.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", errors.Wrapf(err, "create part %s", ff.field)
		}
		if _, err := part.Write(ff.upload.Data); err != nil {
			return nil, "", errors.Wrapf(err, "write part %s", ff.field)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close form")
	}
	return &buf, w.FormDataContentType(), nil
}
