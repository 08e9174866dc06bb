package main

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
)

// maxUploadMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const maxUploadMemory = 32 << 20

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func parseMultipart(c echo.Context) (*multipart.Form, error) {
	r := c.Request()
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, err
	}
	return r.MultipartForm, nil
}

// bindMultipart parses the multipart body and decodes its text fields into
// dst using the schema struct tags.
func bindMultipart(c echo.Context, dst any) (*multipart.Form, error) {
	form, err := parseMultipart(c)
	if err != nil {
		return nil, err
	}
	if err := formDecoder.Decode(dst, form.Value); err != nil {
		return nil, err
	}
	return form, nil
}

// openFormFile opens the first file of field. It returns http.ErrMissingFile
// when the field is absent.
func openFormFile(form *multipart.Form, field string) (multipart.File, *multipart.FileHeader, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil, http.ErrMissingFile
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, nil, err
	}
	return f, files[0], nil
}

// checkbox accepts an HTML checkbox ("on"), a boolean string or a JSON
// boolean.
type checkbox bool

func (cb *checkbox) set(s string) {
	s = strings.ToLower(strings.TrimSpace(s))
	*cb = checkbox(s == "on" || s == "true" || s == "1")
}

// UnmarshalParam implements echo.BindUnmarshaler for form bodies.
func (cb *checkbox) UnmarshalParam(s string) error {
	cb.set(s)
	return nil
}

func (cb *checkbox) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*cb = checkbox(t)
	case string:
		cb.set(t)
	case nil:
		*cb = false
	default:
		return errors.New("checkbox: unsupported value")
	}
	return nil
}
