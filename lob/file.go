package lob

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strconv"
)

// File is the content of a file-bearing field: a TemplateID, RemoteURL,
// HTML or Upload. The first three travel inline as strings; an Upload is
// sent as a multipart part named after the field.
type File interface {
	isFile()
}

// TemplateID references a saved template, e.g. "tmpl_c94e83ca2cd5121".
type TemplateID string

// RemoteURL is a publicly reachable HTML, PDF, PNG or JPG file.
type RemoteURL string

// HTML is an inline HTML document.
type HTML string

// Upload is a local file sent as raw bytes.
type Upload struct {
	Filename string
	Data     []byte
}

func (TemplateID) isFile() {}
func (RemoteURL) isFile()  {}
func (HTML) isFile()       {}
func (Upload) isFile()     {}

var errUploadInBody = errors.New("file upload cannot be encoded inline; it must be sent as a multipart part")

// MarshalJSON always fails: uploads are stripped from request bodies before
// encoding.
func (Upload) MarshalJSON() ([]byte, error) {
	return nil, errUploadInBody
}

// takeUpload strips an Upload out of *f, recording it as a part for field.
func takeUpload(files []formFile, field string, f *File) []formFile {
	switch u := (*f).(type) {
	case Upload:
		*f = nil
		return append(files, formFile{field: field, upload: u})
	case *Upload:
		*f = nil
		if u == nil {
			return files
		}
		return append(files, formFile{field: field, upload: *u})
	}
	return files
}

// isUpload reports whether f carries raw bytes.
func isUpload(f File) bool {
	switch u := f.(type) {
	case Upload:
		return true
	case *Upload:
		return u != nil
	}
	return false
}

// isNilFile reports whether f is unset, treating a nil *Upload as unset.
func isNilFile(f File) bool {
	if f == nil {
		return true
	}
	u, ok := f.(*Upload)
	return ok && u == nil
}

// flattenFields walks a decoded JSON value and emits bracketed form keys:
// {"to":{"name":"A"}} becomes to[name]=A. Keys are emitted in sorted order.
func flattenFields(prefix string, v any, emit func(key, value string)) {
	switch val := v.(type) {
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(val)) {
			key := k
			if prefix != "" {
				key = prefix + "[" + k + "]"
			}
			flattenFields(key, val[k], emit)
		}
	case []any:
		for i, item := range val {
			flattenFields(prefix+"["+strconv.Itoa(i)+"]", item, emit)
		}
	case string:
		emit(prefix, val)
	case json.Number:
		emit(prefix, val.String())
	case bool:
		emit(prefix, strconv.FormatBool(val))
	}
}
