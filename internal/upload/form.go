package upload

import (
	"io"
	"net/http"
	"strings"
)

const maxUploadMemory = 10 << 20 // 10 MiB

type PendingFile struct {
	File io.Reader
	Name string
}

func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// FileFromRequest pulls the named file out of a multipart form, or nil
// when the request carries no such file.
func FileFromRequest(r *http.Request, field string) (*PendingFile, error) {
	if !IsMultipart(r) {
		return nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, err
	}

	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &PendingFile{File: file, Name: header.Filename}, nil
}
