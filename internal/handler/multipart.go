package handler

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/sakif/memories/internal/apperror"
	"github.com/sakif/memories/internal/service"
)

// multipartMemory is how much of a multipart body is held in RAM; larger
// parts spill to temp files, which parseMultipart's cleanup removes.
const multipartMemory = 1 << 20

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseMultipart parses the form and returns a cleanup func for its temp files.
func parseMultipart(r *http.Request) (func(), error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, apperror.ValidationFailed("body", "invalid multipart form: "+err.Error())
	}
	return func() { r.MultipartForm.RemoveAll() }, nil
}

// formImage returns the named file part, or nil when the form has none.
// The returned upload reads from an open file; call the close func when done.
func formImage(r *http.Request, field string) (*service.ImageUpload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, apperror.ValidationFailed(field, "reading file: "+err.Error())
	}
	return &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, func() { file.Close() }, nil
}

// formString returns a pointer to the field's value, or nil if it was not sent.
func formString(r *http.Request, field string) *string {
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// formFloat is formString for numeric fields.
func formFloat(r *http.Request, field string) (*float64, error) {
	s := formString(r, field)
	if s == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil, apperror.ValidationFailed(field, field+" must be a number")
	}
	return &f, nil
}
