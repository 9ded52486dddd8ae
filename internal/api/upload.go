package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/patternfmt/internal/parser"
)

// textFilename names uploads that arrive as a plain "text" form field.
const textFilename = "input.txt"

type upload struct {
	filename string
	title    string
	data     []byte
}

// uploadError carries the HTTP status a failed upload should produce.
type uploadError struct {
	msg  string
	code int
}

func (e *uploadError) Error() string { return e.msg }

// readUpload accepts either a multipart "file" part or a "text" form field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	err := r.ParseMultipartForm(32 << 20)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, &uploadError{"invalid form: " + err.Error(), http.StatusBadRequest}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	up := &upload{title: r.FormValue("title")}

	if r.MultipartForm != nil && len(r.MultipartForm.File["file"]) > 0 {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, &uploadError{"file is required: " + err.Error(), http.StatusBadRequest}
		}
		defer file.Close()

		up.filename = sanitizeFilename(header.Filename)
		if !parser.IsSupportedExtension(up.filename) {
			return nil, &uploadError{fmt.Sprintf("unsupported file type: %s", filepath.Ext(up.filename)), http.StatusBadRequest}
		}
		up.data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if err != nil {
			return nil, &uploadError{"failed to read file", http.StatusInternalServerError}
		}
	} else {
		text, ok := r.Form["text"]
		if !ok {
			return nil, &uploadError{"file or text is required", http.StatusBadRequest}
		}
		up.filename = textFilename
		up.data = []byte(strings.Join(text, "\n"))
	}

	if int64(len(up.data)) > s.cfg.MaxUploadBytes {
		return nil, &uploadError{fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge}
	}
	return up, nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	var ue *uploadError
	if errors.As(err, &ue) {
		jsonError(w, ue.msg, ue.code)
		return
	}
	jsonError(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" || name == "_" {
		name = "unnamed"
	}
	return name
}
