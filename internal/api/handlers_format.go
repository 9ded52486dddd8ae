package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/dgallion1/patternfmt/internal/classify"
	"github.com/dgallion1/patternfmt/internal/doctree"
	"github.com/dgallion1/patternfmt/internal/parser"
	"github.com/dgallion1/patternfmt/internal/pipeline"
)

// documentResponse is the JSON form of a formatted document.
type documentResponse struct {
	Title    string             `json:"title"`
	Markup   string             `json:"markup"`
	Stats    classify.Stats     `json:"stats"`
	Lines    int                `json:"lines"`
	Sections []*doctree.Section `json:"sections"`
	Dropped  []int              `json:"dropped"`
}

func newDocumentResponse(markup string, doc *doctree.Document, lines int) documentResponse {
	title := doc.Title
	if title == "" {
		title = doctree.DefaultTitle
	}
	resp := documentResponse{
		Title:    title,
		Markup:   markup,
		Stats:    doc.Stats,
		Lines:    lines,
		Sections: doc.Sections,
		Dropped:  doc.Dropped,
	}
	if resp.Sections == nil {
		resp.Sections = []*doctree.Section{}
	}
	if resp.Dropped == nil {
		resp.Dropped = []int{}
	}
	return resp
}

// handleFormat formats one upload synchronously.
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	src, err := parser.Extract(bytes.NewReader(up.data), up.filename, parser.Options{
		PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext,
	})
	switch {
	case errors.Is(err, parser.ErrUnsupportedFormat):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, parser.ErrReadFailed):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	title := up.title
	if title == "" {
		title = s.cfg.DocumentTitle
	}
	res, err := pipeline.Format(r.Context(), src.Text, pipeline.Options{Title: title})
	if err != nil {
		s.log.Warn("format aborted", "filename", up.filename, "error", err)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, newDocumentResponse(res.Markup, res.Document, res.Lines))
}
