package httputil

import (
	stderrors "errors"
	"mime"
	"net/http"

	"github.com/matzehuels/harmonic/pkg/errors"
	"github.com/matzehuels/harmonic/pkg/graph"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes = 8 << 20

// DocumentFormat maps a Content-Type header to a graph document format.
// An empty header means JSON.
func DocumentFormat(contentType string) (string, error) {
	if contentType == "" {
		return graph.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "bad content type %q", contentType)
	}
	switch mt {
	case "application/json":
		return graph.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return graph.FormatYAML, nil
	case "text/plain":
		return graph.FormatText, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
	}
}

// DecodeDocument reads a graph document from the request body, limited to
// maxBytes (DefaultMaxBodyBytes when zero).
func DecodeDocument(w http.ResponseWriter, r *http.Request, maxBytes int64) (*graph.Document, error) {
	format, err := DocumentFormat(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	defer body.Close()

	doc, err := graph.Read(body, format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", maxBytes)
		}
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode graph document")
	}
	return doc, nil
}
