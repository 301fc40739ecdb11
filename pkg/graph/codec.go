package graph

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/harmonic/pkg/errors"
)

// Supported document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".txt", ".edges", ".el":
		return FormatText, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unrecognized graph file extension %q (want .json, .yaml, .yml, .txt, .edges)", filepath.Ext(path))
	}
}

// =============================================================================
// Document Serialization API
// =============================================================================

// ReadFile reads a document, choosing the format from the file extension.
func ReadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Read decodes a document in the given format from r.
// Read does not close r.
func Read(r io.Reader, format string) (*Document, error) {
	switch format {
	case FormatJSON:
		var doc Document
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return &doc, nil
	case FormatYAML:
		var doc Document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return &doc, nil
	case FormatText:
		edges, err := readEdgeList(r)
		if err != nil {
			return nil, err
		}
		return &Document{Edges: edges}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", format)
	}
}

// WriteFile writes a document, choosing the format from the file extension.
// The file is created with 0644 permissions.
func WriteFile(doc *Document, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(doc, f, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Write encodes a document in the given format to w.
// The text format keeps only the edges.
func Write(doc *Document, w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatText:
		bw := bufio.NewWriter(w)
		for _, e := range doc.Edges {
			fmt.Fprintf(bw, "%d %d\n", e.From, e.To)
		}
		return bw.Flush()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", format)
	}
}

// Marshal encodes a document as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(doc, &buf, FormatJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func readEdgeList(r io.Reader) ([]Edge, error) {
	var edges []Edge
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		if len(fields) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: want two node indices, got %q", line, text)
		}
		from, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
		}
		to, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
		}
		edges = append(edges, Edge{From: from, To: to})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read edge list: %w", err)
	}
	return edges, nil
}
