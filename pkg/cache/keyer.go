package cache

import "fmt"

// Keyer derives cache keys. Keys are stable across processes so that a
// file, sqlite or redis cache can be shared.
type Keyer interface {
	// LayoutKey identifies a computed layout by the hash of its request
	// document.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the layout parameters that are not part of the
// request document.
type LayoutKeyOpts struct {
	// Tolerance is the residual the layout was verified against.
	Tolerance float64 `json:"tolerance,omitempty"`
}

// ArtifactKeyOpts holds every render option that changes the output bytes.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Style     string  `json:"style"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	Labels    bool    `json:"labels,omitempty"`
	Highlight bool    `json:"highlight,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
	Detailed  bool    `json:"detailed,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() *DefaultKeyer { return &DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), layoutHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
