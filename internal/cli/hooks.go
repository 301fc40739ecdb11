package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks writes pipeline and cache events to the CLI logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLayoutStart(_ context.Context, nodes, edges, pins int) {
	h.logger.Debug("solving layout", "nodes", nodes, "edges", edges, "pins", pins)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "nodes", nodes, "duration", d, "error", err)
		return
	}
	h.logger.Debug("layout solved", "nodes", nodes, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render finished", "formats", formats, "duration", d, "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache write", "type", keyType, "bytes", size)
}
