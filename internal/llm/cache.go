package llm

import (
	"context"
	"log/slog"
)

// FocusCache looks up a previously normalized focus for the same school and
// goal fields. A nil result with nil error means "not cached".
type FocusCache interface {
	LookupFocus(ctx context.Context, req FocusRequest) (*FocusResult, error)
}

// CachedFocusNormalizer consults a cache of earlier runs before calling the
// model. Re-runs over the same documents are common (page-range fixes in
// the school index, new schools added) and the model answers for unchanged
// goals never change, so a hit saves the whole call.
type CachedFocusNormalizer struct {
	Cache FocusCache
	Next  FocusNormalizer
	Log   *slog.Logger
}

func NewCachedFocusNormalizer(cache FocusCache, next FocusNormalizer, logger *slog.Logger) *CachedFocusNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedFocusNormalizer{Cache: cache, Next: next, Log: logger}
}

func (c *CachedFocusNormalizer) NormalizeFocus(ctx context.Context, req FocusRequest) (FocusResult, error) {
	if c.Cache != nil {
		cached, err := c.Cache.LookupFocus(ctx, req)
		if err != nil {
			// Cache trouble is never fatal; fall through to the model.
			c.Log.Warn("llm.focus.cache_error", "school", req.SchoolName, "error", err)
		} else if cached != nil {
			c.Log.Info("llm.focus.cache_hit", "school", req.SchoolName)
			return *cached, nil
		}
	}
	if c.Next == nil {
		return DefaultFocus(), nil
	}
	return c.Next.NormalizeFocus(ctx, req)
}
