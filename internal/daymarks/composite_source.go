package daymarks

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CompositeSource implements Source with a fallback strategy: sources are
// consulted in order and the first one that knows the date wins.
type CompositeSource struct {
	sources []Source
	logger  *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(logger *zap.Logger, sources ...Source) *CompositeSource {
	return &CompositeSource{
		sources: sources,
		logger:  logger,
	}
}

// Lookup implements Source
func (cs *CompositeSource) Lookup(date time.Time) (Mark, bool) {
	for i, src := range cs.sources {
		if mark, ok := src.Lookup(date); ok {
			cs.logger.Debug("Day mark found",
				zap.Time("date", date),
				zap.Int("source", i),
				zap.Stringer("kind", mark.Kind))
			return mark, true
		}
	}
	return Mark{}, false
}

// fileLoader is a Source backed by a file that must be loaded before use
type fileLoader interface {
	Load() error
	Path() string
}

// LoadFiles loads every file-backed source in the composite. Files that fail
// to load are logged and dropped so the remaining sources keep working.
func (cs *CompositeSource) LoadFiles() error {
	kept := cs.sources[:0]
	var failed int

	for _, src := range cs.sources {
		if fl, ok := src.(fileLoader); ok {
			if err := fl.Load(); err != nil {
				cs.logger.Warn("Failed to load marks file, skipping",
					zap.String("file", fl.Path()),
					zap.Error(err))
				failed++
				continue
			}
		}
		kept = append(kept, src)
	}
	cs.sources = kept

	if failed > 0 && len(kept) == 0 {
		return fmt.Errorf("failed to load any of %d marks sources", failed)
	}
	return nil
}

// Len returns the number of active sources
func (cs *CompositeSource) Len() int {
	return len(cs.sources)
}
