package normalisers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/inkwell/internal/core/domain"
	"github.com/custodia-labs/inkwell/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw intakes to the best matching normaliser by
// origin type, preferring higher priority.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
}

// Normalise transforms a raw intake using the best matching normaliser.
// It enforces the empty-content contract: extracted text that trims to
// nothing is domain.ErrEmptyContent regardless of the normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawIntake) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n := r.selectNormaliser(raw.Origin)
	if n == nil {
		return nil, domain.ErrUnsupportedFormat
	}

	result, err := n.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(result.Text) == "" {
		return nil, domain.ErrEmptyContent
	}

	return result, nil
}

// SupportedOrigins returns all origin types that can be normalised.
func (r *Registry) SupportedOrigins() []domain.OriginType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[domain.OriginType]bool)
	var origins []domain.OriginType
	for _, n := range r.normalisers {
		for _, o := range n.SupportedOrigins() {
			if !seen[o] {
				seen[o] = true
				origins = append(origins, o)
			}
		}
	}
	sort.Slice(origins, func(i, j int) bool { return origins[i] < origins[j] })
	return origins
}

// selectNormaliser picks the highest-priority normaliser for an origin.
func (r *Registry) selectNormaliser(origin domain.OriginType) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best driven.Normaliser
	for _, n := range r.normalisers {
		for _, o := range n.SupportedOrigins() {
			if o != origin {
				continue
			}
			if best == nil || n.Priority() > best.Priority() {
				best = n
			}
		}
	}
	return best
}
