package catalog

import (
	"context"

	"go.uber.org/zap"
)

// SlugCache persists discovered name-to-slug mappings so a successful fuzzy
// match only has to happen once per technology.
type SlugCache interface {
	GetSlug(ctx context.Context, key string) (string, bool, error)
	SaveSlug(ctx context.Context, key, slug string) error
}

// ProductLister supplies the live list of valid lifecycle-API slugs.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]string, error)
}

// Discoverer resolves lifecycle slugs for names the static table does not
// cover: cache first, then exact match against the live product list, then
// best-effort fuzzy matching. It sits off the main resolution path; with no
// cache and no lister configured every lookup simply misses.
type Discoverer struct {
	cache    SlugCache
	products ProductLister
	logger   *zap.Logger
}

// NewDiscoverer wires a discoverer. Either collaborator may be nil.
func NewDiscoverer(cache SlugCache, products ProductLister, logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discoverer{cache: cache, products: products, logger: logger}
}

// maxSlugDistance bounds the fuzzy match: anything further than two edits
// from the canonical key is considered a different product.
const maxSlugDistance = 2

// Discover returns the lifecycle slug for a canonical key, or false when no
// plausible slug exists.
func (d *Discoverer) Discover(ctx context.Context, key string) (string, bool) {
	if d.cache != nil {
		if slug, ok, err := d.cache.GetSlug(ctx, key); err == nil && ok {
			return slug, true
		}
	}

	if d.products == nil {
		return "", false
	}
	products, err := d.products.ListProducts(ctx)
	if err != nil {
		d.logger.Sugar().Debugf("slug discovery unavailable for %s: %v", key, err)
		return "", false
	}

	best := ""
	bestDist := maxSlugDistance + 1
	for _, product := range products {
		if product == key {
			best, bestDist = product, 0
			break
		}
		if dist := levenshtein(key, product); dist < bestDist {
			best, bestDist = product, dist
		}
	}
	if best == "" || bestDist > maxSlugDistance {
		return "", false
	}

	if d.cache != nil {
		if err := d.cache.SaveSlug(ctx, key, best); err != nil {
			d.logger.Sugar().Warnf("failed to cache slug %s for %s: %v", best, key, err)
		}
	}
	return best, true
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
