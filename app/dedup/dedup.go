// Package dedup removes near-duplicate stories republished or cross-posted
// across sources, using URL canonicalization and fuzzy title similarity.
package dedup

import (
	"newspulse/app/feed"
)

// Options hold the empirically chosen dedup knobs. The defaults come from
// production tuning; treat them as product decisions, not invariants.
type Options struct {
	SimilarityThreshold float64
	TitleTruncateLength int
}

func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: 0.7,
		TitleTruncateLength: 60,
	}
}

// Deduplicator detects duplicates across the merged item set of one
// aggregation cycle. All state is local to a single Run call, so concurrent
// cycles never share seen-sets.
type Deduplicator struct {
	opts Options
}

func New(opts Options) *Deduplicator {
	defaults := DefaultOptions()
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = defaults.SimilarityThreshold
	}
	if opts.TitleTruncateLength <= 0 {
		opts.TitleTruncateLength = defaults.TitleTruncateLength
	}
	return &Deduplicator{opts: opts}
}

// Run filters the merged list in one pass, keeping input order. An item is a
// duplicate when its normalized URL or normalized title exactly matches a
// previously kept item, or when its title-token Jaccard similarity against
// any kept item exceeds the threshold. First seen wins, so callers should
// pre-sort by recency or priority when a preference order matters.
func (d *Deduplicator) Run(items []feed.Item) []feed.Item {
	seenURLs := make(map[string]struct{}, len(items))
	seenTitles := make(map[string]struct{}, len(items))
	seenTokenSets := make([]map[string]struct{}, 0, len(items))

	kept := make([]feed.Item, 0, len(items))
	for _, item := range items {
		normURL := NormalizeURL(item.URL)
		normTitle := NormalizeTitle(item.Title, d.opts.TitleTruncateLength)
		tokens := TitleTokens(normTitle)

		if d.isDuplicate(normURL, normTitle, tokens, seenURLs, seenTitles, seenTokenSets) {
			continue
		}

		if normURL != "" && normURL != feed.NoURL {
			seenURLs[normURL] = struct{}{}
		}
		if normTitle != "" {
			seenTitles[normTitle] = struct{}{}
		}
		if len(tokens) > 0 {
			seenTokenSets = append(seenTokenSets, tokens)
		}
		kept = append(kept, item)
	}

	return kept
}

func (d *Deduplicator) isDuplicate(normURL, normTitle string, tokens map[string]struct{},
	seenURLs, seenTitles map[string]struct{}, seenTokenSets []map[string]struct{}) bool {

	if normURL != "" && normURL != feed.NoURL {
		if _, ok := seenURLs[normURL]; ok {
			return true
		}
	}

	if normTitle != "" {
		if _, ok := seenTitles[normTitle]; ok {
			return true
		}
	}

	// O(n*m) scan over kept titles; n stays in the low hundreds per cycle.
	for _, seen := range seenTokenSets {
		if Jaccard(tokens, seen) > d.opts.SimilarityThreshold {
			return true
		}
	}

	return false
}
