package pipeline

import (
	"context"
	"fmt"
	"iter"
	"regexp"
	"sync/atomic"

	"go.uber.org/zap"
)

// Progress is reported after each candidate evaluated by Find.
type Progress struct {
	// Total is the number of candidates returned by the listing.
	Total int `json:"total"`
	// Completed counts candidates evaluated so far, matched or filtered out.
	Completed int `json:"completed"`
	// Description is a human readable summary.
	Description string `json:"description"`
}

// ProgressFunc receives Progress updates synchronously during iteration.
type ProgressFunc func(Progress)

// FindOptions tunes a Find call. The zero value searches the whole namespace without limit.
type FindOptions struct {
	// BaseDir restricts the search to keys starting with this string.
	// The test is a plain string prefix: "a/b" also admits "a/bc".
	BaseDir string
	// Progress, when set, is called after every evaluated candidate.
	Progress ProgressFunc
	// FieldFilter maps capture group names to patterns the captured value must match from its start.
	FieldFilter map[string]string
	// MaxResults stops the search after that many matches. Non-positive means unbounded.
	MaxResults int
}

// Find lists the namespace under opts.BaseDir and returns the keys matching pattern
// together with their named captures. pattern is applied to the key from its start.
//
// The listing is fetched once, before Find returns; a backend failure is returned
// wrapped in ErrStorageUnavailable. Matching is lazy and follows listing order.
// The returned sequence can be ranged over only once.
func (n *Namespace) Find(ctx context.Context, pattern *regexp.Regexp, opts FindOptions) (iter.Seq2[string, map[string]string], error) {
	m, err := newMatcher(Criterion{Pattern: pattern, FieldFilter: opts.FieldFilter})
	if err != nil {
		n.logger.Error("Invalid find criterion", zap.String("base_dir", opts.BaseDir), zap.Any("field_filter", opts.FieldFilter), zap.Error(err))
		return nil, err
	}

	// Raw concatenation keeps BaseDir a string prefix rather than a path segment.
	prefix := scope(n.root) + opts.BaseDir

	n.logger.Info("Searching storage for keys",
		zap.String("root", n.root),
		zap.String("prefix", prefix),
		zap.String("pattern", m.source),
	)

	objects, err := n.backend.List(ctx, prefix)
	if err != nil {
		n.logger.Error("Error finding keys",
			zap.String("base_dir", opts.BaseDir),
			zap.String("pattern", m.source),
			zap.Any("field_filter", opts.FieldFilter),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: list %q: %w", ErrStorageUnavailable, prefix, err)
	}

	var consumed atomic.Bool
	return func(yield func(string, map[string]string) bool) {
		if !consumed.CompareAndSwap(false, true) {
			return
		}
		defer func() { objects = nil }()

		total := len(objects)
		matched, filtered := 0, 0
		for _, obj := range objects {
			key := Unresolve(n.root, obj.Name)
			if groups, ok := m.match(key, opts.BaseDir); ok {
				if !yield(key, groups) {
					return
				}
				matched++
				if opts.MaxResults > 0 && matched >= opts.MaxResults {
					return
				}
			} else {
				filtered++
			}
			if opts.Progress != nil {
				opts.Progress(newProgress(matched, filtered, total))
			}
		}
	}, nil
}

func newProgress(matched, filtered, total int) Progress {
	return Progress{
		Total:       total,
		Completed:   matched + filtered,
		Description: fmt.Sprintf("%d files loaded (%d filtered)", matched, filtered),
	}
}
