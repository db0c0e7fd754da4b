package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Criterion selects candidates during Find: Pattern must match the candidate from its
// start, and every FieldFilter entry must match the named capture of the same name.
type Criterion struct {
	Pattern     *regexp.Regexp
	FieldFilter map[string]string
}

type fieldRule struct {
	name  string
	index int
	re    *regexp.Regexp
}

// matcher is a compiled Criterion.
type matcher struct {
	source  string
	pattern *regexp.Regexp
	names   []string
	rules   []fieldRule
}

func newMatcher(c Criterion) (*matcher, error) {
	if c.Pattern == nil {
		return nil, fmt.Errorf("%w: pattern is required", ErrConfiguration)
	}

	anchored, err := anchor(c.Pattern.String())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, c.Pattern.String(), err)
	}

	m := &matcher{
		source:  c.Pattern.String(),
		pattern: anchored,
		names:   anchored.SubexpNames(),
	}

	// Sorted so rejections are deterministic across runs.
	fields := make([]string, 0, len(c.FieldFilter))
	for field := range c.FieldFilter {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		index := anchored.SubexpIndex(field)
		if field == "" || index < 0 {
			return nil, fmt.Errorf("%w: %q is not declared by pattern %q", ErrUnknownField, field, m.source)
		}
		re, err := anchor(c.FieldFilter[field])
		if err != nil {
			return nil, fmt.Errorf("%w for field %q: %w", ErrInvalidPattern, field, err)
		}
		m.rules = append(m.rules, fieldRule{name: field, index: index, re: re})
	}

	return m, nil
}

// anchor compiles expr so that it only matches at the start of the input.
func anchor(expr string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + expr + ")")
}

// match evaluates one candidate. baseDir is a raw string prefix, so "a/b" also admits "a/bc".
func (m *matcher) match(candidate, baseDir string) (map[string]string, bool) {
	if !strings.HasPrefix(candidate, baseDir) {
		return nil, false
	}

	loc := m.pattern.FindStringSubmatchIndex(candidate)
	if loc == nil {
		return nil, false
	}

	groups := make(map[string]string)
	for i, name := range m.names {
		if name == "" || loc[2*i] < 0 {
			continue
		}
		groups[name] = candidate[loc[2*i]:loc[2*i+1]]
	}

	for _, rule := range m.rules {
		// A group that took no part in the match is absent.
		if loc[2*rule.index] < 0 {
			return nil, false
		}
		if !rule.re.MatchString(groups[rule.name]) {
			return nil, false
		}
	}

	return groups, true
}
