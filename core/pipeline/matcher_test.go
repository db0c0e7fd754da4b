package pipeline

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	pattern := regexp.MustCompile(`(?P<kind>[a-z]+)/(?P<year>\d{4})\.json$`)

	t.Run("CapturesNamedGroups", func(t *testing.T) {
		m, err := newMatcher(Criterion{Pattern: pattern})
		require.NoError(t, err)

		groups, ok := m.match("docs/2021.json", "")
		assert.True(t, ok)
		assert.Equal(t, map[string]string{"kind": "docs", "year": "2021"}, groups)
	})

	t.Run("AnchoredAtStart", func(t *testing.T) {
		m, err := newMatcher(Criterion{Pattern: regexp.MustCompile(`\d{4}\.json$`)})
		require.NoError(t, err)

		_, ok := m.match("x/2021.json", "")
		assert.False(t, ok)
		_, ok = m.match("2021.json", "")
		assert.True(t, ok)
	})

	t.Run("BaseDirIsStringPrefix", func(t *testing.T) {
		m, err := newMatcher(Criterion{Pattern: regexp.MustCompile(`.*`)})
		require.NoError(t, err)

		_, ok := m.match("a/bc/file", "a/b")
		assert.True(t, ok)
		_, ok = m.match("a/c/file", "a/b")
		assert.False(t, ok)
	})

	t.Run("FieldFilterAccepts", func(t *testing.T) {
		m, err := newMatcher(Criterion{Pattern: pattern, FieldFilter: map[string]string{"year": `202[12]`}})
		require.NoError(t, err)

		_, ok := m.match("docs/2021.json", "")
		assert.True(t, ok)
	})

	t.Run("FieldFilterRejects", func(t *testing.T) {
		m, err := newMatcher(Criterion{Pattern: pattern, FieldFilter: map[string]string{"kind": `logs`}})
		require.NoError(t, err)

		_, ok := m.match("docs/2021.json", "")
		assert.False(t, ok)
	})

	t.Run("FieldFilterMatchesFromStart", func(t *testing.T) {
		m, err := newMatcher(Criterion{Pattern: pattern, FieldFilter: map[string]string{"year": `21`}})
		require.NoError(t, err)

		_, ok := m.match("docs/2021.json", "")
		assert.False(t, ok)
	})

	t.Run("UnknownFieldRejectedUpFront", func(t *testing.T) {
		_, err := newMatcher(Criterion{Pattern: pattern, FieldFilter: map[string]string{"month": `.*`}})
		assert.True(t, errors.Is(err, ErrUnknownField))
	})

	t.Run("InvalidFilterPattern", func(t *testing.T) {
		_, err := newMatcher(Criterion{Pattern: pattern, FieldFilter: map[string]string{"year": `(`}})
		assert.True(t, errors.Is(err, ErrInvalidPattern))
	})

	t.Run("MissingPattern", func(t *testing.T) {
		_, err := newMatcher(Criterion{})
		assert.True(t, errors.Is(err, ErrConfiguration))
	})

	t.Run("NonParticipatingGroupIsAbsent", func(t *testing.T) {
		optional := regexp.MustCompile(`(?P<name>[a-z]+)(?:-(?P<version>v\d+))?\.txt$`)
		m, err := newMatcher(Criterion{Pattern: optional, FieldFilter: map[string]string{"version": `.*`}})
		require.NoError(t, err)

		_, ok := m.match("notes.txt", "")
		assert.False(t, ok)

		groups, ok := m.match("notes-v2.txt", "")
		assert.True(t, ok)
		assert.Equal(t, "v2", groups["version"])
	})
}
