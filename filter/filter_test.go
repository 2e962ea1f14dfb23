package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/catalog"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func testTitles() []catalog.Title {
	return []catalog.Title{
		{
			ID:             1,
			Name:           "Oppenheimer",
			Category:       catalog.Movie,
			ReleaseYear:    intPtr(2023),
			Genres:         []string{"Drama", "History"},
			UserRating:     floatPtr(8.4),
			RuntimeMinutes: intPtr(181),
			PosterURL:      "p1",
		},
		{
			ID:          2,
			Name:        "True Detective",
			Category:    catalog.TVSeries,
			ReleaseYear: intPtr(2014),
			Synopsis:    "Detectives hunt a killer in Louisiana.",
			Genres:      []string{"Crime", "Drama"},
			UserRating:  floatPtr(8.9),
		},
		{
			ID:       3,
			Name:     "Untitled Project",
			Category: catalog.Movie,
		},
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasGenre("drama")`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasGenre("unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown field",
			expression: `Popularity > 3`,
			wantErr:    true,
		},
		{
			name:       "non boolean result",
			expression: `Year + 1`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `hasGenre("Drama") and Year > 2020 and Rating >= 8.0 and HasPoster`,
		},
	}

	compiler := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		expected   []int
	}{
		{"genre helper ignores case", `hasGenre("DRAMA")`, []int{1, 2}},
		{"category", `Category == "tv_shows"`, []int{2}},
		{"year and rating", `Year > 2020 and Rating > 8`, []int{1}},
		{"runtime", `Runtime > 120`, []int{1}},
		{"missing details are zero", `Rating == 0 and Year == 0`, []int{3}},
		{"text helper", `containsText(Synopsis, "DETECTIVES")`, []int{2}},
		{"prefix helper", `hasPrefix(Name, "true")`, []int{2}},
		{"builtin operators", `lower(Name) contains "project"`, []int{3}},
		{"poster", `not HasPoster`, []int{2, 3}},
		{"genre list", `"History" in Genres`, []int{1}},
	}

	compiler := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			require.NoError(t, err)

			var got []int
			for _, title := range Apply(f, testTitles()) {
				got = append(got, title.ID)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestApply(t *testing.T) {
	titles := testTitles()

	assert.Equal(t, titles, Apply(nil, titles))

	f, err := Parse(NewCompiler(), "")
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = Parse(NewCompiler(), `ID == 99`)
	require.NoError(t, err)
	assert.Empty(t, Apply(f, titles))
}

func TestCompilerCache(t *testing.T) {
	compiler := NewCompiler(WithCache(2))

	first, err := compiler.Compile(`Year > 2000`)
	require.NoError(t, err)
	again, err := compiler.Compile(` Year > 2000 `)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile(`Year > 2001`)
	require.NoError(t, err)
	_, err = compiler.Compile(`Year > 2002`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	compiler.Clear()
	assert.Equal(t, 0, compiler.Size())

	uncached := NewCompiler(WithCache(0))
	_, err = uncached.Compile(`Year > 2000`)
	require.NoError(t, err)
	assert.Equal(t, 0, uncached.Size())
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewCompiler(WithCustomFunctions(map[string]any{
		"isClassic": func(year int) bool { return year > 0 && year < 1980 },
	}))

	f, err := compiler.Compile(`isClassic(Year)`)
	require.NoError(t, err)

	assert.True(t, f.Evaluate(catalog.Title{ReleaseYear: intPtr(1975)}))
	assert.False(t, f.Evaluate(catalog.Title{ReleaseYear: intPtr(2010)}))
}

func TestLRUCacheEviction(t *testing.T) {
	c := newLRUCache[int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
}
