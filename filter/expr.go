package filter

import (
	"maps"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/marquee/catalog"
)

// DefaultCacheSize is the number of compiled expressions NewCompiler keeps
const DefaultCacheSize = 64

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	custom     map[string]any
}

// CompilerOption configures an expr compiler
type CompilerOption func(*exprCompiler)

// WithCache sets the compiled filter cache size. Zero disables caching.
func WithCache(size int) CompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		} else {
			c.cache = nil
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewCompiler creates an expr-based filter compiler
func NewCompiler(opts ...CompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: make(map[string]any),
		cache:       newLRUCache[CompiledFilter](DefaultCacheSize),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, newCompilationError(expression, "empty expression", nil)
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Unknown identifiers fail here rather than at evaluation time
	program, err := expr.Compile(expression,
		expr.Env(newEnvironment(catalog.Title{}, c.helperFuncs)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, newCompilationError(expression, "does not compile", err)
	}

	f := &exprFilter{
		expression: expression,
		program:    program,
		custom:     c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, f)
	}

	return f, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate reports whether title matches. Runtime errors count as no match.
func (f *exprFilter) Evaluate(title catalog.Title) bool {
	ok, err := f.Run(title)
	return err == nil && ok
}

// Run evaluates the filter and returns any runtime error
func (f *exprFilter) Run(title catalog.Title) (bool, error) {
	result, err := expr.Run(f.program, newEnvironment(title, f.custom))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, TitleID: title.ID, Err: err}
	}
	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// newEnvironment builds the variables and helpers an expression sees for
// one title. The zero Title gives the typed environment used at compile time.
func newEnvironment(t catalog.Title, custom map[string]any) map[string]any {
	env := make(map[string]any, 24)
	addHelperFunctions(env)
	maps.Copy(env, custom)

	rating := 0.0
	if t.UserRating != nil {
		rating = *t.UserRating
	}
	runtime := 0
	if t.RuntimeMinutes != nil {
		runtime = *t.RuntimeMinutes
	}
	genres := t.Genres
	if genres == nil {
		genres = []string{}
	}

	env["ID"] = t.ID
	env["Name"] = t.Name
	env["Year"] = t.Year()
	env["Rating"] = rating
	env["Runtime"] = runtime
	env["Genres"] = genres
	env["Category"] = t.Category.String()
	env["Synopsis"] = t.Synopsis
	env["ReleaseDate"] = t.ReleaseDate
	env["HasPoster"] = t.PosterURL != ""
	env["IMDbID"] = t.External.IMDbID

	env["hasGenre"] = createHasGenreFunc(genres)

	return env
}

// addHelperFunctions adds the title independent helpers to env. The case
// sensitive contains and startsWith operators and the lower and upper
// builtins come with expr itself.
func addHelperFunctions(env map[string]any) {
	env["containsText"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
}

func createHasGenreFunc(genres []string) func(string) bool {
	lowerGenres := make([]string, len(genres))
	for i, g := range genres {
		lowerGenres[i] = strings.ToLower(g)
	}
	return func(genre string) bool {
		return slices.Contains(lowerGenres, strings.ToLower(genre))
	}
}
