package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/orilang/oricore/internal/arc"
	"github.com/orilang/oricore/internal/pool"
	"github.com/orilang/oricore/internal/query"
	"github.com/orilang/oricore/internal/schema"
)

// artifactCacheDump is the schema-tagged JSON shape a session-correlation
// tool would read back for one ArtifactCache round trip.
type artifactCacheDump struct {
	Schema  string `json:"schema"`
	Session string `json:"session"`
	Name    string `json:"name"`
}

type parsedSource struct{ tokenCount int }
type typedSource struct{ tokenCount int }

// runQueryDemo exercises the Engine's memoized tokens->parsed->typed
// pipeline over an edited source, then round-trips a sample ArcFunction
// through the content-addressed ArtifactCache.
func runQueryDemo(verbose bool) {
	parseCalls, typeCalls := 0, 0
	engine := query.NewEngine(
		func(tokens query.TokenList) (parsedSource, error) {
			parseCalls++
			return parsedSource{tokenCount: len(tokens)}, nil
		},
		func(p parsedSource, guard query.CacheGuard) (typedSource, error) {
			typeCalls++
			return typedSource{tokenCount: p.tokenCount}, nil
		},
	)
	engine.Verbose = verbose

	const path = "demo.ori"
	engine.SetSource(path, "let x = 1 + 2")
	if _, err := engine.Typed(path); err != nil {
		fmt.Printf("%s %v\n", red("FAIL:"), err)
		return
	}
	fmt.Printf("%s first run: %d parse call(s), %d type call(s)\n", cyan("query:"), parseCalls, typeCalls)

	// Whitespace-only edit: tokens are unchanged, so this must be a cutoff.
	changed := engine.SetSource(path, "let  x = 1 + 2")
	if _, err := engine.Typed(path); err != nil {
		fmt.Printf("%s %v\n", red("FAIL:"), err)
		return
	}
	fmt.Printf("%s whitespace edit changed=%v, still %d parse call(s)\n", green("OK:"), changed, parseCalls)

	// A real content edit invalidates and retypes.
	engine.SetSource(path, "let x = 1 + 3")
	if _, err := engine.Typed(path); err != nil {
		fmt.Printf("%s %v\n", red("FAIL:"), err)
		return
	}
	fmt.Printf("%s content edit: %d parse call(s), %d type call(s)\n", cyan("query:"), parseCalls, typeCalls)

	runArtifactCacheDemo()
}

func runArtifactCacheDemo() {
	dir, err := os.MkdirTemp("", "oricore-artifact-cache-")
	if err != nil {
		fmt.Printf("%s %v\n", red("FAIL:"), err)
		return
	}
	defer os.RemoveAll(dir)

	cfg := query.DefaultCacheConfig()
	cfg.Dir = dir

	cache, err := query.OpenArtifactCache(cfg)
	if err != nil {
		fmt.Printf("%s %v\n", red("FAIL:"), err)
		return
	}
	defer cache.Close()

	p := pool.NewPool()
	names := pool.NewInterner()
	fn := arc.ArcFunction{
		Name:       names.Intern("answer"),
		ReturnType: p.Int(),
		VarTypes:   []pool.TypeIdx{p.Int()},
		Entry:      0,
		Blocks: []arc.ArcBlock{{
			ID:         0,
			Terminator: arc.Return{Value: arc.ArcVarId(0)},
		}},
	}

	got, err := cache.GetOrCompute(fn)
	if err != nil {
		fmt.Printf("%s %v\n", red("FAIL:"), err)
		return
	}
	fmt.Printf("%s artifact cache round-trip for %q, session %s\n", green("OK:"), names.Lookup(got.Name), cache.Session)

	dump := artifactCacheDump{Schema: schema.QueryV1, Session: cache.Session, Name: names.Lookup(got.Name)}
	if out, err := json.Marshal(dump); err == nil {
		fmt.Printf("%s %s\n", cyan("query:"), out)
	}
}
