// Command loom runs a fact/rule document to fixed point and reports the
// derived closure: flag-based configuration, a JSON report struct, and a
// log.Fatal-on-setup-error style.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/cognicore/loom/pkg/loom/config"
	"github.com/cognicore/loom/pkg/loom/rules"
	"github.com/cognicore/loom/pkg/loom/store"
	"github.com/cognicore/loom/pkg/loom/store/memstore"
	"github.com/cognicore/loom/pkg/loom/store/sqlite"
	"github.com/cognicore/loom/pkg/loom/term"
	"github.com/cognicore/loom/pkg/loom/trace"
)

type summary struct {
	RunID        string   `json:"run_id"`
	InitialFacts int      `json:"initial_facts"`
	DerivedFacts int      `json:"derived_facts"`
	TotalFacts   int      `json:"total_facts"`
	Facts        []string `json:"facts,omitempty"`
}

func main() {
	var (
		factsPath = flag.String("facts", "", "Path to a YAML facts document (required)")
		rulesPath = flag.String("rules", "", "Path to a YAML rules document (required)")
		dbPath    = flag.String("db", "", "Optional SQLite path to persist facts and run history across invocations")
		explain   = flag.Bool("explain", false, "Print per-fact provenance instead of the fact list")
		dump      = flag.Bool("dump", false, "Include the full derived fact list in the JSON summary")
	)
	flag.Parse()

	if *factsPath == "" || *rulesPath == "" {
		log.Fatal("both --facts and --rules are required")
	}

	ctx := context.Background()
	runID := uuid.New().String()

	facts, err := config.LoadFacts(*factsPath)
	if err != nil {
		log.Fatalf("load facts: %v", err)
	}
	loadedRules, err := config.LoadRules(*rulesPath, nil)
	if err != nil {
		log.Fatalf("load rules: %v", err)
	}

	st, err := openStore(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	kb := rules.NewKnowledgeBase(facts, loadedRules)
	initialCount := len(kb.Facts)

	startedAt := time.Now()
	var result rules.KnowledgeBase
	var rec *trace.Recorder
	if *explain {
		rec = trace.New()
		result, err = trace.RunAll(ctx, kb, rec)
	} else {
		result, err = rules.InferAll(ctx, kb)
	}
	if err != nil {
		log.Fatalf("infer: %v", err)
	}

	if err := st.SaveFacts(ctx, result.Facts); err != nil {
		log.Fatalf("save facts: %v", err)
	}
	if err := st.SaveRun(ctx, store.RunRecord{
		ID:        runID,
		StartedAt: startedAt,
		FactCount: len(result.Facts),
	}); err != nil {
		log.Fatalf("save run: %v", err)
	}

	if *explain {
		for _, e := range rec.Entries() {
			fmt.Println(rec.Explain(e.Fact))
		}
		return
	}

	s := summary{
		RunID:        runID,
		InitialFacts: initialCount,
		DerivedFacts: len(result.Facts) - initialCount,
		TotalFacts:   len(result.Facts),
	}
	if *dump {
		s.Facts = renderFacts(result.Facts)
	}

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Fatalf("marshal summary: %v", err)
	}
	fmt.Println(string(out))

	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintf(os.Stderr, "derived %s new facts across the run (%s total)\n",
			humanize.Comma(int64(s.DerivedFacts)), humanize.Comma(int64(s.TotalFacts)))
	}
}

func openStore(ctx context.Context, dbPath string) (store.Store, error) {
	if dbPath == "" {
		return memstore.New(), nil
	}
	return sqlite.Open(ctx, dbPath)
}

func renderFacts(facts []term.Term) []string {
	out := make([]string, len(facts))
	for i, f := range facts {
		out[i] = f.String()
	}
	return out
}
