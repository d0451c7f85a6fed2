package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/evoflux/decision-safety/internal/ledger"
	"github.com/evoflux/decision-safety/internal/quarantine"
)

// #region main

func main() {
	ledgerPath := flag.String("ledger", "", "path to the decision ledger db")
	registryPath := flag.String("registry", "", "path to the quarantine registry directory")
	last := flag.Int("last", 20, "show N most recent rows")
	jsonOut := flag.Bool("json", false, "output as JSON instead of tables")
	flag.Parse()

	if *ledgerPath == "" && *registryPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --ledger path/to/ledger.db [--registry path/to/registry] [--last N] [--json]")
		os.Exit(2)
	}

	if *ledgerPath != "" {
		if err := dumpLedger(*ledgerPath, *last, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	if *registryPath != "" {
		if err := dumpRegistry(*registryPath, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region ledger-dump

func dumpLedger(path string, last int, jsonOut bool) error {
	store, err := ledger.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	decisions, err := store.RecentDecisions(last)
	if err != nil {
		return err
	}
	validations, err := store.RecentValidations(last)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"decisions":   decisions,
			"validations": validations,
		})
	}

	fmt.Printf("recent decisions (%d):\n", len(decisions))
	for _, d := range decisions {
		fmt.Printf("  %-18s risk=%.3f creativity=%.3f key=%-2s %s\n",
			d.TypeID, d.RiskLevel, d.ExpectedCreativity, d.MusicalKey, d.Name)
	}
	fmt.Printf("recent validations (%d):\n", len(validations))
	for _, v := range validations {
		fmt.Printf("  %-18s safe=%-5v risk=%.3f containment=%s\n",
			v.TypeID, v.IsSafe, v.RiskLevel, v.Containment)
	}
	return nil
}

// #endregion ledger-dump

// #region registry-dump

func dumpRegistry(path string, jsonOut bool) error {
	registry, err := quarantine.OpenRegistry(path)
	if err != nil {
		return err
	}
	defer registry.Close()

	sys := quarantine.NewSystem(registry, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stats := sys.Stats(ctx)

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(stats)
	}

	fmt.Println("quarantine registry:")
	fmt.Printf("  entries=%d high_risk=%d mean_risk=%.3f\n", stats.Count, stats.HighRiskCount, stats.MeanRiskLevel)
	if stats.Count > 0 {
		fmt.Printf("  oldest=%s newest=%s\n",
			time.UnixMilli(stats.OldestAt).UTC().Format(time.RFC3339),
			time.UnixMilli(stats.NewestAt).UTC().Format(time.RFC3339))
	}
	return nil
}

// #endregion registry-dump
