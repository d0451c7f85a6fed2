package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/evoflux/decision-safety/internal/config"
	"github.com/evoflux/decision-safety/internal/generator"
	"github.com/evoflux/decision-safety/internal/ledger"
	"github.com/evoflux/decision-safety/internal/pipeline"
	"github.com/evoflux/decision-safety/internal/quarantine"
	"github.com/evoflux/decision-safety/internal/safety"
	"github.com/evoflux/decision-safety/internal/sanity"
	"github.com/evoflux/decision-safety/internal/telemetry"
)

// #region main

func main() {
	cfg := loadConfig()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	gen, err := generator.New()
	if err != nil {
		log.Fatalf("generator misconfigured: %v", err)
	}

	store, err := ledger.NewStore(cfg.LedgerPath)
	if err != nil {
		log.Fatalf("failed to open ledger: %v", err)
	}
	defer store.Close()

	registry, err := quarantine.OpenRegistry(cfg.RegistryPath)
	if err != nil {
		log.Fatalf("failed to open quarantine registry: %v", err)
	}
	defer registry.Close()

	validatorCfg := safety.DefaultConfig()
	if len(cfg.DestructivePatterns) > 0 {
		validatorCfg.DestructivePatterns = cfg.DestructivePatterns
	}
	validatorCfg.HighRiskAffinities = cfg.HighRiskAffinities
	validatorCfg.HighRiskKeys = cfg.HighRiskKeys

	qsys := quarantine.NewSystem(registry, logger)

	pipe, err := pipeline.New(pipeline.Options{
		Generator:         gen,
		Validator:         safety.NewValidator(validatorCfg),
		Engine:            sanity.NewEngine(sanity.DefaultConfig()),
		Quarantine:        qsys,
		Ledger:            store,
		Logger:            logger,
		MaxPatternWindow:  cfg.MaxPatternWindow,
		MaxFeedbackWindow: cfg.MaxFeedbackWindow,
	})
	if err != nil {
		log.Fatalf("failed to wire pipeline: %v", err)
	}

	opTimeout := time.Duration(cfg.RegistryOpTimeoutMS) * time.Millisecond

	fmt.Println("Decision Safety Pipeline ready.")
	fmt.Printf("  Ledger: %s | Registry: %s\n", cfg.LedgerPath, cfg.RegistryPath)
	fmt.Println("Commands: gen [health stress harmony creativity], assess, feedback <typeId> <rating> <ok> <impact>,")
	fmt.Println("          observe <typeId> <failureRate> <impact> <anomaly> <feedbackScore>, qstats, cleanup, quit")

	lastDecisions := make(map[string]generator.DecisionType)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		switch args[0] {
		case "quit", "exit":
			return
		case "gen":
			runGen(pipe, args[1:], lastDecisions)
		case "assess":
			runAssess(pipe)
		case "feedback":
			runFeedback(pipe, args[1:])
		case "observe":
			runObserve(pipe, args[1:], lastDecisions, opTimeout)
		case "qstats":
			printStats(qsys, opTimeout)
		case "cleanup":
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			fmt.Printf("removed %d expired entries\n", qsys.CleanupExpired(ctx))
			cancel()
		default:
			fmt.Printf("unknown command %q\n", args[0])
		}
	}
}

// #endregion main

// #region commands

func runGen(pipe *pipeline.Pipeline, args []string, lastDecisions map[string]generator.DecisionType) {
	vitals := telemetry.Vitals{
		Health: 0.9, Stress: 0.1, Harmony: 0.8, Creativity: 0.5,
		Timestamp: time.Now().UnixMilli(),
	}
	if len(args) >= 4 {
		vitals.Health = parseFloat(args[0], vitals.Health)
		vitals.Stress = parseFloat(args[1], vitals.Stress)
		vitals.Harmony = parseFloat(args[2], vitals.Harmony)
		vitals.Creativity = parseFloat(args[3], vitals.Creativity)
	}

	result, err := pipe.Step(context.Background(), vitals, telemetry.Metrics{})
	if err != nil {
		log.Printf("step failed: %v", err)
		return
	}
	if result.Halted {
		fmt.Printf("halted: %s\n", result.HaltReason)
		return
	}

	d := result.Decision
	lastDecisions[d.TypeID] = d
	fmt.Printf("%s  %s\n", d.TypeID, d.Name)
	fmt.Printf("  risk=%.3f creativity=%.3f harmony=%.3f key=%s affinity=%s\n",
		d.RiskLevel, d.ExpectedCreativity, d.MusicalHarmony, d.MusicalKey, d.ZodiacAffinity)
	fmt.Printf("  safe=%v validated_risk=%.3f containment=%s concerns=%d\n",
		result.Safety.IsSafe, result.Safety.RiskLevel, result.Safety.Containment, len(result.Safety.Concerns))
	for _, c := range result.Safety.Concerns {
		fmt.Printf("    concern: %s\n", c)
	}
}

func runAssess(pipe *pipeline.Pipeline) {
	vitals := telemetry.Vitals{Health: 0.9, Stress: 0.1, Harmony: 0.8, Creativity: 0.5, Timestamp: time.Now().UnixMilli()}
	a := pipe.Assess(vitals, telemetry.Metrics{})
	fmt.Printf("sanity=%.3f intervention=%s requires_intervention=%v\n", a.SanityLevel, a.Intervention, a.RequiresIntervention)
	for _, c := range a.Concerns {
		fmt.Printf("  concern: %s\n", c)
	}
}

func runFeedback(pipe *pipeline.Pipeline, args []string) {
	if len(args) < 4 {
		fmt.Println("usage: feedback <typeId> <rating 1-10> <ok true|false> <impact>")
		return
	}
	rating, _ := strconv.Atoi(args[1])
	ok := args[2] == "true"
	pipe.Feedback(telemetry.FeedbackEntry{
		DecisionTypeID:      args[0],
		HumanRating:         rating,
		AppliedSuccessfully: ok,
		PerformanceImpact:   parseFloat(args[3], 0),
		Timestamp:           time.Now().UnixMilli(),
	})
	fmt.Println("feedback recorded")
}

func runObserve(pipe *pipeline.Pipeline, args []string, lastDecisions map[string]generator.DecisionType, opTimeout time.Duration) {
	if len(args) < 5 {
		fmt.Println("usage: observe <typeId> <failureRate> <impact> <anomaly> <feedbackScore>")
		return
	}
	d, ok := lastDecisions[args[0]]
	if !ok {
		fmt.Printf("no generated decision with id %q in this session\n", args[0])
		return
	}
	rc := quarantine.RuntimeContext{
		FailureRate:       parseFloat(args[1], 0),
		PerformanceImpact: parseFloat(args[2], 0),
		AnomalyScore:      parseFloat(args[3], 0),
		FeedbackScore:     parseFloat(args[4], 1),
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	result := pipe.ObserveDeployment(ctx, "", d, rc)
	fmt.Printf("instance=%s risk=%.3f quarantine=%v", result.InstanceID, result.Assessment.RiskLevel, result.Assessment.ShouldQuarantine)
	if result.Assessment.ShouldQuarantine {
		fmt.Printf(" duration=%s stored=%v", result.Assessment.RecommendedDuration, result.Quarantined)
	}
	fmt.Println()
	for _, r := range result.Assessment.Reasons {
		fmt.Printf("  reason: %s\n", r)
	}
}

func printStats(qsys *quarantine.System, opTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	stats := qsys.Stats(ctx)
	fmt.Printf("count=%d high_risk=%d mean_risk=%.3f oldest=%d newest=%d\n",
		stats.Count, stats.HighRiskCount, stats.MeanRiskLevel, stats.OldestAt, stats.NewestAt)
}

// #endregion commands

// #region helpers

func loadConfig() *config.Config {
	path := os.Getenv("PIPELINE_CONFIG")
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config %s: %v", path, err)
	}
	return cfg
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

// #endregion helpers
