package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/castframe/matrixgen/internal/api"
	"github.com/castframe/matrixgen/internal/config"
	"github.com/castframe/matrixgen/internal/gitvcs"
	"github.com/castframe/matrixgen/internal/history"
	"github.com/castframe/matrixgen/internal/inspect"
	"github.com/castframe/matrixgen/internal/log"
	"github.com/castframe/matrixgen/internal/matrix"
	"github.com/castframe/matrixgen/internal/storage"
	"github.com/castframe/matrixgen/internal/trigger"
	"github.com/castframe/matrixgen/internal/tui"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "generate":
		os.Exit(runGenerate(args))
	case "inspect":
		os.Exit(runInspect(args))
	case "preview":
		os.Exit(runPreview(args))
	case "serve":
		os.Exit(runServe(args))
	case "config":
		os.Exit(runConfigNoun(args))
	case "history":
		os.Exit(runHistoryNoun(args))
	case "version":
		fmt.Printf("matrixgen version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`matrixgen - CI trigger classification and job-matrix synthesis

Usage:
  matrixgen <command> [flags]

Commands:
  generate    Emit the matrix= line for a trigger context (the CI entry point)
  inspect     Print a human-readable report of the matrix for a context
  preview     Browse the matrix for a context in an interactive TUI
  serve       Run the HTTP preview service
  config      Manage configuration (lock, check)
  history     Query recorded runs (list)
  version     Show version information
  help        Show this help message

Use 'matrixgen <command> -h' for command-specific flags.
`)
}

// --- SHARED PIPELINE ---

// pipelineFlags are the input flags shared by generate/inspect/preview.
type pipelineFlags struct {
	configPath  string
	contextJSON string
	contextFile string
	commit      string
}

func registerPipelineFlags(fs *flag.FlagSet, pf *pipelineFlags) {
	fs.StringVar(&pf.configPath, "config", "", "path to matrixgen.yaml (omit for built-in defaults)")
	fs.StringVar(&pf.contextJSON, "context", "", "trigger context JSON (alternative to the positional argument)")
	fs.StringVar(&pf.contextFile, "context-file", "", "path to a file containing the trigger context JSON")
	fs.StringVar(&pf.commit, "commit", "", "override the resolved commit hash (skips SHA/git resolution)")
}

func loadConfigOrDefaults(path string) (*config.Config, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	return config.Load(path)
}

// readContextInput picks the trigger context bytes from, in order: the
// --context flag, the --context-file flag, or the first positional argument
// (how the workflow engine invokes us).
func readContextInput(pf *pipelineFlags, positional []string) ([]byte, error) {
	switch {
	case pf.contextJSON != "":
		return []byte(pf.contextJSON), nil
	case pf.contextFile != "":
		data, err := os.ReadFile(pf.contextFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read context file: %w", err)
		}
		return data, nil
	case len(positional) > 0:
		return []byte(positional[0]), nil
	}
	return nil, fmt.Errorf("no trigger context: pass it as an argument, --context, or --context-file")
}

// synthesisResult bundles the outcome of one pipeline run.
type synthesisResult struct {
	Context *trigger.Context
	Class   *trigger.Classification
	Commit  string
	Matrix  matrix.Matrix
}

// synthesize runs the core pipeline: parse, classify, resolve, assemble.
func synthesize(ctx context.Context, cfg *config.Config, pf *pipelineFlags, positional []string) (*synthesisResult, error) {
	raw, err := readContextInput(pf, positional)
	if err != nil {
		return nil, err
	}

	tctx, err := trigger.ParseContext(raw)
	if err != nil {
		return nil, err
	}

	class, err := trigger.Classify(tctx, cfg.MergeTrain.Prefix)
	if err != nil {
		return nil, err
	}
	log.Debug("classified trigger", "mode", class.Mode.String(), "ref", tctx.Ref)

	commit := pf.commit
	if commit == "" {
		commit, err = trigger.ResolveCommit(ctx, class, os.Getenv, &gitvcs.Git{})
		if err != nil {
			return nil, err
		}
	}

	policy := matrix.PolicyFromConfig(cfg)
	m := matrix.NewGenerator(policy, class, commit).Assemble()
	return &synthesisResult{Context: tctx, Class: class, Commit: commit, Matrix: m}, nil
}

// --- COMMANDS ---

func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var pf pipelineFlags
	registerPipelineFlags(fs, &pf)
	record := fs.Bool("record", false, "record the emitted matrix in the history database")
	_ = fs.Parse(args)

	cfg, err := loadConfigOrDefaults(pf.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log.Setup(cfg.Service.LogLevel)

	ctx := context.Background()
	res, err := synthesize(ctx, cfg, &pf, fs.Args())
	if err != nil {
		log.Error("matrix generation failed", "error", err)
		return 1
	}

	if err := matrix.Emit(os.Stdout, res.Matrix); err != nil {
		log.Error("failed to emit matrix", "error", err)
		return 1
	}
	log.Info("matrix emitted", "mode", res.Class.Mode.String(), "jobs", len(res.Matrix), "commit", res.Commit)

	if *record {
		if err := recordRun(ctx, cfg, res); err != nil {
			// The matrix is already on stdout; a failed audit write must
			// not fail the CI run.
			log.Warn("failed to record run", "error", err)
		}
	}

	return 0
}

func recordRun(ctx context.Context, cfg *config.Config, res *synthesisResult) error {
	db, err := storage.OpenSQLite(ctx, cfg.History.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	encoded, err := json.Marshal(res.Matrix)
	if err != nil {
		return err
	}

	id, err := history.New(db).Record(ctx, history.RecordRequest{
		Mode:      res.Class.Mode.String(),
		Ref:       res.Context.Ref,
		PRNumber:  res.Class.PRNumber,
		CommitSHA: res.Commit,
		Matrix:    encoded,
		JobCount:  len(res.Matrix),
	})
	if err != nil {
		return err
	}
	log.Debug("run recorded", "run_id", id)
	return nil
}

func runInspect(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	var pf pipelineFlags
	registerPipelineFlags(fs, &pf)
	_ = fs.Parse(args)

	cfg, err := loadConfigOrDefaults(pf.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log.Setup(cfg.Service.LogLevel)

	res, err := synthesize(context.Background(), cfg, &pf, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Print(inspect.BuildReport(res.Class, res.Commit, res.Matrix))
	return 0
}

func runPreview(args []string) int {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	var pf pipelineFlags
	registerPipelineFlags(fs, &pf)
	_ = fs.Parse(args)

	cfg, err := loadConfigOrDefaults(pf.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log.Setup(cfg.Service.LogLevel)

	res, err := synthesize(context.Background(), cfg, &pf, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := tui.Run(res.Class, res.Commit, res.Matrix); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to matrixgen.yaml")
	listen := fs.String("listen", "", "listen address (overrides config)")
	_ = fs.Parse(args)

	cfg, err := loadConfigOrDefaults(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log.Setup(cfg.Service.LogLevel)

	addr := cfg.API.Listen
	if *listen != "" {
		addr = *listen
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runs api.RunLister
	if cfg.History.Path != "" {
		db, err := storage.OpenSQLite(ctx, cfg.History.Path)
		if err != nil {
			log.Warn("history database unavailable, /v1/runs disabled", "error", err)
		} else {
			defer db.Close()
			runs = history.New(db)
		}
	}

	server := api.New(api.Config{
		Listen: addr,
		Prefix: cfg.MergeTrain.Prefix,
		Policy: matrix.PolicyFromConfig(cfg),
	}, runs, log.WithComponent("api"))

	if err := server.Start(ctx); err != nil && err != context.Canceled {
		log.Error("server failed", "error", err)
		return 1
	}
	return 0
}

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: matrixgen config <lock|check> <path>")
		return 1
	}

	action := args[0]
	fs := flag.NewFlagSet("config "+action, flag.ExitOnError)
	_ = fs.Parse(args[1:])

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: matrixgen config %s <path>\n", action)
		return 1
	}
	path := fs.Arg(0)

	switch action {
	case "lock":
		if err := config.Lock(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Locked %s\n", path)
		return 0
	case "check":
		if err := config.Check(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("OK %s\n", path)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", action)
		return 1
	}
}

func runHistoryNoun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: matrixgen history list [flags]")
		return 1
	}

	action := args[0]
	if action != "list" {
		fmt.Fprintf(os.Stderr, "Unknown history action: %s\n", action)
		return 1
	}

	fs := flag.NewFlagSet("history list", flag.ExitOnError)
	configPath := fs.String("config", "", "path to matrixgen.yaml")
	limit := fs.Int("limit", 20, "maximum number of runs to show")
	_ = fs.Parse(args[1:])

	cfg, err := loadConfigOrDefaults(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log.Setup(cfg.Service.LogLevel)

	ctx := context.Background()
	db, err := storage.OpenSQLite(ctx, cfg.History.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer db.Close()

	runs, err := history.New(db).List(ctx, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return 0
	}

	for _, run := range runs {
		pr := "-"
		if run.PRNumber != nil {
			pr = fmt.Sprintf("#%d", *run.PRNumber)
		}
		fmt.Printf("%s  %-18s  %-6s  %2d jobs  %s  %s\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Mode, pr, run.JobCount, run.CommitSHA, run.ID)
	}
	return 0
}
