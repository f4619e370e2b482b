package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/ironsheep/ecg-tools-mcp/internal/config"
	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
	"github.com/ironsheep/ecg-tools-mcp/internal/logger"
	"github.com/ironsheep/ecg-tools-mcp/internal/model"
	"github.com/ironsheep/ecg-tools-mcp/internal/pipeline"
	"github.com/ironsheep/ecg-tools-mcp/internal/preview"
	"github.com/ironsheep/ecg-tools-mcp/internal/server"
	"github.com/ironsheep/ecg-tools-mcp/internal/waveform"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version, --help and one-shot commands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("ecg-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
		if err := checkArgs(os.Args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if os.Args[1] == "convert-model" {
			kind, err := model.ConvertArtifact(os.Args[2], os.Args[3])
			if err != nil {
				fmt.Fprintf(os.Stderr, "convert-model: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("wrote %s artifact to %s\n", kind, os.Args[3])
			return
		}
	}

	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	// Logs go to stderr (stdout is for MCP protocol)
	log := logger.Default()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Config error: %v", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warning("%v, using info", err)
		level = logger.LevelInfo
	}
	log.SetLevel(level)
	log.Debug("ECG MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)

	p, err := buildPipeline(cfg, log)
	if err != nil {
		log.Error("Config error: %v", err)
		os.Exit(1)
	}
	exporter := preview.NewExporter(cfg.Export.Dir, log)

	if len(os.Args) > 1 && os.Args[1] == "classify" {
		os.Exit(classifyOnce(p, exporter, os.Args[2:]))
	}

	cache := imaging.NewCanonicalCache(cfg.Processing.CacheEntries)
	srv := server.New(p, exporter, cache, log)
	if err := srv.Run(); err != nil {
		log.Error("Server error: %v", err)
		os.Exit(1)
	}
}

// checkArgs validates a command line without flags handled earlier. Anything
// but a complete classify or convert-model invocation is a usage error, so a
// mistyped command never falls through to the stdio server.
func checkArgs(args []string) error {
	switch args[0] {
	case "classify":
		if len(args) < 2 || len(args) > 3 || (len(args) == 3 && args[2] != "--previews") {
			return fmt.Errorf("usage: ecg-tools-mcp classify <image|-> [--previews]")
		}
	case "convert-model":
		if len(args) != 3 {
			return fmt.Errorf("usage: ecg-tools-mcp convert-model <in> <out.yaml>")
		}
	default:
		return fmt.Errorf("unknown command %q (see --help)", args[0])
	}
	return nil
}

// buildPipeline wires the model store, label table and lead policy from cfg.
func buildPipeline(cfg *config.Config, log *logger.Logger) (*pipeline.Pipeline, error) {
	labels, err := model.NewLabelTable(cfg.Labels.Codes, cfg.Labels.Fallback)
	if err != nil {
		return nil, err
	}
	policy, err := waveform.ParsePolicy(cfg.Processing.MissingLeadPolicy)
	if err != nil {
		return nil, err
	}

	log.Info("models: projection=%s classifier=%s", cfg.Models.Projection, cfg.Models.Classifier)
	store := model.NewStore(cfg.Models.Projection, cfg.Models.Classifier)
	return pipeline.New(store, pipeline.Options{
		Workers: cfg.Processing.Workers,
		Policy:  policy,
		Labels:  &labels,
		Logger:  log,
	}), nil
}

// classifyOnce runs one image through the pipeline and prints the result as
// JSON on stdout. A path of "-" reads the encoded image from stdin. With
// --previews the review artifacts are exported too.
func classifyOnce(p *pipeline.Pipeline, exporter *preview.Exporter, args []string) int {
	path, previews := args[0], false
	if len(args) > 1 && args[1] == "--previews" {
		previews = true
	}

	src := pipeline.FromPath(nil, path)
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read image from stdin: %v\n", err)
			return 1
		}
		src = pipeline.FromBytes(data)
	}

	res, runErr := p.Classify(context.Background(), src)

	out := map[string]interface{}{"result": res}
	if runErr != nil {
		out["error"] = runErr.Error()
	}
	if previews {
		if m, err := exporter.Export(res); err != nil {
			out["preview_error"] = err.Error()
		} else {
			out["previews"] = m
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		return 1
	}
	if runErr != nil {
		return 2
	}
	return 0
}

func printHelp() {
	fmt.Println("ecg-tools-mcp - MCP server for ECG printout classification")
	fmt.Println()
	fmt.Println("Usage: ecg-tools-mcp [options]")
	fmt.Println("       ecg-tools-mcp classify <image|-> [--previews]")
	fmt.Println("       ecg-tools-mcp convert-model <in> <out.yaml>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Printf("  %-26s Config file (default %s)\n", config.EnvConfigPath, config.DefaultPath)
	fmt.Printf("  %-26s Projection model artifact\n", config.EnvProjectionModel)
	fmt.Printf("  %-26s Classifier model artifact\n", config.EnvClassifierModel)
	fmt.Printf("  %-26s Preview export directory\n", config.EnvExportDir)
	fmt.Printf("  %-26s Leads processed in parallel (1-%d)\n", config.EnvWorkers, config.MaxWorkers)
	fmt.Printf("  %-26s Canonical images kept in memory\n", config.EnvCacheEntries)
	fmt.Printf("  %-26s debug, info, warning or error\n", config.EnvLogLevel)
	fmt.Println()
	fmt.Println("Without a command the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
