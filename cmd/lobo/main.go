// Command lobo solves a Quadratic Assignment Problem instance from a file
// using the GWO + Tabu Search hybrid and prints the best assignment found.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/copyleftdev/LOBO/internal/config"
	"github.com/copyleftdev/LOBO/internal/logging"
	"github.com/copyleftdev/LOBO/internal/qap"
	"github.com/copyleftdev/LOBO/internal/solver"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

type options struct {
	inputFile     string
	facilityNames []string
	locationNames []string
	cfg           solver.Config
}

func usage(fs *flag.FlagSet, out io.Writer) {
	fmt.Fprintln(out, "lobo - QAP solver, Grey Wolf Optimizer with Tabu Search")
	fmt.Fprintln(out, "Usage: lobo [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fs.SetOutput(out)
	fs.PrintDefaults()
	fs.SetOutput(os.Stderr)
}

// parseArgs validates the command line. Help goes to out (stdout in normal
// operation), parse and validation errors to stderr.
func parseArgs(args []string, defaults *config.Config, out io.Writer) (*options, int, bool) {
	fs := flag.NewFlagSet("lobo", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {}

	d := defaults.Solver
	opts := &options{}
	fs.StringVar(&opts.inputFile, "input-file", "", "path to the QAP instance file (required)")
	packSize := fs.Int("pack-size", d.PackSize, "number of wolves, at least 3")
	maxIterations := fs.Int("max-iterations", d.MaxIterations, "outer loop iteration budget")
	tsIterations := fs.Int("ts-iterations", d.TSIterations, "tabu search budget per call, 0 disables")
	tabuTenure := fs.Int("tabu-tenure", d.TabuTenure, "tabu list capacity")
	tsEvery := fs.Int("ts-every", d.TSEvery, "hybridize every K iterations")
	jitter := fs.Float64("jitter", d.Jitter, "uniform noise magnitude applied before decoding")
	seed := fs.Int64("seed", 0, "random seed; 0 seeds from the clock")
	facilities := fs.String("facility-names", "", "comma-separated facility labels for the final listing")
	locations := fs.String("location-names", "", "comma-separated location labels for the final listing")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			usage(fs, out)
			return nil, 0, false
		}
		usage(fs, os.Stderr)
		return nil, 1, false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		usage(fs, os.Stderr)
		return nil, 1, false
	}
	if opts.inputFile == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: --input-file")
		usage(fs, os.Stderr)
		return nil, 1, false
	}

	opts.cfg = solver.Config{
		PackSize:      *packSize,
		MaxIterations: *maxIterations,
		TSIterations:  *tsIterations,
		TabuTenure:    *tabuTenure,
		TSEvery:       *tsEvery,
		Jitter:        *jitter,
		Seed:          *seed,
	}
	if err := opts.cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, 1, false
	}

	if *facilities != "" {
		opts.facilityNames = strings.Split(*facilities, ",")
	}
	if *locations != "" {
		opts.locationNames = strings.Split(*locations, ",")
	}
	return opts, 0, true
}

func run(args []string, out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	opts, code, ok := parseArgs(args, cfg, out)
	if !ok {
		return code
	}

	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()
	opts.cfg.Logger = logger

	fmt.Fprintf(out, "Loading QAP instance from: %s\n", opts.inputFile)
	inst, err := qap.LoadFile(opts.inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Problem size: %dx%d\n", inst.N, inst.N)

	stats := inst.Stats()
	logger.Debug("instance loaded",
		zap.String("file", opts.inputFile),
		zap.Int("n", inst.N),
		zap.Float64("distance_mean", stats.DistanceMean),
		zap.Float64("flow_mean", stats.FlowMean),
	)

	opts.cfg.Progress = func(iteration int, bestCost int64, improved bool) {
		if iteration == 0 {
			fmt.Fprintf(out, "Initial best cost: %d\n\n", bestCost)
			return
		}
		fmt.Fprintf(out, "Iteration %d: Best cost = %d\n", iteration, bestCost)
	}

	s, err := solver.New(inst, opts.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, "\nStarting Grey Wolf Optimizer + Tabu Search hybrid algorithm...")
	fmt.Fprintf(out, "Pack size: %d, Max iterations: %d\n", opts.cfg.PackSize, opts.cfg.MaxIterations)
	fmt.Fprintf(out, "Tabu Search iterations: %d, Tabu tenure: %d\n", opts.cfg.TSIterations, opts.cfg.TabuTenure)

	res, err := s.Optimize(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, "\n=== FINAL RESULTS ===")
	fmt.Fprintf(out, "Best cost found: %d\n", res.Cost)
	fmt.Fprintln(out, "Best assignment:")
	for i, loc := range res.Assignment {
		fmt.Fprintf(out, "  %s -> %s\n", label(opts.facilityNames, i, "Facility"), label(opts.locationNames, loc, "Location"))
	}
	return 0
}

// label picks the user-supplied name for index i, falling back to a generic
// "<kind> <i>" form when none was given.
func label(names []string, i int, kind string) string {
	if i < len(names) {
		return strings.TrimSpace(names[i])
	}
	return fmt.Sprintf("%s %d", kind, i)
}
