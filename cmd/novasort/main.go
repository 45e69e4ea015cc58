package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tuannm99/novasort"
	"github.com/tuannm99/novasort/internal"
	"github.com/tuannm99/novasort/internal/metrics"
	"github.com/tuannm99/novasort/internal/output"
)

const usage = `The first argument is a CSV file
The second argument is the sort columns`

var errUsage = errors.New("novasort: not enough arguments")

type cliArgs struct {
	configPath  string
	capacity    int
	out         string
	codec       string
	keepScratch bool
	dumpMetrics bool

	req novasort.Request
}

func parseArgs(args []string, stderr io.Writer) (cliArgs, error) {
	var a cliArgs
	fs := flag.NewFlagSet("novasort", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&a.configPath, "config", "", "YAML config file")
	fs.IntVar(&a.capacity, "m", 0, "buffer capacity M in records (>= 3)")
	fs.StringVar(&a.out, "out", "", "result path (local) or object name (s3)")
	fs.StringVar(&a.codec, "codec", "", "scratch run codec: none|snappy|zstd|lz4")
	fs.BoolVar(&a.keepScratch, "keep-scratch", false, "keep the scratch directory")
	fs.BoolVar(&a.dumpMetrics, "metrics", false, "print metrics in text format when done")
	if err := fs.Parse(args); err != nil {
		return a, err
	}

	pos := fs.Args()
	if len(pos) < 2 {
		return a, errUsage
	}
	a.req = novasort.Request{Source: pos[0], Columns: pos[1]}
	if len(pos) > 2 {
		a.req.Modes = pos[2]
	}
	return a, nil
}

// applyFlags lets command line flags win over file and env config.
func applyFlags(cfg *internal.NovaSortConfig, a cliArgs) error {
	if a.capacity != 0 {
		cfg.Sort.Capacity = a.capacity
	}
	if a.out != "" {
		cfg.Output.Path = a.out
	}
	if a.codec != "" {
		cfg.Storage.Codec = a.codec
	}
	if a.keepScratch {
		cfg.Sort.KeepScratch = true
	}
	return cfg.Validate()
}

func newSink(ctx context.Context, cfg *internal.NovaSortConfig) (output.Sink, error) {
	if cfg.Output.Kind != "s3" {
		return output.NewLocalSink(cfg.Output.Path), nil
	}

	var optFns []func(*awsconfig.LoadOptions) error
	if cfg.Output.S3.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.Output.S3.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return output.NewS3Sink(s3.NewFromConfig(awsCfg), cfg.Output.S3.Bucket, cfg.Output.S3.Prefix, filepath.Base(cfg.Output.Path))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a, err := parseArgs(args, stderr)
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(stdout, usage)
		return 0
	}
	if err != nil {
		return 2
	}

	cfg, err := internal.LoadConfig(a.configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := applyFlags(cfg, a); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	sink, err := newSink(ctx, cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	reg := metrics.NewRegistry()
	res, err := novasort.NewRunner(cfg, sink, reg).Run(ctx, a.req)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintf(stdout, "Sorted file: %s\n", res.Location)
	if res.ReportPath != "" {
		fmt.Fprintf(stdout, "Report: %s\n", res.ReportPath)
	}
	fmt.Fprintf(stdout, "Elapsed: %dms\n", res.Elapsed.Milliseconds())

	if a.dumpMetrics {
		if err := reg.WriteText(stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
