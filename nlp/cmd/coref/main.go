// Command coref resolves mention documents from a file or stdin and writes
// one annotation per document.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oarkflow/coref/nlp/config"
	"github.com/oarkflow/coref/nlp/coref"
	"github.com/oarkflow/coref/nlp/document"
	"github.com/oarkflow/coref/nlp/export"
	"github.com/oarkflow/coref/nlp/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		slog.Error("coref failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("coref", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "coref.yaml", "config file (.yaml, .yml, .bcl or .json)")
	input := fs.String("input", "-", "document file (.json, .yaml); - reads JSON from stdin")
	format := fs.String("format", "json", "output format: json or msgpack")
	workers := fs.Int("workers", -1, "documents resolved in parallel (0 = GOMAXPROCS)")
	sieves := fs.String("sieves", "", "comma separated sieve order, overrides the config")
	chains := fs.Bool("chains", false, "omit singleton clusters")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *sieves != "" {
		cfg.Pipeline.Sieves = strings.Split(*sieves, ",")
	}
	if *workers >= 0 {
		cfg.Pipeline.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	outFormat, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(stderr, cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	docs, err := readDocuments(*input, stdin)
	if err != nil {
		return err
	}
	built, err := cfg.Sieves()
	if err != nil {
		return err
	}
	p := coref.NewPipeline(built, coref.WithLogger(logger))
	results, err := coref.ResolveAll(ctx, p, docs, cfg.Pipeline.Workers)
	if err != nil {
		return err
	}

	annotations := make([]*export.Annotation, len(results))
	for i, r := range results {
		annotations[i] = export.FromResult(r.ID, r.Result, *chains)
	}
	logger.Info("resolved",
		slog.Int("documents", len(results)),
		slog.Any("sieves", p.SieveNames()),
	)
	return export.Write(stdout, outFormat, annotations...)
}

func readDocuments(input string, stdin io.Reader) ([]coref.Document, error) {
	if input != "-" {
		return document.Load(input)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return document.Decode(data)
}
