// Recordgen writes a large fixture file of "<id>.<word>" records.
//
// Usage:
//
//	go run ./cmd/recordgen -out Input/input.txt -size 2GiB
//	go run ./cmd/recordgen -size 512MiB -workers 4 -verify
//	go run ./cmd/recordgen -strategy sequential -size 128MiB
//
// Every flag also has a RECORDGEN_* environment variable, e.g.
// RECORDGEN_SIZE=5GiB. Flags win over the environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/tamirms/recordgen"
	"github.com/tamirms/recordgen/internal/monitor"
	"github.com/tamirms/recordgen/internal/words"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "recordgen:", err)
		os.Exit(1)
	}
}

func run() error {
	env, err := loadEnvConfig()
	if err != nil {
		return err
	}

	out := flag.String("out", env.Out, "output file path (parent directories are created)")
	size := flag.String("size", env.Size, "target file size, e.g. 512MiB or 2GB")
	buffer := flag.String("buffer", env.Buffer, "buffer size per producer")
	workers := flag.Int("workers", env.Workers, "producer goroutines (0 = one per CPU)")
	minID := flag.Int64("min-id", env.MinID, "smallest record id")
	maxID := flag.Int64("max-id", env.MaxID, "largest record id")
	wordsPath := flag.String("words", env.Words, "word list file, one word per line (default: built-in fruits)")
	terminator := flag.String("terminator", env.Terminator, "line terminator: lf or crlf")
	strategyName := flag.String("strategy", env.Strategy, "generation strategy: parallel or sequential")
	seed := flag.Uint64("seed", env.Seed, "run seed (0 = random)")
	preallocate := flag.Bool("preallocate", env.Preallocate, "reserve disk space before writing")
	verify := flag.Bool("verify", env.Verify, "scan the file after writing and report uniformity")
	showProgress := flag.Bool("progress", env.Progress, "show a progress bar")
	monitorEvery := flag.Duration("monitor", env.Monitor, "log memory usage at this interval (0 = off)")
	logLevel := flag.String("log-level", env.LogLevel, "log level: debug, info, warn, error")
	logDev := flag.Bool("log-dev", env.LogDev, "human-readable console logs")
	flag.Parse()

	log, err := newLogger(*logLevel, *logDev)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	target, err := humanize.ParseBytes(*size)
	if err != nil {
		return fmt.Errorf("parse -size: %w", err)
	}
	bufferSize, err := humanize.ParseBytes(*buffer)
	if err != nil {
		return fmt.Errorf("parse -buffer: %w", err)
	}
	strategy, ok := recordgen.ParseStrategy(*strategyName)
	if !ok {
		return fmt.Errorf("unknown strategy %q (use parallel or sequential)", *strategyName)
	}
	term, err := terminatorBytes(*terminator)
	if err != nil {
		return err
	}

	formatOpts := []recordgen.Option{
		recordgen.WithIDRange(*minID, *maxID),
		recordgen.WithLineTerminator(term),
	}
	if *wordsPath != "" {
		ws, err := words.Load(*wordsPath)
		if err != nil {
			return err
		}
		formatOpts = append(formatOpts, recordgen.WithWords(ws))
	}

	var written atomic.Int64
	var bar *progressbar.ProgressBar
	if *showProgress {
		bar = progressbar.DefaultBytes(int64(target), "generating")
	}

	opts := append([]recordgen.Option{
		recordgen.WithWorkers(*workers),
		recordgen.WithBufferSize(int(bufferSize)),
		recordgen.WithStrategy(strategy),
		recordgen.WithPreallocate(*preallocate),
		recordgen.WithLogger(log),
		recordgen.WithProgress(func(n, _ int64) {
			written.Store(n)
			if bar != nil {
				_ = bar.Set64(n)
			}
		}),
	}, formatOpts...)
	if *seed != 0 {
		opts = append(opts, recordgen.WithSeed(*seed))
	}

	path, err := filepath.Abs(*out)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	gen, err := recordgen.NewGenerator(path, int64(target), opts...)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// SIGINT/SIGTERM abort the run and leave a truncated file behind.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monCtx, stopMonitor := context.WithCancel(ctx)
	var monWG sync.WaitGroup
	monWG.Go(func() {
		monitor.Run(monCtx, log, *monitorEvery, written.Load)
	})

	res, genErr := gen.Generate(ctx)
	stopMonitor()
	monWG.Wait()
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	if genErr != nil {
		return fmt.Errorf("generation failed after %v with %s of %s written to %s (file is incomplete): %w",
			res.Elapsed, humanize.IBytes(uint64(res.Written)), humanize.IBytes(target), path, genErr)
	}

	fmt.Printf("File generated: %s\n", res.Path)
	fmt.Printf("  Size:       %s (%d bytes, target %d)\n", humanize.IBytes(uint64(res.Written)), res.Written, res.Target)
	fmt.Printf("  Records:    %s\n", humanize.Comma(res.Records))
	fmt.Printf("  Strategy:   %s, %d workers\n", res.Strategy, res.Workers)
	fmt.Printf("  Elapsed:    %v (%s/s)\n", res.Elapsed, humanize.IBytes(uint64(res.Throughput())))
	fmt.Printf("  Checksum:   %016x\n", res.Checksum)
	fmt.Printf("  Seed:       %d\n", gen.Seed())

	if !*verify {
		return nil
	}

	log.Info("verifying", zap.String("path", path))
	rep, err := recordgen.Verify(path, formatOpts...)
	if rep != nil {
		ws, wp := rep.WordUniformity()
		is, ip := rep.IDUniformity()
		fmt.Printf("Verification:\n")
		fmt.Printf("  Records:    %s (%d malformed)\n", humanize.Comma(rep.Records), rep.Malformed)
		fmt.Printf("  Words:      chi2=%.2f p=%.4f\n", ws, wp)
		fmt.Printf("  Ids:        chi2=%.2f p=%.4f\n", is, ip)
		if rep.Checksum != res.Checksum {
			err = errors.Join(err, fmt.Errorf("checksum mismatch: wrote %016x, read %016x", res.Checksum, rep.Checksum))
		}
	}
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	return nil
}
