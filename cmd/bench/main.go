// Bench measures fixture generation throughput and memory usage for each
// strategy across worker counts.
//
// Usage:
//
//	go run ./cmd/bench -size 1GiB -workers 1,2,4,8
//
// Flags:
//
//	-size       Target file size (default: 512MiB)
//	-buffer     Buffer size per producer (default: 1MiB)
//	-workers    Comma-separated producer counts for the parallel strategy (default: 1,2,4,NumCPU)
//	-sequential Include the sequential baseline (default: true)
//	-dir        Directory for output files (default: a fresh temp dir)
//	-seed       Run seed, fixed so runs are comparable (default: 0x1234)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tamirms/recordgen"
	"github.com/tamirms/recordgen/internal/monitor"
)

type benchCase struct {
	strategy recordgen.Strategy
	workers  int
}

type benchResult struct {
	benchCase
	res      *recordgen.Result
	peakHeap uint64
	peakRSS  uint64
	err      error
}

func main() {
	sizeFlag := flag.String("size", "512MiB", "target file size")
	bufferFlag := flag.String("buffer", "1MiB", "buffer size per producer")
	workersFlag := flag.String("workers", "", "comma-separated worker counts (default 1,2,4,NumCPU)")
	sequentialFlag := flag.Bool("sequential", true, "include the sequential baseline")
	dirFlag := flag.String("dir", "", "directory for output files (default: temp dir)")
	seedFlag := flag.Uint64("seed", 0x1234, "run seed")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (all runs)")
	memprofile := flag.String("memprofile", "", "write memory profile to file (after all runs)")
	flag.Parse()

	target, err := humanize.ParseBytes(*sizeFlag)
	if err != nil {
		fmt.Printf("Invalid -size: %v\n", err)
		return
	}
	bufferSize, err := humanize.ParseBytes(*bufferFlag)
	if err != nil {
		fmt.Printf("Invalid -buffer: %v\n", err)
		return
	}
	workerCounts, err := parseWorkers(*workersFlag)
	if err != nil {
		fmt.Printf("Invalid -workers: %v\n", err)
		return
	}

	dir := *dirFlag
	if dir == "" {
		tmpDir, err := os.MkdirTemp("", "recordgen-bench-")
		if err != nil {
			fmt.Printf("Failed to create temp dir: %v\n", err)
			return
		}
		defer func() { _ = os.RemoveAll(tmpDir) }()
		dir = tmpDir
	}

	var cases []benchCase
	if *sequentialFlag {
		cases = append(cases, benchCase{strategy: recordgen.StrategySequential, workers: 1})
	}
	for _, w := range workerCounts {
		cases = append(cases, benchCase{strategy: recordgen.StrategyParallel, workers: w})
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			return
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			return
		}
		defer pprof.StopCPUProfile()
	}

	results := make([]benchResult, 0, len(cases))
	for i, c := range cases {
		path := filepath.Join(dir, fmt.Sprintf("run-%d.txt", i))
		fmt.Printf("Generating %s with %s x%d...\n", humanize.IBytes(target), c.strategy, c.workers)
		r := runCase(c, path, int64(target), int(bufferSize), *seedFlag)
		results = append(results, r)
		_ = os.Remove(path)
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			fmt.Printf("could not create memory profile: %v\n", err)
		} else {
			runtime.GC() // Get up-to-date statistics
			if err := pprof.WriteHeapProfile(f); err != nil {
				fmt.Printf("could not write memory profile: %v\n", err)
			}
			_ = f.Close()
		}
	}

	printResults(results, target, bufferSize)
}

// runCase runs one configuration while sampling peak heap and RSS every 10ms.
func runCase(c benchCase, path string, target int64, bufferSize int, seed uint64) benchResult {
	out := benchResult{benchCase: c}

	gen, err := recordgen.NewGenerator(path, target,
		recordgen.WithStrategy(c.strategy),
		recordgen.WithWorkers(c.workers),
		recordgen.WithBufferSize(bufferSize),
		recordgen.WithSeed(seed),
	)
	if err != nil {
		out.err = err
		return out
	}

	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	baseline := monitor.Take(nil)

	var peakHeap, peakRSS atomic.Uint64
	peakHeap.Store(baseline.HeapBytes)
	peakRSS.Store(baseline.MaxRSSBytes)
	done := make(chan struct{})
	sampled := make(chan struct{})
	go func() {
		defer close(sampled)
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s := monitor.Take(nil)
				storeMax(&peakHeap, s.HeapBytes)
				storeMax(&peakRSS, s.MaxRSSBytes)
			}
		}
	}()

	out.res, out.err = gen.Generate(context.Background())

	close(done)
	<-sampled
	final := monitor.Take(nil)
	storeMax(&peakHeap, final.HeapBytes)
	storeMax(&peakRSS, final.MaxRSSBytes)

	out.peakHeap = peakHeap.Load() - min(baseline.HeapBytes, peakHeap.Load())
	// getrusage reports the process-wide peak, so later runs only show
	// growth beyond earlier ones.
	out.peakRSS = peakRSS.Load() - baseline.MaxRSSBytes
	return out
}

func storeMax(v *atomic.Uint64, n uint64) {
	for {
		old := v.Load()
		if n <= old || v.CompareAndSwap(old, n) {
			return
		}
	}
}

func parseWorkers(s string) ([]int, error) {
	if s == "" {
		ws := []int{1, 2, 4, runtime.NumCPU()}
		slices.Sort(ws)
		return slices.Compact(ws), nil
	}
	var ws []int
	for f := range strings.SplitSeq(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("worker count %d must be positive", n)
		}
		ws = append(ws, n)
	}
	return ws, nil
}

func printResults(results []benchResult, target, bufferSize uint64) {
	fmt.Printf("\n")
	fmt.Printf("╔════════════════════════╦══════════════╦════════════╦════════════╦════════════╗\n")
	fmt.Printf("║ Target: %-14s ║ Buf: %-7s ║            ║            ║            ║\n",
		humanize.IBytes(target), humanize.IBytes(bufferSize))
	fmt.Printf("╠════════════════════════╬══════════════╬════════════╬════════════╬════════════╣\n")
	fmt.Printf("║ Strategy               ║ Throughput   ║ Time       ║ Peak heap  ║ Peak RSS   ║\n")
	fmt.Printf("╠════════════════════════╬══════════════╬════════════╬════════════╬════════════╣\n")
	for _, r := range results {
		name := fmt.Sprintf("%s x%d", r.strategy, r.workers)
		if r.err != nil {
			fmt.Printf("║ %-22s ║ failed: %v\n", name, r.err)
			continue
		}
		fmt.Printf("║ %-22s ║ %7.1f MB/s ║ %7.2f s  ║ %7.1f MB ║ %7.1f MB ║\n",
			name,
			r.res.Throughput()/1_000_000,
			r.res.Elapsed.Seconds(),
			float64(r.peakHeap)/1_000_000,
			float64(r.peakRSS)/1_000_000,
		)
	}
	fmt.Printf("╚════════════════════════╩══════════════╩════════════╩════════════╩════════════╝\n")
}
