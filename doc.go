// Package recordgen generates large synthetic text files of pseudo-random
// records, for use as fixtures when testing external sort and dedup tools
// on multi-gigabyte inputs.
//
// Every record has the form "<id>.<word><terminator>", where id is a
// uniformly distributed integer in a configured inclusive range and word is
// drawn uniformly from a fixed word list. Records are generated until the
// file reaches a target size; the final size may exceed the target by less
// than one buffer per worker.
//
// # Basic Usage
//
// Generating a file:
//
//	gen, err := recordgen.NewGenerator("input.txt", 2<<30,
//	    recordgen.WithBufferSize(1<<20),
//	    recordgen.WithIDRange(1, 10_000_000))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := gen.Generate(ctx)
//	if err != nil {
//	    log.Fatalf("wrote %d bytes in %v: %v", res.Written, res.Elapsed, err)
//	}
//
// Checking a generated file:
//
//	rep, err := recordgen.Verify("input.txt", recordgen.WithIDRange(1, 10_000_000))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stat, p := rep.WordUniformity()
//
// # Pipeline
//
// The parallel strategy runs one producer goroutine per worker and a single
// writer goroutine:
//
//   - Producers rent fixed-size buffers from a pool, fill them with whole
//     records and push them onto an unbounded handoff queue.
//   - A shared atomic counter tracks bytes produced; producers stop once it
//     reaches the target and mark themselves finished.
//   - The writer drains the queue in arrival order, writes each buffer to
//     the output file and returns it to the pool. It exits once every
//     producer has finished and the queue is empty.
//
// Record order across buffers is not defined.
//
// # Package Structure
//
//   - Public API: generator.go (NewGenerator, Generate), verify.go (Verify)
//   - Configuration: generator_options.go (Option, With* functions)
//   - Strategies: generator_parallel.go, generator_sequential.go
//   - Output: output_file.go, reserve_*.go, readahead_*.go
//   - Internals: internal/record, internal/bufpool, internal/governor,
//     internal/handoff, internal/words, internal/monitor
package recordgen
