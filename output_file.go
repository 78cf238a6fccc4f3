package recordgen

import (
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
)

// outputFile is the generated file. It is owned by exactly one writer
// goroutine; nothing else writes to it.
//
// Writes are sequential appends. Every byte written is folded into a
// streaming xxHash64, reported as Result.Checksum.
type outputFile struct {
	file         *os.File
	path         string
	written      int64
	hasher       *xxhash.Digest
	preallocated bool
	closed       bool
}

// createOutputFile creates or truncates path. If preallocate is positive that
// many bytes of disk are reserved first; finish releases whatever was not
// written.
func createOutputFile(path string, preallocate int64) (*outputFile, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	out := &outputFile{
		file:   file,
		path:   path,
		hasher: xxhash.New(),
	}

	if preallocate > 0 {
		if err := reserveSpace(file, preallocate); err != nil {
			primaryErr := fmt.Errorf("failed to reserve %d bytes of disk space: %w", preallocate, err)
			return nil, errors.Join(primaryErr, file.Close())
		}
		out.preallocated = true
	}
	return out, nil
}

// write appends p. A short write is reported as an error by os.File.
func (o *outputFile) write(p []byte) error {
	n, err := o.file.Write(p)
	o.written += int64(n)
	if n > 0 {
		if _, herr := o.hasher.Write(p[:n]); herr != nil {
			panic("hash.Hash.Write returned unexpected error: " + herr.Error())
		}
	}
	if err != nil {
		return fmt.Errorf("write output file at offset %d: %w", o.written, err)
	}
	return nil
}

// checksum returns the xxHash64 of everything written so far.
func (o *outputFile) checksum() uint64 { return o.hasher.Sum64() }

// finish trims preallocated space and closes the file. Idempotent.
func (o *outputFile) finish() error {
	if o.closed {
		return nil
	}
	o.closed = true

	var truncErr error
	if o.preallocated {
		if err := o.file.Truncate(o.written); err != nil {
			truncErr = fmt.Errorf("truncate output file: %w", err)
		}
	}
	var closeErr error
	if err := o.file.Close(); err != nil {
		closeErr = fmt.Errorf("close output file: %w", err)
	}
	return errors.Join(truncErr, closeErr)
}
