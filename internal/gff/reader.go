// Package gff provides line-oriented access to GFF3 and GTF annotation files.
package gff

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single annotation line.
const maxLineSize = 1024 * 1024

// Reader yields annotation lines one at a time. It reads each line once and
// cannot be restarted.
type Reader struct {
	scanner    *bufio.Scanner
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// Open opens an annotation file for reading. "-" reads from stdin.
// Gzip-compressed files are detected by their magic bytes.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation file: %w", err)
	}

	r := &Reader{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read annotation header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek annotation file: %w", err)
	}

	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.scanner = newScanner(r.gzipReader)
	} else {
		r.scanner = newScanner(file)
	}

	return r, nil
}

// NewReader reads annotation lines from rd. The caller owns rd.
func NewReader(rd io.Reader) *Reader {
	return &Reader{scanner: newScanner(rd)}
}

func newScanner(rd io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(rd)
	s.Buffer(make([]byte, 64*1024), maxLineSize)
	return s
}

// Scan advances to the next line.
func (r *Reader) Scan() bool {
	if !r.scanner.Scan() {
		return false
	}
	r.lineNumber++
	return true
}

// Text returns the current line without its trailing newline.
func (r *Reader) Text() string {
	return r.scanner.Text()
}

// Err returns the first read error, if any.
func (r *Reader) Err() error {
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("read annotation line %d: %w", r.lineNumber+1, err)
	}
	return nil
}

// LineNumber returns the number of lines read so far.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the underlying file. It is a no-op for readers built with
// NewReader.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// LineSource is the pull interface consumed by graph ingestion.
type LineSource interface {
	Scan() bool
	Text() string
	Err() error
}

// ctxSource stops a LineSource once its context is done.
type ctxSource struct {
	ctx context.Context
	src LineSource
	err error
}

// WithContext wraps src so that scanning stops when ctx is cancelled. Err
// then reports ctx.Err().
func WithContext(ctx context.Context, src LineSource) LineSource {
	return &ctxSource{ctx: ctx, src: src}
}

func (c *ctxSource) Scan() bool {
	if c.err != nil {
		return false
	}
	select {
	case <-c.ctx.Done():
		c.err = c.ctx.Err()
		return false
	default:
	}
	return c.src.Scan()
}

func (c *ctxSource) Text() string {
	return c.src.Text()
}

func (c *ctxSource) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.src.Err()
}
