package peer

import (
	"bufio"
	"context"
	"io"
	"sync"
)

// maxLine bounds a single input line. Encoded descriptions are the longest.
const maxLine = 1 << 20

// LineReader reads newline-terminated lines from a stream in a background
// goroutine. A read cancelled through its context never loses a line: the
// line stays queued for the next ReadLine. Several consumers can share one
// LineReader, so signaling and later input can come from the same stdin.
type LineReader struct {
	r     io.Reader
	once  sync.Once
	lines chan string
	err   error
}

// NewLineReader creates a LineReader over r. Nothing is read until the
// first ReadLine.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r, lines: make(chan string)}
}

func (l *LineReader) start() {
	go func() {
		scanner := bufio.NewScanner(l.r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
		for scanner.Scan() {
			l.lines <- scanner.Text()
		}
		l.err = scanner.Err()
		if l.err == nil {
			l.err = io.EOF
		}
		close(l.lines)
	}()
}

// ReadLine returns the next line without its terminator. It returns io.EOF
// once the stream is exhausted, or ctx.Err() when ctx ends first.
func (l *LineReader) ReadLine(ctx context.Context) (string, error) {
	l.once.Do(l.start)
	select {
	case line, ok := <-l.lines:
		if !ok {
			return "", l.err
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
