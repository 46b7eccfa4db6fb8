// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// =============================================================================
// STREAM READER
// =============================================================================

var dataPrefix = []byte("data: ")

// StreamReader handles line-by-line JSON parsing of streaming chat responses.
//
// Each line holds one ChatResponse object. Lines may carry an SSE-style
// "data: " prefix, which is stripped. Blank lines and "[DONE]" markers are
// skipped, and lines that fail to parse are counted and skipped rather than
// aborting the stream.
type StreamReader struct {
	reader *bufio.Reader
	// strings.Builder avoids quadratic allocations while accumulating
	accumulator strings.Builder
	skipped     int
	done        bool
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader: bufio.NewReader(r),
	}
}

// Process reads the stream to completion, invoking onFragment for each
// non-empty content fragment. Blocks until the final object arrives, the
// body ends, or the context is cancelled.
func (s *StreamReader) Process(ctx context.Context, onFragment FragmentFunc) error {
	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return ErrTimeout
			}
			return ctx.Err()
		default:
		}

		fragment, err := s.readLine()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return ErrTimeout
			}
			return &ClientError{
				Type:    ErrTypeDecode,
				Message: "stream read failed",
				Hint:    hintCheckResponse,
				Cause:   err,
			}
		}

		if fragment != "" && onFragment != nil {
			onFragment(fragment)
		}
		if s.done {
			return nil
		}
	}
}

// readLine consumes one line and returns its content fragment, which may be
// empty for skipped lines. io.EOF signals end of body.
func (s *StreamReader) readLine() (string, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(bytes.TrimSpace(line)) > 0 {
			// Process a final unterminated line.
		} else {
			return "", err
		}
	}

	line = bytes.TrimSpace(line)
	line = bytes.TrimPrefix(line, dataPrefix)
	if len(line) == 0 || bytes.Equal(line, []byte("[DONE]")) {
		return "", nil
	}

	var response ChatResponse
	if err := json.Unmarshal(line, &response); err != nil {
		s.skipped++
		return "", nil
	}

	if response.Done {
		s.done = true
	}

	content := response.Message.Content
	if content != "" {
		s.accumulator.WriteString(content)
	}
	return content, nil
}

// Accumulated returns all content received so far.
func (s *StreamReader) Accumulated() string {
	return s.accumulator.String()
}

// SkippedLines returns the number of malformed lines dropped.
func (s *StreamReader) SkippedLines() int {
	return s.skipped
}

// =============================================================================
// HELPERS
// =============================================================================

// cancelOnClose releases a request deadline when the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	c.cancel()
	return c.ReadCloser.Close()
}

// formatInt formats an integer without pulling in fmt.
func formatInt(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}
