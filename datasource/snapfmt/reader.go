// Package snapfmt implements the pull contract over the SNAP edge-list
// text format: lines of "tail<whitespace>head", comments
// starting with '#', tolerating up to a configured number of malformed
// lines before failing fast with a parse error. This package only reads;
// it is a datasource.Source, not a loader or CLI driver.
package snapfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/datasource"
)

// Reader implements datasource.Source over SNAP-format text.
type Reader struct {
	sc                *bufio.Scanner
	maxMalformedLines int
	malformedSeen     int
	lineNo            int
}

// NewReader wraps r, tolerating up to maxMalformedLines bad lines before
// NextEdge returns an error (0 means fail on the first malformed line,
// matching config.Loader.MaxMalformedLines's zero-value meaning).
func NewReader(r io.Reader, maxMalformedLines int) *Reader {
	return &Reader{sc: bufio.NewScanner(r), maxMalformedLines: maxMalformedLines}
}

// NextEdge returns the next well-formed "tail head" line, skipping blank
// and '#'-comment lines and tolerating malformed ones up to the configured
// budget. It returns (Edge{}, false, nil) at end of input.
func (r *Reader) NextEdge() (datasource.Edge, bool, error) {
	for r.sc.Scan() {
		r.lineNo++
		line := strings.TrimSpace(r.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			if err := r.countMalformed(); err != nil {
				return datasource.Edge{}, false, err
			}
			continue
		}
		tail, err1 := strconv.ParseUint(fields[0], 10, 64)
		head, err2 := strconv.ParseUint(fields[1], 10, 64)
		if err1 != nil || err2 != nil {
			if err := r.countMalformed(); err != nil {
				return datasource.Edge{}, false, err
			}
			continue
		}
		return datasource.Edge{Tail: core.NodeID(tail), Head: core.NodeID(head)}, true, nil
	}
	if err := r.sc.Err(); err != nil {
		return datasource.Edge{}, false, fmt.Errorf("snapfmt: read: %w", err)
	}
	return datasource.Edge{}, false, nil
}

func (r *Reader) countMalformed() error {
	r.malformedSeen++
	if r.malformedSeen > r.maxMalformedLines {
		return fmt.Errorf("snapfmt: line %d: malformed, exceeding tolerance of %d", r.lineNo, r.maxMalformedLines)
	}
	return nil
}
