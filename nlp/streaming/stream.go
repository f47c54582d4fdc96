package streaming

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// MaxLineSize bounds a single record; one document per line can be large.
const MaxLineSize = 16 << 20

// Lines calls handler with every non-blank line of r, numbered from 1. The
// slice is only valid during the call. Reading stops at the first handler
// error, which is returned with its line number.
func Lines(r io.Reader, handler func(n int, line []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MaxLineSize)
	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := handler(n, line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return scanner.Err()
}
