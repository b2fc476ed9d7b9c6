package transport

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	maxConsoleLine = 64 * 1024
	maxJSONLine    = 1024 * 1024
)

// errLineTooLong reports a record that was read past and discarded.
// The reader stays usable.
var errLineTooLong = errors.New("line too long")

// lineReader reads newline-terminated records without ever buffering more
// than max bytes of one record.
type lineReader struct {
	r   *bufio.Reader
	max int
}

func newLineReader(r io.Reader, max int) *lineReader {
	return &lineReader{r: bufio.NewReader(r), max: max}
}

// next returns the next line without its "\n" or "\r\n" terminator.
func (l *lineReader) next() (string, error) {
	var buf []byte
	dropped := false
	for {
		chunk, err := l.r.ReadSlice('\n')
		if !dropped && len(buf)+len(chunk) > l.max+2 {
			dropped, buf = true, nil
		}
		if !dropped {
			buf = append(buf, chunk...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if dropped {
			return "", errLineTooLong
		}
		if err != nil && len(buf) == 0 {
			return "", io.EOF
		}
		line := strings.TrimSuffix(strings.TrimSuffix(string(buf), "\n"), "\r")
		if len(line) > l.max {
			return "", errLineTooLong
		}
		return line, nil
	}
}
