package transmit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const rangeUnit = "bytes="

var (
	errMalformedRange     = errors.New("malformed range")
	errUnsatisfiableRange = errors.New("range not satisfiable")
)

// byteRange is an inclusive span of a file's bytes
type byteRange struct {
	from int64
	to   int64
}

func (br byteRange) length() int64 {
	return br.to - br.from + 1
}

func (br byteRange) contentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", br.from, br.to, size)
}

// parseRange parses a single-span Range header value against a file of the
// given size. ok is false when the header is absent, uses a unit other than
// bytes or asks for several spans, in which case the whole file is sent. An upper bound past the last
// byte is an error rather than being clamped.
func parseRange(header string, size int64) (br byteRange, ok bool, err error) {
	if header == "" {
		return byteRange{}, false, nil
	}

	if !strings.HasPrefix(header, rangeUnit) {
		return byteRange{}, false, nil
	}

	rangeSet := strings.TrimSpace(strings.TrimPrefix(header, rangeUnit))
	if strings.Contains(rangeSet, ",") {
		return byteRange{}, false, nil
	}

	dash := strings.Index(rangeSet, "-")
	if dash < 0 {
		return byteRange{}, false, errMalformedRange
	}

	first, last := strings.TrimSpace(rangeSet[:dash]), strings.TrimSpace(rangeSet[dash+1:])

	if first == "" {
		// suffix range: the final N bytes
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil || n < 0 {
			return byteRange{}, false, errMalformedRange
		}
		if n == 0 || size == 0 {
			return byteRange{}, false, errUnsatisfiableRange
		}
		if n > size {
			n = size
		}

		return byteRange{from: size - n, to: size - 1}, true, nil
	}

	from, err := strconv.ParseInt(first, 10, 64)
	if err != nil || from < 0 {
		return byteRange{}, false, errMalformedRange
	}

	to := size - 1
	if last != "" {
		to, err = strconv.ParseInt(last, 10, 64)
		if err != nil || to < from {
			return byteRange{}, false, errMalformedRange
		}
	}

	if from >= size || to > size-1 {
		return byteRange{}, false, errUnsatisfiableRange
	}

	return byteRange{from: from, to: to}, true, nil
}
