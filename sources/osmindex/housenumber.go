package osmindex

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrHouseNumber is returned when an addr:housenumber value cannot be expanded.
var ErrHouseNumber = errors.New("unparseable house number")

var partSeparator = regexp.MustCompile(`[,;]`)

// ParseHouseNumbers expands an addr:housenumber tag into concrete numbers.
//
// The tag is split on "," and ";". Each part keeps only digits and "-" and
// is read as "start" or "start-end". A range registers start..end-1; the end
// value itself is not included.
//
//	"7"       -> 7
//	"3-5"     -> 3, 4
//	"1,3;5-7" -> 1, 3, 5, 6
func ParseHouseNumbers(tag string) ([]int, error) {
	var numbers []int
	for _, part := range partSeparator.Split(tag, -1) {
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '-' {
				return r
			}
			return -1
		}, part)

		var tokens []string
		for _, tok := range strings.SplitN(cleaned, "-", 3) {
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
		if len(tokens) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrHouseNumber, tag)
		}
		if len(tokens) == 1 {
			tokens = append(tokens, tokens[0])
		}

		start, err := strconv.Atoi(tokens[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrHouseNumber, tag, err)
		}
		end, err := strconv.Atoi(tokens[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrHouseNumber, tag, err)
		}

		if start == end {
			numbers = append(numbers, start)
			continue
		}
		for nr := start; nr < end; nr++ {
			numbers = append(numbers, nr)
		}
	}
	return numbers, nil
}
