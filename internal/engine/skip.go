package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// SkipFunc reports whether an image number must be left unused, for
// example because that file was edited by hand and must not be
// overwritten.
type SkipFunc func(n int) bool

func NoSkip(int) bool { return false }

func SkipSet(nums ...int) SkipFunc {
	if len(nums) == 0 {
		return NoSkip
	}
	set := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		set[n] = struct{}{}
	}
	return func(n int) bool {
		_, ok := set[n]
		return ok
	}
}

// maxSkipRange bounds one "a-b" range of a skip list.
const maxSkipRange = 10000

// ParseSkipList parses "3,7-9" style lists. Numbers may be zero padded the
// way the files are named ("003").
func ParseSkipList(s string) ([]int, error) {
	var nums []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		from, err := parseFrameNumber(lo)
		if err != nil {
			return nil, err
		}
		to := from
		if isRange {
			if to, err = parseFrameNumber(hi); err != nil {
				return nil, err
			}
			if to < from {
				return nil, fmt.Errorf("invalid skip range %q", part)
			}
			if to-from >= maxSkipRange {
				return nil, fmt.Errorf("skip range %q is longer than %d", part, maxSkipRange)
			}
		}
		for n := from; n <= to; n++ {
			nums = append(nums, n)
		}
	}
	return nums, nil
}

func parseFrameNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid frame number %q", s)
	}
	return n, nil
}
