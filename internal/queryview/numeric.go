package queryview

import (
	"sort"
	"strconv"
	"strings"
)

// NumericValue reads the digits of s as one integer, ignoring everything
// else: "1,200" is 1200 and "~33,000 HP" is 33000. It reports false when s
// has no digits or the digits overflow int64.
func NumericValue(s string) (int64, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, false
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// sortNumeric orders ascending by NumericValue. Values without digits go
// last, keeping their relative order.
func sortNumeric[T any](recs []T, value func(T) string) {
	type key struct {
		n  int64
		ok bool
	}
	keys := make([]key, len(recs))
	idx := make([]int, len(recs))
	for i, rec := range recs {
		n, ok := NumericValue(value(rec))
		keys[i] = key{n: n, ok: ok}
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		switch {
		case ka.ok && kb.ok:
			return ka.n < kb.n
		case ka.ok:
			return true
		default:
			return false
		}
	})

	sorted := make([]T, len(recs))
	for i, j := range idx {
		sorted[i] = recs[j]
	}
	copy(recs, sorted)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
