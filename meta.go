package grammar

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

// Meta-forms (§4.2), evaluated on the final chosen template immediately
// before reference expansion. Both are applied to a fixpoint: repeatedly
// re-scanned until no occurrence remains, since expanding one occurrence
// can itself introduce more (a %repeat% body containing another
// %repeat%, or a %range% producing digits next to another %range%).
//
// This loops over a cursor instead of recursing on its own output: a single
// alternative can generate a very long intermediate string, and Go has no
// tail-call elimination to rely on.
var (
	metaRepeatPattern = regexp.MustCompile(`(?s)%repeat%\((.*?)\)`)
	metaRepeatSepExpr = regexp.MustCompile(`(?s)^(.*),\s*"(.*?)"\s*$`)
	metaRangePattern  = regexp.MustCompile(`(?s)%range%\((.*?)\)`)
)

// evalMeta applies %repeat% then %range% to s, in that order (§4.2).
func evalMeta(s string, rng *rand.Rand, maxRepeatPower int) (string, error) {
	s, err := evalRepeat(s, rng, maxRepeatPower)
	if err != nil {
		return "", err
	}
	return evalRange(s, rng)
}

func evalRepeat(s string, rng *rand.Rand, maxRepeatPower int) (string, error) {
	for {
		loc := metaRepeatPattern.FindStringSubmatchIndex(s)
		if loc == nil {
			return s, nil
		}

		prefix := s[:loc[0]]
		suffix := s[loc[1]:]
		repval := s[loc[2]:loc[3]]

		body, sep := splitRepeatArgs(repval)

		k, err := sampleRepeatCount(rng, maxRepeatPower)
		if err != nil {
			return "", err
		}

		var b strings.Builder
		b.WriteString(prefix)
		for i := 0; i < k; i++ {
			b.WriteString(body)
			if i != k-1 {
				b.WriteString(sep)
			}
		}
		b.WriteString(suffix)

		s = b.String()
	}
}

// splitRepeatArgs splits "body" or `body, "sep"` into its two parts. A body
// wrapped in double quotes is returned without them.
func splitRepeatArgs(repval string) (body, sep string) {
	body = repval
	if m := metaRepeatSepExpr.FindStringSubmatchIndex(repval); m != nil {
		body, sep = repval[m[2]:m[3]], repval[m[4]:m[5]]
	}
	if len(body) >= 2 && body[0] == '"' && body[len(body)-1] == '"' {
		body = body[1 : len(body)-1]
	}
	return body, sep
}

// sampleRepeatCount chooses K = uniform(1, 2^uniform(1, maxRepeatPower)).
func sampleRepeatCount(rng *rand.Rand, maxRepeatPower int) (int, error) {
	if maxRepeatPower < 1 {
		return 0, fmt.Errorf("MAX_REPEAT_POWER must be a positive integer")
	}
	power := 1 + rng.Intn(maxRepeatPower)
	ceiling := 1 << uint(power)
	return 1 + rng.Intn(ceiling), nil
}

func evalRange(s string, rng *rand.Rand) (string, error) {
	for {
		loc := metaRangePattern.FindStringSubmatchIndex(s)
		if loc == nil {
			return s, nil
		}

		prefix := s[:loc[0]]
		suffix := s[loc[1]:]
		rangeval := s[loc[2]:loc[3]]

		out, err := sampleRange(rangeval, rng)
		if err != nil {
			return "", err
		}

		s = prefix + out + suffix
	}
}

// sampleRange implements the three-way dispatch of §4.2: a single
// character on each side picks a random code point in that range; an
// all-integer range picks a random integer; an all-float range (at least
// one side containing '.') picks a uniform float. A mismatch between the
// two sides is fatal.
func sampleRange(rangeval string, rng *rand.Rand) (string, error) {
	idx := strings.LastIndex(rangeval, "-")
	if idx < 0 {
		return "", fmt.Errorf("malformed range meta %q", rangeval)
	}

	startval := rangeval[:idx]
	endval := rangeval[idx+1:]

	if len(startval) == 1 && len(endval) == 1 {
		lo, hi := int(startval[0]), int(endval[0])
		if hi < lo {
			return "", fmt.Errorf("invalid range bounds %q", rangeval)
		}
		return string(rune(lo + rng.Intn(hi-lo+1))), nil
	}

	startHasDot := strings.Contains(startval, ".")
	endHasDot := strings.Contains(endval, ".")

	if startHasDot != endHasDot {
		return "", fmt.Errorf("range meta int/float mismatch in %q", rangeval)
	}

	if !startHasDot {
		lo, err1 := strconv.Atoi(startval)
		hi, err2 := strconv.Atoi(endval)
		if err1 != nil || err2 != nil {
			return "", fmt.Errorf("malformed integer range %q", rangeval)
		}
		if hi < lo {
			return "", fmt.Errorf("invalid range bounds %q", rangeval)
		}
		return strconv.Itoa(lo + rng.Intn(hi-lo+1)), nil
	}

	lo, err1 := strconv.ParseFloat(startval, 64)
	hi, err2 := strconv.ParseFloat(endval, 64)
	if err1 != nil || err2 != nil {
		return "", fmt.Errorf("malformed float range %q", rangeval)
	}
	return strconv.FormatFloat(lo+rng.Float64()*(hi-lo), 'g', -1, 64), nil
}
