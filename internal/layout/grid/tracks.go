// File: internal/layout/grid/tracks.go
package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TrackKind classifies a grid track sizing function.
type TrackKind int

const (
	Fixed TrackKind = iota
	Fraction
	Auto
	MinContent
	MaxContent
	MinMax
)

func (k TrackKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Fraction:
		return "fr"
	case Auto:
		return "auto"
	case MinContent:
		return "min-content"
	case MaxContent:
		return "max-content"
	case MinMax:
		return "minmax"
	}
	return "unknown"
}

// Track is one column or row sizing function.
type Track struct {
	Kind TrackKind
	// Size is the cell count of a Fixed track.
	Size int
	// Percent, when non-zero, sizes a Fixed track relative to the available
	// space instead of Size.
	Percent float64
	// Fr is the flex weight of a Fraction track.
	Fr float64
	// Min and Max bound a MinMax track.
	Min, Max *Track
}

func (t Track) String() string {
	switch t.Kind {
	case Fixed:
		if t.Percent != 0 {
			return strconv.FormatFloat(t.Percent, 'f', -1, 64) + "%"
		}
		return strconv.Itoa(t.Size)
	case Fraction:
		return strconv.FormatFloat(t.Fr, 'f', -1, 64) + "fr"
	case MinMax:
		return fmt.Sprintf("minmax(%s, %s)", bound(t.Min), bound(t.Max))
	}
	return t.Kind.String()
}

// TrackList formats tracks back into a definition string.
func TrackList(tracks []Track) string {
	parts := make([]string, len(tracks))
	for i, t := range tracks {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// ParseTrackDefinition parses a grid-template-columns/rows value such as
// "10 1fr minmax(5, 2fr) repeat(2, auto)". repeat() is expanded textually
// before tokenizing; a repeat() nested inside another is not supported.
// Tokens that cannot be parsed become auto tracks and are reported in the
// returned warnings.
func ParseTrackDefinition(spec string) ([]Track, []string) {
	var warnings []string
	expanded := expandRepeat(spec, &warnings)

	var tracks []Track
	for _, tok := range tokenizeTracks(expanded) {
		if strings.HasPrefix(tok, "[") {
			// Line names are accepted and ignored.
			continue
		}
		t, err := parseTrack(tok)
		if err != nil {
			warnings = append(warnings, err.Error())
			t = Track{Kind: Auto}
		}
		tracks = append(tracks, t)
	}
	return tracks, warnings
}

// MaxRepeatCount is the largest repeat() count honored; larger counts are
// clamped.
const MaxRepeatCount = 1000

// expandRepeat rewrites every top-level repeat(n, tracks) as n copies of
// tracks. The expanded text is not rescanned.
func expandRepeat(spec string, warnings *[]string) string {
	var b strings.Builder
	lower := strings.ToLower(spec)
	for i := 0; i < len(spec); {
		j := strings.Index(lower[i:], "repeat(")
		if j < 0 {
			b.WriteString(spec[i:])
			break
		}
		j += i
		b.WriteString(spec[i:j])
		open := j + len("repeat")
		end := matchParen(spec, open)
		if end < 0 {
			*warnings = append(*warnings, fmt.Sprintf("unterminated repeat() in %q", spec))
			b.WriteString(spec[j:])
			break
		}

		countStr, body, ok := strings.Cut(spec[open+1:end], ",")
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		switch {
		case !ok:
			*warnings = append(*warnings, fmt.Sprintf("repeat() without tracks in %q", spec))
		case err != nil || count < 1:
			*warnings = append(*warnings, fmt.Sprintf("unsupported repeat() count %q; using 1", strings.TrimSpace(countStr)))
			count = 1
			fallthrough
		default:
			if count > MaxRepeatCount {
				*warnings = append(*warnings, fmt.Sprintf("repeat() count %d exceeds %d; clamped", count, MaxRepeatCount))
				count = MaxRepeatCount
			}
			body = strings.TrimSpace(body)
			if strings.Contains(strings.ToLower(body), "repeat(") {
				*warnings = append(*warnings, fmt.Sprintf("nested repeat() is not supported in %q", spec))
			}
			for n := 0; n < count; n++ {
				b.WriteByte(' ')
				b.WriteString(body)
			}
			b.WriteByte(' ')
		}
		i = end + 1
	}
	return b.String()
}

// matchParen returns the index of the ')' closing the '(' at open.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// tokenizeTracks splits on whitespace outside parens, quotes and [line names].
func tokenizeTracks(value string) []string {
	var tokens []string
	for i := 0; i < len(value); {
		if isSpace(value[i]) {
			i++
			continue
		}
		start := i
		if value[i] == '[' {
			end := strings.IndexByte(value[start:], ']')
			if end == -1 {
				tokens = append(tokens, value[start:])
				break
			}
			tokens = append(tokens, value[start:start+end+1])
			i = start + end + 1
			continue
		}

		depth := 0
		var quote byte
		for ; i < len(value); i++ {
			c := value[i]
			if quote != 0 {
				if c == quote {
					quote = 0
				}
				continue
			}
			if c == '"' || c == '\'' {
				quote = c
			} else if c == '(' {
				depth++
			} else if c == ')' {
				depth--
			} else if isSpace(c) && depth <= 0 {
				break
			}
		}
		tokens = append(tokens, value[start:i])
	}
	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func parseTrack(tok string) (Track, error) {
	lower := strings.ToLower(strings.TrimSpace(tok))
	switch lower {
	case "auto":
		return Track{Kind: Auto}, nil
	case "min-content":
		return Track{Kind: MinContent}, nil
	case "max-content":
		return Track{Kind: MaxContent}, nil
	}

	if strings.HasPrefix(lower, "minmax(") && strings.HasSuffix(lower, ")") {
		minStr, maxStr, ok := strings.Cut(lower[len("minmax("):len(lower)-1], ",")
		if !ok {
			return Track{}, fmt.Errorf("minmax() needs two arguments: %q", tok)
		}
		lo, err := parseTrack(minStr)
		if err != nil {
			return Track{}, err
		}
		hi, err := parseTrack(maxStr)
		if err != nil {
			return Track{}, err
		}
		if lo.Kind == MinMax || hi.Kind == MinMax {
			return Track{}, fmt.Errorf("nested minmax() in %q", tok)
		}
		if lo.Kind == Fraction {
			return Track{}, fmt.Errorf("minmax() minimum cannot be flexible: %q", tok)
		}
		return Track{Kind: MinMax, Min: &lo, Max: &hi}, nil
	}

	if strings.HasSuffix(lower, "fr") {
		fr, err := strconv.ParseFloat(strings.TrimSuffix(lower, "fr"), 64)
		if err != nil || fr <= 0 || math.IsInf(fr, 0) {
			return Track{}, fmt.Errorf("invalid flexible track %q", tok)
		}
		return Track{Kind: Fraction, Fr: fr}, nil
	}

	if strings.HasSuffix(lower, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(lower, "%"), 64)
		if err != nil || pct < 0 || math.IsInf(pct, 0) {
			return Track{}, fmt.Errorf("invalid percentage track %q", tok)
		}
		return Track{Kind: Fixed, Percent: pct}, nil
	}

	num := lower
	for _, suffix := range []string{"px", "ch", "c"} {
		if strings.HasSuffix(num, suffix) {
			num = strings.TrimSuffix(num, suffix)
			break
		}
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return Track{}, fmt.Errorf("unsupported track size %q; using auto", tok)
	}
	return Track{Kind: Fixed, Size: n}, nil
}

// CalculateTrackSizes resolves tracks into integer cell sizes for the given
// available space and gap. hints carries per-track content sizes used by
// auto, min-content and max-content tracks; missing hints count as zero.
//
// Sizing runs in three fixed passes:
//  1. fixed and content tracks take their size, minmax tracks their
//     minimum, and all of it plus the gaps comes out of the free space;
//  2. flexible tracks share the remaining space, floor(remaining / totalFr
//     * fr), only when something remains;
//  3. minmax tracks are clamped into [min, max], where an unbounded max
//     means the available space.
func CalculateTrackSizes(tracks []Track, available, gap int, hints []int) []int {
	n := len(tracks)
	if n == 0 {
		return []int{}
	}
	hint := func(i int) float64 {
		if i < len(hints) && hints[i] > 0 {
			return float64(hints[i])
		}
		return 0
	}
	avail := float64(available)
	if avail < 0 {
		avail = 0
	}

	sizes := make([]float64, n)
	remaining := avail - float64(gap*(n-1))
	totalFr := 0.0

	// Pass 1: definite and content-based sizes.
	for i, t := range tracks {
		switch t.Kind {
		case Fixed:
			sizes[i] = fixedSize(t, avail)
			remaining -= sizes[i]
		case Auto, MinContent, MaxContent:
			sizes[i] = hint(i)
			remaining -= sizes[i]
		case MinMax:
			sizes[i] = boundSize(t.Min, avail, hint(i), false)
			remaining -= sizes[i]
			if fr, ok := flexMax(t); ok {
				totalFr += fr
			}
		case Fraction:
			totalFr += t.Fr
		}
	}

	// Pass 2: flexible tracks share what is left.
	if remaining > 0 && totalFr > 0 {
		for i, t := range tracks {
			if t.Kind == Fraction {
				sizes[i] = math.Floor(remaining / totalFr * t.Fr)
			} else if fr, ok := flexMax(t); ok {
				sizes[i] = math.Floor(remaining / totalFr * fr)
			}
		}
	}

	// Pass 3: clamp minmax tracks. Without flexible tracks, leftover space
	// is shared among them first so they can grow towards their maximum.
	var growable []int
	for i, t := range tracks {
		if _, flex := flexMax(t); t.Kind == MinMax && !flex {
			growable = append(growable, i)
		}
	}
	if totalFr == 0 && remaining > 0 && len(growable) > 0 {
		share := math.Floor(remaining / float64(len(growable)))
		for _, i := range growable {
			sizes[i] += share
		}
	}
	for i, t := range tracks {
		if t.Kind != MinMax {
			continue
		}
		lo := boundSize(t.Min, avail, hint(i), false)
		hi := boundSize(t.Max, avail, hint(i), true)
		if hi < lo {
			hi = lo
		}
		sizes[i] = math.Max(lo, math.Min(hi, sizes[i]))
	}

	out := make([]int, n)
	for i, s := range sizes {
		if s > 0 {
			out[i] = int(math.Floor(s))
		}
	}
	return out
}

func fixedSize(t Track, avail float64) float64 {
	if t.Percent != 0 {
		return math.Floor(avail * t.Percent / 100)
	}
	return float64(t.Size)
}

// bound returns a minmax bound, treating a missing one as auto.
func bound(t *Track) Track {
	if t == nil {
		return Track{Kind: Auto}
	}
	return *t
}

// flexMax reports the fr weight of a minmax track with a flexible maximum.
func flexMax(t Track) (float64, bool) {
	if t.Kind != MinMax || t.Max == nil || t.Max.Kind != Fraction {
		return 0, false
	}
	return t.Max.Fr, true
}

// boundSize resolves one side of a minmax(). Flexible and auto maxima are
// unbounded and resolve to the available space.
func boundSize(p *Track, avail, hint float64, isMax bool) float64 {
	t := bound(p)
	switch t.Kind {
	case Fixed:
		return fixedSize(t, avail)
	case MinContent, MaxContent:
		return hint
	case Auto:
		if isMax {
			return avail
		}
		return hint
	case Fraction:
		if isMax {
			return avail
		}
	}
	return 0
}
