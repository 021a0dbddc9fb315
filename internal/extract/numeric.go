// Package extract turns raw recognized receipt text into a structured
// extraction draft.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches a maximal unsigned decimal number.
var numberPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// normalizer strips currency glyphs and folds full-width punctuation to
// half-width before number extraction.
var normalizer = strings.NewReplacer(
	"¥", "",
	"￥", "",
	"元", "",
	"：", ":",
	"，", ",",
)

// Normalize removes currency symbols and normalizes full-width punctuation
// in a text fragment.
func Normalize(fragment string) string {
	return normalizer.Replace(fragment)
}

// Resolve extracts every decimal number from the fragment, in order of
// appearance. Returns an empty slice when the fragment contains none.
func Resolve(fragment string) []float64 {
	matches := numberPattern.FindAllString(Normalize(fragment), -1)
	values := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

// MaxValue returns the largest number in the fragment. This is the
// "amount-like numbers are larger than index-like numbers" heuristic:
// on a line carrying both a label code and an amount it picks the amount,
// but it can misfire on lines with large non-monetary numbers. Known
// limitation, kept for extraction compatibility.
func MaxValue(fragment string) (float64, bool) {
	values := Resolve(fragment)
	if len(values) == 0 {
		return 0, false
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max, true
}
