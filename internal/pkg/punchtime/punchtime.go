package punchtime

import (
	"regexp"
	"strconv"
	"strings"
)

// Punch is a validated clock time-of-day plus the position the token held in
// its source cell. Punches from one cell keep their source order; they are
// never re-sorted, so an out-of-order sequence stays visible to the anomaly
// checks.
type Punch struct {
	Hour    int
	Minute  int
	Ordinal int
}

// Minutes returns the time-of-day as minutes since midnight.
func (p Punch) Minutes() int {
	return p.Hour*60 + p.Minute
}

func (p Punch) Before(o Punch) bool {
	return p.Minutes() < o.Minutes()
}

func (p Punch) After(o Punch) bool {
	return p.Minutes() > o.Minutes()
}

// String renders the punch back to zero-padded HH:MM.
func (p Punch) String() string {
	var b strings.Builder
	if p.Hour < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(p.Hour))
	b.WriteByte(':')
	if p.Minute < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(p.Minute))
	return b.String()
}

var timePattern = regexp.MustCompile(`\d{1,2}:\d{2}`)

// inlineDelimiters are the separators the clock export is known to emit
// between punches on a single line. Newline is handled separately because it
// is the primary (and most reliable) separator.
var inlineDelimiters = []string{" ", "\t", ",", ";"}

// Parse splits a raw cell value into candidate punch tokens. The strategy is
// a fixed decision tree: newline split first, then pattern extraction for
// inline-delimited text, then a split on the first delimiter found when no
// HH:MM-shaped substring exists at all. Tokens are trimmed and empties
// dropped. Parse never fails; unparseable input yields an empty slice.
func Parse(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if IsEmptyCell(trimmed) {
		return nil
	}

	var tokens []string
	switch {
	case strings.Contains(trimmed, "\n"):
		for _, line := range strings.Split(trimmed, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			// Two punches glued by a single space on one line is a known
			// export glitch, so lines with inline whitespace get pattern
			// extraction instead of a naive split.
			if strings.ContainsAny(line, " \t") {
				tokens = append(tokens, timePattern.FindAllString(line, -1)...)
			} else {
				tokens = append(tokens, line)
			}
		}
	case strings.ContainsAny(trimmed, " \t,;"):
		tokens = timePattern.FindAllString(trimmed, -1)
		if len(tokens) == 0 {
			tokens = strings.Split(trimmed, firstDelimiter(trimmed))
		}
	default:
		tokens = timePattern.FindAllString(trimmed, -1)
	}

	out := tokens[:0]
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsValid reports whether a token is a well-formed 24-hour HH:MM value:
// exactly one colon, decimal digits on both sides, hour 0-23, minute 0-59.
// Malformed tokens are never repaired.
func IsValid(token string) bool {
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return false
	}
	hour, err := parseDigits(parts[0])
	if err != nil {
		return false
	}
	minute, err := parseDigits(parts[1])
	if err != nil {
		return false
	}
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

// Normalize converts tokens to punches in source order, dropping tokens that
// fail validation. Ordinal records each punch's position in the original
// token sequence, so dropped tokens leave visible gaps.
func Normalize(tokens []string) []Punch {
	var punches []Punch
	for i, token := range tokens {
		if !IsValid(token) {
			continue
		}
		parts := strings.SplitN(token, ":", 2)
		hour, _ := strconv.Atoi(parts[0])
		minute, _ := strconv.Atoi(parts[1])
		punches = append(punches, Punch{Hour: hour, Minute: minute, Ordinal: i})
	}
	return punches
}

// MinColonDistance returns the minimum character distance between
// consecutive colons in raw, and false when raw holds fewer than two colons.
// A distance of exactly 3 is the signature of two merged HH:MM tokens that
// lost their separator during import; the anomaly detector owns that
// interpretation, this function only measures.
func MinColonDistance(raw string) (int, bool) {
	var positions []int
	for i, r := range raw {
		if r == ':' {
			positions = append(positions, i)
		}
	}
	if len(positions) < 2 {
		return 0, false
	}
	min := positions[1] - positions[0]
	for i := 2; i < len(positions); i++ {
		if d := positions[i] - positions[i-1]; d < min {
			min = d
		}
	}
	return min, true
}

// CountDelimiters returns how many distinct separator characters (newline,
// space, tab, comma, semicolon) appear in raw.
func CountDelimiters(raw string) int {
	count := 0
	for _, d := range []string{"\n", " ", "\t", ",", ";"} {
		if strings.Contains(raw, d) {
			count++
		}
	}
	return count
}

// IsEmptyCell matches the no-data spellings the spreadsheet layer leaks
// through: empty string plus pandas-style NaN/None renderings.
func IsEmptyCell(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none", "nat":
		return true
	}
	return false
}

func firstDelimiter(s string) string {
	for _, r := range s {
		for _, d := range inlineDelimiters {
			if string(r) == d {
				return d
			}
		}
	}
	return " "
}

func parseDigits(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}
