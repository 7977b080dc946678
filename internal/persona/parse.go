package persona

import (
	"regexp"
	"strings"
)

// Field length caps for parsed collaborator text.
const (
	MaxRoastLen       = 500
	MaxPersonalityLen = 50
	MaxVerdictLen     = 100
)

// Enriched is the merged result of the generative collaborator's free text
// and the local fallback.
type Enriched struct {
	Roast       string `json:"roast"`
	Personality string `json:"personality"`
	Verdict     string `json:"verdict"`
}

var (
	roastRe       = regexp.MustCompile(`(?is)roast\s*:\s*(.+?)(?:personality\s*:|verdict\s*:|$)`)
	personalityRe = regexp.MustCompile(`(?is)personality\s*:\s*(.+?)(?:roast\s*:|verdict\s*:|$)`)
	verdictRe     = regexp.MustCompile(`(?is)verdict\s*:\s*(.+?)(?:roast\s*:|personality\s*:|$)`)
	emphasisRe    = regexp.MustCompile("[*_`#]+")
)

// ParseEnriched extracts the three labeled sections from semi-structured free
// text. Labels match in any case with arbitrary surrounding whitespace. Each
// field that fails to parse falls back independently; a parse problem never
// surfaces as an error.
func ParseEnriched(freeText string, fallbackRoast string, fallback Assignment) Enriched {
	out := Enriched{
		Roast:       truncate(fallbackRoast, MaxRoastLen),
		Personality: truncate(fallback.Personality, MaxPersonalityLen),
		Verdict:     truncate(fallback.Verdict, MaxVerdictLen),
	}
	if strings.TrimSpace(freeText) == "" {
		return out
	}

	if v := extract(roastRe, freeText); v != "" {
		out.Roast = truncate(v, MaxRoastLen)
	}
	if v := extract(personalityRe, freeText); v != "" {
		out.Personality = truncate(v, MaxPersonalityLen)
	}
	if v := extract(verdictRe, freeText); v != "" {
		out.Verdict = truncate(v, MaxVerdictLen)
	}
	return out
}

func extract(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	v := emphasisRe.ReplaceAllString(m[1], "")
	return strings.TrimSpace(v)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
