package challenge

import (
	"regexp"
	"strings"
)

// Detector flags page text that looks like a bot wall or captcha.
// Detection is advisory; the crawler never trusts it enough to skip the
// operator pause in interactive mode.
type Detector struct {
	patterns []*regexp.Regexp
}

// NewDetector compiles the known challenge phrasings.
func NewDetector() *Detector {
	return &Detector{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)captcha`),
			regexp.MustCompile(`(?i)verify you are (?:a )?human`),
			regexp.MustCompile(`(?i)are you a robot`),
			regexp.MustCompile(`(?i)access denied`),
			regexp.MustCompile(`(?i)checking your browser`),
			regexp.MustCompile(`(?i)security check`),
			regexp.MustCompile(`(?i)too many requests`),
			regexp.MustCompile(`(?i)unusual traffic`),
		},
	}
}

// Detect reports whether the text matches a challenge pattern and, if
// so, which one.
func (d *Detector) Detect(text string) (bool, string) {
	lowered := strings.ToLower(text)
	for _, p := range d.patterns {
		if p.MatchString(lowered) {
			return true, p.String()
		}
	}
	return false, ""
}
