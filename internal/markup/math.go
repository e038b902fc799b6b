package markup

import (
	"regexp"
	"strings"
)

var (
	squared   = regexp.MustCompile(`(?i)([a-z0-9])²`)
	cubed     = regexp.MustCompile(`(?i)([a-z0-9])³`)
	fraction  = regexp.MustCompile(`(\d+)/(\d+)`)
	radical   = regexp.MustCompile(`√(\w+)`)
	sqrtCall  = regexp.MustCompile(`sqrt\(([^)]+)\)`)
	quadratic = regexp.MustCompile(`(\w+)\s*=\s*\((-?\w+)\s*±\s*sqrt\(([^)]+)\)\)\s*/\s*([^)]+)`)
)

// ToMath rewrites plain-text notation as KaTeX: ² and ³ become exponents,
// a/b becomes \frac{a}{b}, √x and sqrt(x) become \sqrt{x}, and the
// quadratic formula x = (-b ± sqrt(D)) / A becomes a full fraction with a
// radical. Text with no recognizable notation is returned unchanged.
func ToMath(text string) string {
	katex := squared.ReplaceAllString(text, "${1}^2")
	katex = cubed.ReplaceAllString(katex, "${1}^3")

	// Must run before the generic sqrt rewrite consumes sqrt(D).
	if strings.Contains(katex, "±") && strings.Contains(katex, "sqrt") {
		katex = quadratic.ReplaceAllString(katex, `${1} = \frac{${2} \pm \sqrt{${3}}}{${4}}`)
	}

	katex = fraction.ReplaceAllString(katex, `\frac{${1}}{${2}}`)
	katex = radical.ReplaceAllString(katex, `\sqrt{${1}}`)
	katex = sqrtCall.ReplaceAllString(katex, `\sqrt{${1}}`)
	return katex
}
