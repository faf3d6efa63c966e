package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

// fuzzyAcceptScore is the minimum normalized similarity (0-1) for a
// fuzzy department match. Below it extraction yields no department
// rather than a forced best guess.
const fuzzyAcceptScore = 0.8

var (
	levelRe    = regexp.MustCompile(`\b(100|200|300|400)\s*level\b`)
	semesterRe = regexp.MustCompile(`\b(first|second)\s*semester\b`)
)

// slangRule is one compiled slang substitution.
type slangRule struct {
	re *regexp.Regexp
	to string
}

// slangRules compiles the slang table with word-boundary anchors so a
// rule only rewrites whole words or phrases. "account" must not touch
// "accounting" and "arch" must leave "research" alone.
var slangRules = compileSlangRules()

func compileSlangRules() []slangRule {
	rules := make([]slangRule, len(slangNormalizations))
	for i, m := range slangNormalizations {
		rules[i] = slangRule{
			re: regexp.MustCompile(`\b` + regexp.QuoteMeta(m.from) + `\b`),
			to: m.to,
		}
	}
	return rules
}

// NormalizeSlang lowercases the text and rewrites informal department
// and term phrasing ("comp sci", "300lvl") onto canonical forms. Rules
// apply in table order against whole words only.
func NormalizeSlang(text string) string {
	text = strings.ToLower(text)
	for _, r := range slangRules {
		text = r.re.ReplaceAllString(text, r.to)
	}
	return text
}

// ExtractFacets pulls level, semester and department out of a query.
// Department detection tries direct substring match against the fixed
// vocabulary first, then fuzzy matching; failures yield an empty
// department, never a guess. Faculty is derived from the department
// via the static table.
func ExtractFacets(text string) domain.Facets {
	text = NormalizeSlang(text)

	var f domain.Facets
	if m := levelRe.FindStringSubmatch(text); m != nil {
		f.Level, _ = strconv.Atoi(m[1])
	}
	if m := semesterRe.FindStringSubmatch(text); m != nil {
		if m[1] == "first" {
			f.Semester = domain.SemesterFirst
		} else {
			f.Semester = domain.SemesterSecond
		}
	}

	if dept := matchDepartment(text); dept != "" {
		f.Department = titleCase(dept)
		f.Faculty = departmentFaculty[dept]
	}
	return f
}

// matchDepartment returns the canonical (lowercase) department found
// in text, or empty when nothing clears the fuzzy threshold.
func matchDepartment(text string) string {
	for _, dept := range departments {
		if strings.Contains(text, dept) {
			return dept
		}
	}
	return fuzzyMatchDepartment(text)
}

// fuzzyMatchDepartment slides a token window of each department's
// width across the text and scores the window against the department
// name by normalized edit distance. The best-scoring department wins
// if it clears fuzzyAcceptScore.
func fuzzyMatchDepartment(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return ""
	}

	bestDept := ""
	bestScore := 0.0
	for _, dept := range departments {
		width := len(strings.Fields(dept))
		for start := 0; start+width <= len(tokens); start++ {
			window := strings.Join(tokens[start:start+width], " ")
			score := similarity(window, dept)
			if score > bestScore {
				bestScore = score
				bestDept = dept
			}
		}
	}
	if bestScore < fuzzyAcceptScore {
		return ""
	}
	return bestDept
}

// similarity is 1 - editDistance/maxLen, clamped to [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	s := 1 - float64(d)/float64(longest)
	if s < 0 {
		return 0
	}
	return s
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
