package extract

import (
	"regexp"
	"strings"
)

type skillTerm struct {
	keyword   string
	canonical string
}

// Declaration order is output order.
var skillVocabulary = []skillTerm{
	{"ruby", "ruby"},
	{"rails", "rails"},
	{"javascript", "javascript"},
	{"react", "react"},
	{"python", "python"},
	{"java", "java"},
	{"c#", "c#"},
	{"php", "php"},
	{"html", "html"},
	{"css", "css"},
	{"sql", "sql"},
	{"postgresql", "postgresql"},
	{"mysql", "mysql"},
	{"mongodb", "mongodb"},
	{"redis", "redis"},
	{"aws", "aws"},
	{"docker", "docker"},
	{"kubernetes", "kubernetes"},
	{"git", "git"},
	{"angular", "angular"},
	{"vue", "vue"},
	{"node.js", "node.js"},
	{"typescript", "typescript"},
	{"swift", "swift"},
	{"kotlin", "kotlin"},
	{"android", "android"},
	{"ios", "ios"},
}

var skillPatterns = compileSkillPatterns(skillVocabulary)

// compileSkillPatterns builds one case-insensitive whole-word matcher per
// term. A term matches when it is not touching an ASCII word character on
// either side, so "c#" matches in "C# developer" and "java" does not match
// in "javascript". Digits count as word characters ("C#5" has no match) and
// non-ASCII letters do not ("éjava" matches java).
func compileSkillPatterns(terms []skillTerm) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		patterns[i] = regexp.MustCompile(`(?i)(?:^|[^A-Za-z0-9_])` + regexp.QuoteMeta(term.keyword) + `(?:[^A-Za-z0-9_]|$)`)
	}
	return patterns
}

// Skills returns the lower-cased vocabulary terms present in text, in
// vocabulary order and without duplicates.
func Skills(text string) []string {
	found := make([]string, 0, 8)
	for i, pattern := range skillPatterns {
		if pattern.MatchString(text) {
			found = append(found, strings.ToLower(skillVocabulary[i].canonical))
		}
	}
	return dedupe(found)
}

// Vocabulary returns a copy of the recognized skill keywords in order.
func Vocabulary() []string {
	out := make([]string, len(skillVocabulary))
	for i, term := range skillVocabulary {
		out[i] = term.canonical
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
