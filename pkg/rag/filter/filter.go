package filter

import (
	"regexp"
	"sort"
)

// Context selects the replacement vocabulary. Callers pass it explicitly;
// the filter never guesses it from titles or content.
type Context string

const (
	ContextGeneral    Context = "general"
	ContextHistorical Context = "historical"
)

// rule is one whole-word, case-insensitive substitution.
type rule struct {
	term        string
	replacement string
	pattern     *regexp.Regexp
}

// Filter rewrites sensitive terms in generated answers into neutral
// phrasing. Matching is whole-word and case-insensitive; replacements are
// lowercase and chosen so that filtering already-filtered text changes
// nothing within the same context.
type Filter struct {
	general    []rule
	historical []rule
}

// generalReplacements is the baseline vocabulary.
var generalReplacements = map[string]string{
	"rape":         "assault",
	"raped":        "assaulted",
	"raping":       "assaulting",
	"rapist":       "assailant",
	"whore":        "person",
	"slut":         "person",
	"bastard":      "person",
	"sex":          "intimate relations",
	"sexual":       "intimate",
	"intercourse":  "intimate relations",
	"fornication":  "inappropriate relations",
	"prostitution": "inappropriate activities",
	"nude":         "unclothed",
	"naked":        "unclothed",
	"nudity":       "inappropriate content",
}

// historicalReplacements overrides the general vocabulary for classical and
// scriptural texts, where scholarly terminology fits better than euphemism.
var historicalReplacements = map[string]string{
	"rape":       "violation",
	"raped":      "violated",
	"raping":     "violating",
	"rapist":     "perpetrator",
	"assault":    "attack",
	"assaulted":  "attacked",
	"assaulting": "attacking",
}

func New() *Filter {
	return &Filter{
		general:    compileRules(generalReplacements),
		historical: compileRules(historicalReplacements),
	}
}

// compileRules builds the rule list in sorted term order so replacement
// output is deterministic regardless of map iteration.
func compileRules(replacements map[string]string) []rule {
	terms := make([]string, 0, len(replacements))
	for term := range replacements {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	rules := make([]rule, 0, len(terms))
	for _, term := range terms {
		rules = append(rules, rule{
			term:        term,
			replacement: replacements[term],
			pattern:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`),
		})
	}
	return rules
}

// Filter rewrites text for the given context and reports which terms were
// replaced. Under ContextHistorical the override vocabulary is checked
// first; when it replaces anything, the general vocabulary is skipped for
// this pass (single-pass precedence, not layering).
func (f *Filter) Filter(text string, ctx Context) (string, []string) {
	if text == "" {
		return text, nil
	}

	if ctx == ContextHistorical {
		filtered, replaced := applyRules(text, f.historical)
		if len(replaced) > 0 {
			return filtered, replaced
		}
	}

	return applyRules(text, f.general)
}

func applyRules(text string, rules []rule) (string, []string) {
	filtered := text
	var replaced []string

	for _, r := range rules {
		if !r.pattern.MatchString(filtered) {
			continue
		}
		filtered = r.pattern.ReplaceAllString(filtered, r.replacement)
		replaced = append(replaced, r.term)
	}

	return filtered, replaced
}
