package redis

import (
	"fmt"
	"strings"

	"github.com/ovp-platform/ovpsearch/internal/domain/search/filter"
)

// buildFilter translates a filter.Expression into an FT.SEARCH query string.
// The empty expression matches every document.
func buildFilter(expr filter.Expression) string {
	parts := make([]string, 0, len(expr.Predicates()))
	for _, p := range expr.Predicates() {
		if s := buildPredicate(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

func buildPredicate(p filter.Predicate) string {
	switch p.Kind() {
	case filter.KindTag:
		return buildTagFilter(p.Field(), p.Value())
	case filter.KindFlag:
		return buildTagFilter(p.Field(), fmt.Sprint(p.FlagValue()))
	case filter.KindText:
		return buildTextFilter(p.Field(), p.Values(), "")
	case filter.KindPrefix:
		return buildTextFilter(p.Field(), p.Values(), "*")
	case filter.KindAllTags:
		parts := make([]string, 0, len(p.Values()))
		for _, v := range p.Values() {
			parts = append(parts, buildTagFilter(p.Field(), v))
		}
		return group(parts, " ")
	case filter.KindGroup:
		parts := make([]string, 0, len(p.Children()))
		for _, c := range p.Children() {
			if s := buildPredicate(c); s != "" {
				parts = append(parts, s)
			}
		}
		sep := " "
		if p.Op() == filter.Or {
			sep = " | "
		}
		return group(parts, sep)
	}
	return ""
}

func group(parts []string, sep string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

func buildTextFilter(key string, terms []string, suffix string) string {
	if len(terms) == 0 {
		return ""
	}
	words := make([]string, len(terms))
	for i, t := range terms {
		words[i] = escapeQuery(t) + suffix
	}
	return fmt.Sprintf("@%s:(%s)", key, strings.Join(words, " "))
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
