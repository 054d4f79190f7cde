package template

import (
	"strconv"
	"strings"
	"text/template"
)

// CustomFuncMap returns the custom template functions available in templates.
func CustomFuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"toLower":   strings.ToLower,
		"toUpper":   strings.ToUpper,
		"replace":   strings.ReplaceAll,
		"trimSpace": strings.TrimSpace,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"join":      strings.Join,
		"quote":     strconv.Quote,
		// labels renders ", Label(...)" for a Ginkgo container, or nothing.
		"labels": func(labels []string) string {
			if len(labels) == 0 {
				return ""
			}
			quoted := make([]string, len(labels))
			for i, l := range labels {
				quoted[i] = strconv.Quote(l)
			}
			return ", Label(" + strings.Join(quoted, ", ") + ")"
		},
		// comment turns arbitrary text into a single Go line comment.
		"comment": func(s string) string {
			return "// " + strings.Join(strings.Fields(s), " ")
		},
	}
}
