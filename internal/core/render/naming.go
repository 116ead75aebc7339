package render

import (
	"strings"
	"unicode"
)

// PascalCase converts an identifier segment such as "sales", "sales_order" or
// "sales-order" to "Sales" / "SalesOrder".
func PascalCase(s string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range s {
		if r == '_' || r == '-' || r == '.' || unicode.IsSpace(r) {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
