package sanitize

import (
	"strings"

	"github.com/gorilla/css/scanner"
)

// allowedProperties lists the CSS properties an inline style may carry.
// Anything else, urls and expressions included, is dropped with its value.
var allowedProperties = map[string]struct{}{
	"align":            {},
	"background-color": {},
	"border":           {},
	"border-bottom":    {},
	"border-left":      {},
	"border-radius":    {},
	"border-right":     {},
	"border-top":       {},
	"box-sizing":       {},
	"clear":            {},
	"color":            {},
	"display":          {},
	"font-family":      {},
	"font-size":        {},
	"font-weight":      {},
	"height":           {},
	"line-height":      {},
	"margin":           {},
	"margin-bottom":    {},
	"margin-left":      {},
	"margin-right":     {},
	"margin-top":       {},
	"max-height":       {},
	"max-width":        {},
	"overflow":         {},
	"padding":          {},
	"padding-bottom":   {},
	"padding-left":     {},
	"padding-right":    {},
	"padding-top":      {},
	"table-layout":     {},
	"text-align":       {},
	"text-decoration":  {},
	"vertical-align":   {},
	"width":            {},
	"word-break":       {},
}

// Style filters an inline CSS declaration list, keeping only declarations
// whose property is allow-listed. A scan error rejects the whole value.
func Style(input string) string {
	var out strings.Builder
	var decl strings.Builder
	keep := false
	sawProperty := false
	flush := func() {
		if keep && sawProperty {
			out.WriteString(decl.String())
			out.WriteByte(';')
		}
		decl.Reset()
		keep = false
		sawProperty = false
	}
	scan := scanner.New(input)
	for {
		t := scan.Next()
		switch t.Type {
		case scanner.TokenEOF:
			flush()
			return strings.TrimSpace(out.String())
		case scanner.TokenError:
			return ""
		case scanner.TokenChar:
			if t.Value == ";" {
				flush()
				continue
			}
		case scanner.TokenIdent:
			if !sawProperty {
				sawProperty = true
				_, keep = allowedProperties[strings.ToLower(t.Value)]
			}
		case scanner.TokenS:
			if decl.Len() == 0 {
				// Skip leading whitespace in a declaration.
				continue
			}
		}
		decl.WriteString(t.Value)
	}
}
