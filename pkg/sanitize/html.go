// Package sanitize reduces untrusted HTML mail bodies to an allow-listed
// safe subset before they are stored.
package sanitize

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var htmlPolicy = buildPolicy()

// buildPolicy assembles the markup allow-list. Tags outside the list are
// stripped along with active content; href and src are limited to a fixed
// set of URL schemes.
func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "strong", "em", "u", "b", "i",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"blockquote", "code", "pre", "hr", "div", "span", "ul", "ol", "li",
		"a", "img", "table", "thead", "tbody", "tr", "th", "td",
		"font", "center", "sup", "sub", "small", "big", "abbr", "address",
	)
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("href", "title", "target").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height", "style").OnElements("img")
	p.AllowAttrs("style", "align").OnElements("div", "p")
	p.AllowAttrs("style").OnElements("span", "tr")
	p.AllowAttrs("style", "width", "border", "cellpadding", "cellspacing").OnElements("table")
	p.AllowAttrs("colspan", "rowspan", "style", "width", "align", "valign").OnElements("td", "th")
	p.AllowAttrs("color", "size", "face").OnElements("font")
	p.AllowURLSchemes("http", "https", "mailto", "tel")
	return p
}

// HTML sanitizes an HTML fragment. Inline style attributes are scrubbed to
// an allow-listed property set before the markup policy is applied.
// Malformed input is recovered best-effort; an empty input yields an empty
// output.
func HTML(input string) (string, error) {
	scrubbed, err := scrubStyleAttrs(input)
	if err != nil {
		return "", err
	}
	return htmlPolicy.Sanitize(scrubbed), nil
}

// scrubStyleAttrs rewrites every style attribute value through the CSS
// property allow-list, dropping the attribute entirely when nothing safe
// remains. Other markup passes through untouched for the policy to judge.
func scrubStyleAttrs(input string) (string, error) {
	var out bytes.Buffer
	bw := bufio.NewWriter(&out)
	z := html.NewTokenizer(strings.NewReader(input))
	tag := make([]byte, 0, 256)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			if err := bw.Flush(); err != nil {
				return "", err
			}
			return out.String(), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if !hasAttr {
				if _, err := bw.Write(z.Raw()); err != nil {
					return "", err
				}
				continue
			}
			tag = append(tag[:0], '<')
			tag = append(tag, name...)
			for {
				key, val, more := z.TagAttr()
				strval := string(val)
				isStyle := strings.EqualFold(string(key), "style")
				if isStyle {
					strval = Style(strval)
				}
				if !isStyle || strval != "" {
					tag = append(tag, ' ')
					tag = append(tag, key...)
					tag = append(tag, '=', '"')
					tag = append(tag, html.EscapeString(strval)...)
					tag = append(tag, '"')
				}
				if !more {
					break
				}
			}
			if tt == html.SelfClosingTagToken {
				tag = append(tag, '/')
			}
			tag = append(tag, '>')
			if _, err := bw.Write(tag); err != nil {
				return "", err
			}
		default:
			if _, err := bw.Write(z.Raw()); err != nil {
				return "", err
			}
		}
	}
}
