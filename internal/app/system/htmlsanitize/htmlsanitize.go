// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Plain strips all markup from user input. Use for titles, names, and any
// field rendered outside an HTML context.
func Plain(s string) string { return strict.Sanitize(s) }

// Rich keeps the usual user-generated-content tags (links, lists, emphasis)
// and strips everything dangerous. Use for descriptions and question bodies.
func Rich(s string) string { return ugc.Sanitize(s) }
