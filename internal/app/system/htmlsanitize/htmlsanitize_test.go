package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/planboard/internal/app/system/htmlsanitize"
)

func TestPlain_StripsAllMarkup(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Build the volcano", "Build the volcano"},
		{"<b>bold</b> title", "bold title"},
		{`<script>alert("xss")</script>safe`, "safe"},
		{`<a href="https://example.com">link</a>`, "link"},
	}
	for _, c := range cases {
		if got := htmlsanitize.Plain(c.in); got != c.want {
			t.Errorf("Plain(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRich_KeepsUGCTagsStripsScripts(t *testing.T) {
	in := `<p>Steps:</p><ul><li>mix</li></ul><script>alert(1)</script>`
	got := htmlsanitize.Rich(in)
	if got != "<p>Steps:</p><ul><li>mix</li></ul>" {
		t.Errorf("Rich(%q) = %q", in, got)
	}
}

func TestRich_StripsEventHandlers(t *testing.T) {
	got := htmlsanitize.Rich(`<p onclick="steal()">hello</p>`)
	if got != "<p>hello</p>" {
		t.Errorf("Rich left event handler: %q", got)
	}
}
