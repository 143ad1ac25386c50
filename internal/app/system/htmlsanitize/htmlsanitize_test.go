package htmlsanitize

import (
	"strings"
	"testing"
)

func TestContentRemovesScripts(t *testing.T) {
	in := `<p>notes</p><script>alert("xss")</script>`
	got := Content(in)
	if strings.Contains(got, "script") || strings.Contains(got, "alert") {
		t.Errorf("Content(%q) = %q, script survived", in, got)
	}
	if !strings.Contains(got, "<p>notes</p>") {
		t.Errorf("Content(%q) = %q, safe markup stripped", in, got)
	}
}

func TestContentKeepsInlineFormatting(t *testing.T) {
	in := `<strong>bold</strong> <mark>hi</mark> <sub>2</sub>`
	got := Content(in)
	for _, tag := range []string{"<strong>", "<mark>", "<sub>"} {
		if !strings.Contains(got, tag) {
			t.Errorf("Content(%q) = %q, missing %s", in, got, tag)
		}
	}
}

func TestBioAllowsOnlyInline(t *testing.T) {
	in := `<h1>big</h1><em>hi</em> <a href="https://example.com">me</a><img src="x">`
	got := Bio(in)
	if strings.Contains(got, "<h1>") || strings.Contains(got, "<img") {
		t.Errorf("Bio(%q) = %q, block or media markup survived", in, got)
	}
	if !strings.Contains(got, "<em>hi</em>") {
		t.Errorf("Bio(%q) = %q, inline formatting stripped", in, got)
	}
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Errorf("Bio(%q) = %q, safe link stripped", in, got)
	}
}

func TestBioRejectsJavascriptURL(t *testing.T) {
	in := `<a href="javascript:alert(1)">x</a>`
	got := Bio(in)
	if strings.Contains(got, "javascript") {
		t.Errorf("Bio(%q) = %q, javascript URL survived", in, got)
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain name", "plain name"},
		{"<b>Ada</b>", "Ada"},
		{`<script>x</script>Desk`, "Desk"},
	}
	for _, tt := range tests {
		if got := StripTags(tt.in); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
