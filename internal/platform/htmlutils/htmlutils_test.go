package htmlutils

import "testing"

func TestStripTags_PlainText(t *testing.T) {
	in := "no markup here"
	if got := StripTags(in); got != in {
		t.Errorf("StripTags(%q) = %q", in, got)
	}
}

func TestStripTags_RemovesMarkup(t *testing.T) {
	in := `<p>Try <code>pip install torch</code> instead.</p><script>alert(1)</script>`
	want := "Try pip install torch instead."

	if got := StripTags(in); got != want {
		t.Errorf("StripTags() = %q, want %q", got, want)
	}
}

func TestStripTags_BlockBoundaries(t *testing.T) {
	in := "<p>first</p><p>second</p>"
	want := "first\nsecond"

	if got := StripTags(in); got != want {
		t.Errorf("StripTags() = %q, want %q", got, want)
	}
}

func TestCollapseBlankLines(t *testing.T) {
	in := "a\n\n\n\nb\n   \nc\n"
	want := "a\n\nb\n\nc"

	if got := CollapseBlankLines(in); got != want {
		t.Errorf("CollapseBlankLines() = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate short = %q", got)
	}

	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate long = %q", got)
	}
}
