package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	got := StripHTML(`<b>KI</b>-Labor &lt;script&gt;alert(1)&lt;/script&gt;`)
	if got != "KI-Labor alert(1)" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestLineCollapsesWhitespace(t *testing.T) {
	if got := Line("  Leibniz \n  Universität\tHannover "); got != "Leibniz Universität Hannover" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestOptional(t *testing.T) {
	if got := Optional("  <br> ", Line); got != nil {
		t.Fatalf("expected nil, got %q", *got)
	}
	got := Optional(" Hannover ", Line)
	if got == nil || *got != "Hannover" {
		t.Fatalf("unexpected result %v", got)
	}
}
