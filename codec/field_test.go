package codec

import "testing"

func TestParseField(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "braced literal", in: "{Hello World}", want: "Hello World"},
		{name: "quoted literal", in: `"Hello World"`, want: "Hello World"},
		{name: "bare integer", in: "2001", want: "2001"},
		{name: "signed integer", in: "-12", want: "-12"},
		{name: "string reference", in: "jan", want: "#jan#"},
		{name: "concatenation", in: `"Smith" # mid # "Jones"`, want: "Smith#mid#Jones"},
		{name: "literal then number", in: `"x" # 12`, want: "x12"},
		{name: "hash inside braces", in: "{a # b}", want: "a # b"},
		{name: "hash inside quotes", in: `"C# and F#"`, want: "C# and F#"},
		{name: "integer overflow is a reference", in: "99999999999", want: "#99999999999#"},
		{name: "whitespace only", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseField(tt.in); got != tt.want {
				t.Errorf("ParseField(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestShave(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "  x  ", want: "x"},
		{in: " {abc} ", want: "abc"},
		{in: `"q"`, want: "q"},
		{in: "{{a}}", want: "{a}"},
		{in: "{", want: "{"},
		{in: "{a", want: "{a"},
		{in: `{a"`, want: `{a"`},
		{in: "\t{tabbed}\n", want: "tabbed"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Shave(tt.in); got != tt.want {
				t.Errorf("Shave(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestShave_OneLayerPerCall(t *testing.T) {
	tests := []struct {
		in, once, twice string
	}{
		{in: "{{a}}", once: "{a}", twice: "a"},
		{in: "{ a }", once: " a ", twice: "a"},
	}
	for _, tt := range tests {
		once := Shave(tt.in)
		if once != tt.once {
			t.Errorf("Shave(%q) = %q, want %q", tt.in, once, tt.once)
		}
		if twice := Shave(once); twice != tt.twice {
			t.Errorf("Shave(%q) = %q, want %q", once, twice, tt.twice)
		}
	}
}

func TestShave_Idempotent(t *testing.T) {
	// Fixed points only: the shaved form is neither padded nor wrapped.
	inputs := []string{"plain", " {abc} ", `"quoted words"`, "{a}b{c}", "{x", "   "}

	for _, in := range inputs {
		once := Shave(in)
		if twice := Shave(once); twice != once {
			t.Errorf("Shave(Shave(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestShavePtr(t *testing.T) {
	if ShavePtr(nil) != nil {
		t.Errorf("ShavePtr(nil) should be nil")
	}
	s := " {v} "
	if got := ShavePtr(&s); got == nil || *got != "v" {
		t.Errorf("ShavePtr(%q) = %v, want %q", s, got, "v")
	}
}

func TestFormatField(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "{}"},
		{name: "literal", in: "Hello World", want: "{Hello World}"},
		{name: "reference only", in: "#jan#", want: "jan"},
		{name: "concatenation", in: "Smith#mid#Jones", want: "{Smith} # mid # {Jones}"},
		{name: "literal hashes", in: "C# and F#", want: "{C# and F#}"},
		{name: "escaped hash", in: `a\#b#c`, want: `{a\#b#c}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatField(tt.in); got != tt.want {
				t.Errorf("FormatField(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatParse_RoundTrip(t *testing.T) {
	for _, v := range []string{"Hello World", "#jan#", "Smith#mid#Jones", "C# and F#", "1984", "{IEEE} Trans"} {
		if got := ParseField(FormatField(v)); got != v {
			t.Errorf("ParseField(FormatField(%q)) = %q", v, got)
		}
	}
}
