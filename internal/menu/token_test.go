package menu

import (
	"errors"
	"testing"
)

func TestParseToken(t *testing.T) {
	cases := map[string]Token{
		"123":       {Model: "123", Group: "123", Depth: 1},
		"123_456":   {Model: "123", Group: "456", Depth: 1},
		"123_456_3": {Model: "123", Group: "456", Depth: 3},
	}
	for in, want := range cases {
		got, err := ParseToken(in)
		if err != nil {
			t.Errorf("ParseToken(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseToken(%q) = %+v; want %+v", in, got, want)
		}
	}
}

func TestParseToken_Malformed(t *testing.T) {
	for _, in := range []string{"", "_", "a__2", "a_b_x", "a_b_0", "a_b_-1", "a_b_2_c"} {
		if _, err := ParseToken(in); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("ParseToken(%q) = %v; want ErrMalformedToken", in, err)
		}
	}
}

func TestToken_String(t *testing.T) {
	tok := Token{Model: "m", Group: "g", Depth: 2}
	if got := tok.String(); got != "m_g_2" {
		t.Errorf("String() = %q", got)
	}
	back, err := ParseToken(tok.String())
	if err != nil || back != tok {
		t.Errorf("round trip broke: %+v, %v", back, err)
	}
}
