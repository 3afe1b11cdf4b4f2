package fingerprint

import "testing"

func TestOf_DeterministicAndStable(t *testing.T) {
	labels := []string{"", "Станок А", "Сборка;Узел 1", "plain ascii", "@last_update"}
	for _, l := range labels {
		first := Of(l)
		for i := 0; i < 3; i++ {
			if got := Of(l); got != first {
				t.Fatalf("Of(%q) unstable: %q then %q", l, first, got)
			}
		}
	}
}

func TestOf_KnownValues(t *testing.T) {
	// CRC-32 (IEEE) reference values, decimal-rendered.
	cases := map[string]string{
		"":    "0",
		"abc": "891568578",
	}
	for in, want := range cases {
		if got := Of(in); got != want {
			t.Errorf("Of(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestOf_DistinguishesLabels(t *testing.T) {
	if Of("Модель А") == Of("Модель Б") {
		t.Fatalf("distinct labels produced the same token")
	}
}

func TestMatches(t *testing.T) {
	tok := Of("Фрезеровка")
	if !Matches("Фрезеровка", tok) {
		t.Errorf("Matches should hold for the hashed label")
	}
	if Matches("Шлифовка", tok) {
		t.Errorf("Matches should fail for a different label")
	}
}
