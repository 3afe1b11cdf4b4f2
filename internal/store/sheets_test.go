package store

import "testing"

func TestRangeOrigin(t *testing.T) {
	cases := map[string][2]int{
		"A2:H":  {2, 1},
		"U2:AB": {2, 21},
		"J2:O":  {2, 10},
		"A1:H":  {1, 1},
		"B10":   {10, 2},
		"":      {1, 1},
		"2:5":   {2, 1},
	}
	for spec, want := range cases {
		row, col := RangeOrigin(spec)
		if row != want[0] || col != want[1] {
			t.Errorf("RangeOrigin(%q) = (%d,%d); want (%d,%d)", spec, row, col, want[0], want[1])
		}
	}
}

func TestToInterfaces(t *testing.T) {
	row := []string{"Иван", "42", "Станок", "раскрой", "7"}
	got := toInterfaces(row)
	if len(got) != len(row) {
		t.Fatalf("len = %d; want %d", len(got), len(row))
	}
	for i, v := range got {
		s, ok := v.(string)
		if !ok || s != row[i] {
			t.Errorf("cell %d = %#v; want %q", i, v, row[i])
		}
	}
	if got := toInterfaces(nil); len(got) != 0 {
		t.Fatalf("nil row widened to %#v", got)
	}
}

func TestColumnLetter(t *testing.T) {
	cases := map[int]string{
		1:  "A",
		2:  "B",
		8:  "H",
		26: "Z",
		27: "AA",
		28: "AB",
		52: "AZ",
		53: "BA",
	}
	for col, want := range cases {
		if got := columnLetter(col); got != want {
			t.Errorf("columnLetter(%d) = %q; want %q", col, got, want)
		}
	}
}
