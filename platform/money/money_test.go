package money

import "testing"

func TestFormat(t *testing.T) {
	cases := map[float64]string{
		31.5:        "31.50",
		0:           "0.00",
		0.1 + 0.2:   "0.30",
		1234.005:    "1234.01",
		-3.5:        "-3.50",
		100.0 / 3.0: "33.33",
	}
	for in, want := range cases {
		if got := Format(in); got != want {
			t.Fatalf("Format(%v): expected %s, got %s", in, want, got)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(12.5); got != "12.5%" {
		t.Fatalf("expected 12.5%%, got %s", got)
	}
	if got := Percent(10); got != "10%" {
		t.Fatalf("expected 10%%, got %s", got)
	}
}
