package rating

import "testing"

func TestCoerceZip(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"10001", "10001"},
		{" 10001 ", "10001"},
		{10001, "10001"},
		{1201, "1201"},
		{10001.0, "10001"},
		{"NaN", ""},
		{"nan", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := CoerceZip(c.in); got != c.want {
			t.Errorf("CoerceZip(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize5(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10001", "10001"},
		{"1201", "01201"},
		{"10001-1234", "10001"},
		{"10001 1234", "10001"},
		{"m5v 3a8", "M5V3A8"},
		{"M5V-3A8", "M5V3A8"},
		{"", ""},
		{"   ", ""},
		{"nan", ""},
		{"--", ""},
		{"7", "00007"},
	}
	for _, c := range cases {
		if got := Normalize5(c.in); got != c.want {
			t.Errorf("Normalize5(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPrefix3(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10001", "100"},
		{"01201", "012"},
		{"1201", "120"}, // 先补零到 3 位再截断
		{"7", "007"},
		{"M5V3A8", "INT"},
		{"", "000"},
		{"nan", "000"},
		{"--", "000"},
		{"99501", "995"},
	}
	for _, c := range cases {
		if got := Prefix3(c.in); got != c.want {
			t.Errorf("Prefix3(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
