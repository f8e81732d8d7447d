package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Lakeview Residency", "lakeview-residency"},
		{"  Skyline   Towers!  ", "skyline-towers"},
		{"2BHK @ Baner", "2bhk-baner"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
