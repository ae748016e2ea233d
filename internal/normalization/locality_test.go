package normalization

import "testing"

func TestDeriveLocality_StripsPostalAndCountrySegments(t *testing.T) {
	cases := []struct {
		address string
		want    string
	}{
		{"123 Main St, Springfield, IL 62704, USA", "Springfield"},
		{"1 Rue de Rivoli, Paris, 75001, France", "Paris"},
		{"456 Pine St, Seattle, WA 98101, USA", "Seattle"},
		{"10 Downing St, London SW1A 2AA, UK", ""},
		{"Osteria, Portland, OR 97204, USA", "Portland"},
	}
	for _, tc := range cases {
		if got := DeriveLocality(tc.address); got != tc.want {
			t.Fatalf("DeriveLocality(%q): expected %q got %q", tc.address, tc.want, got)
		}
	}
}

func TestDeriveLocality_DistrictBeatsCity(t *testing.T) {
	got := DeriveLocality("Bar Sue, Capitol Hill, Seattle, WA 98102, USA")
	if got != "Capitol Hill" {
		t.Fatalf("expected Capitol Hill, got %q", got)
	}
	// Casing in the address does not matter.
	got = DeriveLocality("Bar Sue, CAPITOL HILL, Seattle, USA")
	if got != "Capitol Hill" {
		t.Fatalf("expected canonical Capitol Hill, got %q", got)
	}
}

func TestDeriveLocality_AmbiguousDistrictsFallBackToCity(t *testing.T) {
	got := DeriveLocality("Somewhere, Ballard, Fremont, Seattle, WA, USA")
	if got != "Seattle" {
		t.Fatalf("expected city fallback Seattle, got %q", got)
	}
}

func TestDeriveLocality_TotalOverArbitraryInput(t *testing.T) {
	// None of these may panic; garbage yields "".
	for _, address := range []string{
		"",
		"   ",
		",,,,",
		"12345",
		"98101",
		"\x00\xff",
		"一二三",
	} {
		_ = DeriveLocality(address)
	}
	if got := DeriveLocality("12345"); got != "" {
		t.Fatalf("expected empty locality for bare digits, got %q", got)
	}
	if got := DeriveLocality(""); got != "" {
		t.Fatalf("expected empty locality for empty address, got %q", got)
	}
}

func TestDeriveCity_SkipsDistrictPass(t *testing.T) {
	address := "Dinner Spot, Ballard, Seattle, USA"
	if got := DeriveLocality(address); got != "Ballard" {
		t.Fatalf("expected district Ballard, got %q", got)
	}
	if got := DeriveCity(address); got != "Seattle" {
		t.Fatalf("expected city Seattle, got %q", got)
	}
}
