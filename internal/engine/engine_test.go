package engine

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"HTTPS://WWW.Foo.com/path?x=1", "foo.com"},
		{"http://acme.com", "acme.com"},
		{"www.acme.com/", "acme.com"},
		{"  Acme.COM  ", "acme.com"},
		{"mystore.shopify.com?ref=email", "mystore.shopify.com"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"HTTPS://WWW.Foo.com/path?x=1", "acme.com", "www.tienda.mx/productos", ""}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize no es idempotente: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestHash_KnownValues(t *testing.T) {
	cases := []struct {
		in   string
		want int32
	}{
		{"foo.com", -682089383},
		{"acme.com", -1862215987},
		{"healthstore.com", 1450831896},
		{"mystore.shopify.com", 929631776},
		{"", 0},
	}
	for _, tc := range cases {
		if got := Hash(tc.in); got != tc.want {
			t.Fatalf("Hash(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSeededRandom_RangeAndDeterminism(t *testing.T) {
	seeds := []float64{0, 1, -682089383, 1450831896.33, 12345.99}
	for _, seed := range seeds {
		r := SeededRandom(seed)
		if r < 0 || r >= 1 {
			t.Fatalf("SeededRandom(%v) = %v fuera de [0,1)", seed, r)
		}
		if SeededRandom(seed) != r {
			t.Fatalf("SeededRandom(%v) no es determinista", seed)
		}
	}
}

func TestRiskScore_ShieldedRange(t *testing.T) {
	domains := []string{"foo.com", "acme.com", "mystore.shopify.com", "tienda-larga-de-prueba.io"}
	for _, d := range domains {
		score := RiskScore(d, true)
		if score < 98 || score > 100 {
			t.Fatalf("score protegido de %q = %d fuera de [98,100]", d, score)
		}
	}
}

func TestRiskScore_UnshieldedRange(t *testing.T) {
	domains := []string{"foo.com", "acme.com", "cbd-oils.com", "healthstore.com", "toyshop.net"}
	for _, d := range domains {
		score := RiskScore(d, false)
		if score < 50 || score > 95 {
			t.Fatalf("score de %q = %d fuera de [50,95]", d, score)
		}
	}
}

func TestRiskScore_Deterministic(t *testing.T) {
	for _, shielded := range []bool{true, false} {
		a := RiskScore("https://www.Foo.com/checkout", shielded)
		b := RiskScore("foo.com", shielded)
		if a != b {
			t.Fatalf("variantes del mismo dominio difieren (shielded=%v): %d vs %d", shielded, a, b)
		}
		if RiskScore("foo.com", shielded) != b {
			t.Fatalf("score no estable entre llamadas (shielded=%v)", shielded)
		}
	}
}

func TestRiskScore_EmptyDomainFallback(t *testing.T) {
	for _, in := range []string{"", "   ", "https://"} {
		if got := RiskScore(in, false); got != EmptyDomainScore {
			t.Fatalf("RiskScore(%q) = %d, want %d", in, got, EmptyDomainScore)
		}
	}
}

func TestUnshieldedScore_KeywordScaling(t *testing.T) {
	// Seed inyectado: el factor por vertical debe ser exactamente 1.2
	// antes del clamp.
	seed := float64(Hash("12345.com"))
	base := unshieldedScore(seed, false)
	scaled := unshieldedScore(seed, true)
	if scaled != base*riskKeywordFactor {
		t.Fatalf("escala por keyword: %v, want %v", scaled, base*riskKeywordFactor)
	}
}

func TestRiskScore_KeywordDomainsStayClamped(t *testing.T) {
	for _, d := range []string{"health.com", "supplement-megastore.com", "tobacco.shop"} {
		if score := RiskScore(d, false); score > 95 {
			t.Fatalf("score de %q = %d supera el clamp", d, score)
		}
	}
}

func TestBadgeSerial_Format(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	re := regexp.MustCompile(`^SS-2024-[0-9A-F]{8}$`)
	serial := BadgeSerial("https://www.foo.com/shop", now)
	if !re.MatchString(serial) {
		t.Fatalf("serial %q no cumple el formato", serial)
	}
	if serial != "SS-2024-28A7DBA7" {
		t.Fatalf("serial de foo.com = %q, want SS-2024-28A7DBA7", serial)
	}
}

func TestBadgeSerial_StableWithinYear(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	later := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	a := BadgeSerial("acme.com", now)
	b := BadgeSerial("ACME.com/", later)
	if a != b {
		t.Fatalf("sufijo inestable dentro del mismo año: %q vs %q", a, b)
	}
	if !strings.HasSuffix(a, "6EFF2933") {
		t.Fatalf("sufijo inesperado: %q", a)
	}
}

func TestBadgeSerial_EmptyDomainPlaceholder(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := BadgeSerial("", now); got != "SS-2024-OFFLINE0" {
		t.Fatalf("serial placeholder = %q", got)
	}
}
