package faq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "trims whitespace", in: "  Hello World  ", out: "hello world"},
		{name: "strips accents", in: "Sí", out: "si"},
		{name: "keeps enye base letter", in: "Año", out: "ano"},
		{name: "keeps punctuation", in: "¿Qué?", out: "¿que?"},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.out, got)
		}
	}
}

func TestAffirmativeAndNegative(t *testing.T) {
	for _, in := range []string{"y", "Y", "yes", "Yes", "sí", "si", "S", "  SÍ "} {
		require.True(t, IsAffirmative(in), in)
		require.False(t, IsNegative(in), in)
	}
	for _, in := range []string{"n", "N", "no", "No"} {
		require.True(t, IsNegative(in), in)
		require.False(t, IsAffirmative(in), in)
	}
	for _, in := range []string{"", "maybe", "yes please", "nop", "sí, claro", "ok"} {
		require.False(t, IsAffirmative(in), in)
		require.False(t, IsNegative(in), in)
	}
}

func TestNeedsTranslation(t *testing.T) {
	require.True(t, NeedsTranslation("¿Dónde encuentro las políticas de vacaciones?"))
	require.True(t, NeedsTranslation("que es un pedido para compras"))
	require.True(t, NeedsTranslation("Cual es el proceso? cómo"))
	require.False(t, NeedsTranslation("How do I reset my password?"))
	require.False(t, NeedsTranslation("paragraph esprit"))
}

func TestCanonicalQuery(t *testing.T) {
	require.Equal(t, "what s the distance", canonicalQuery("What's, the   distance?"))
	require.Equal(t, "donde esta", canonicalQuery("¿Dónde está?"))
}
