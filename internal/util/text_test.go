package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "accents stripped", input: "Número de Parte", want: "NUMERO DE PARTE"},
		{name: "period stripped", input: "COD.", want: "COD"},
		{name: "no de caja", input: "No. de Caja", want: "NO DE CAJA"},
		{name: "whitespace collapsed", input: "  CANTIDAD   EMPACADA  ", want: "CANTIDAD EMPACADA"},
		{name: "enye", input: "año", want: "ANO"},
		{name: "blank", input: "   ", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, input := range []string{"Número de Parte", "COD.", "  lista   de  EMPAQUE ", "DESCRIPCIÓN"} {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("  \t "))
	assert.False(t, IsBlank("0"))
}

func TestContainsAny(t *testing.T) {
	keywords := []string{"CAJA", "PALLET"}
	assert.True(t, ContainsAny("NO DE CAJA", keywords))
	assert.False(t, ContainsAny("NUMERO DE PARTE", keywords))
}
