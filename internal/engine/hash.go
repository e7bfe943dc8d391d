package engine

import (
	"math"
	"unicode/utf16"
)

// Hash calcula el rolling hash de 32 bits con signo sobre los code units
// UTF-16 del string: h = (h<<5) - h + code. No es criptografico; las
// colisiones son aceptables porque solo alimenta valores de display.
func Hash(s string) int32 {
	var h int32
	for _, code := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(code)
	}
	return h
}

// CharSum suma los code units UTF-16 del string. Se usa como seed auxiliar
// para el score de dominios protegidos.
func CharSum(s string) int64 {
	var sum int64
	for _, code := range utf16.Encode([]rune(s)) {
		sum += int64(code)
	}
	return sum
}

// SeededRandom mapea un seed numerico a un float en [0,1) con el truco
// frac(sin(seed)*10000). Determinista y reproducible; no es un PRNG
// estadisticamente valido y no se usa para nada de seguridad.
func SeededRandom(seed float64) float64 {
	x := math.Sin(seed) * 10000
	return x - math.Floor(x)
}
