package engine

import (
	"math"
	"strings"
)

// Limites del score y fallback para dominios vacios.
const (
	EmptyDomainScore = 72

	unshieldedMin = 50
	unshieldedMax = 95
	shieldedMin   = 98
	shieldedMax   = 100
)

// Verticales de alto riesgo que inflan el score base.
var riskKeywords = []string{"cbd", "supplement", "health", "medical", "tobacco", "toy"}

const riskKeywordFactor = 1.2

// RiskScore deriva el score de riesgo de una tienda a partir de su URL.
// El mismo par (dominio, shielded) produce siempre el mismo valor:
// [98,100] para tiendas protegidas, [50,95] para el resto.
func RiskScore(rawURL string, shielded bool) int {
	domain := Normalize(rawURL)
	if domain == "" {
		return EmptyDomainScore
	}

	if shielded {
		r := SeededRandom(float64(CharSum(domain)))
		return shieldedMin + int(r*float64(shieldedMax-shieldedMin+1))
	}

	return clampScore(unshieldedScore(float64(Hash(domain)), hasRiskKeyword(domain)))
}

// unshieldedScore combina tres draws deterministas en offsets fijos del seed
// y los pesa 0.5/0.3/0.2 antes de mapear al rango base. El factor por
// vertical se aplica antes del clamp.
func unshieldedScore(seed float64, keywordHit bool) float64 {
	combined := SeededRandom(seed+1.33)*0.5 +
		SeededRandom(seed+2.66)*0.3 +
		SeededRandom(seed+3.99)*0.2

	score := unshieldedMin + combined*float64(unshieldedMax-unshieldedMin)
	if keywordHit {
		score *= riskKeywordFactor
	}
	return score
}

func hasRiskKeyword(domain string) bool {
	for _, kw := range riskKeywords {
		if strings.Contains(domain, kw) {
			return true
		}
	}
	return false
}

func clampScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < unshieldedMin {
		return unshieldedMin
	}
	if rounded > unshieldedMax {
		return unshieldedMax
	}
	return rounded
}
