package engine

import (
	"fmt"
	"time"
)

// SerialPrefix identifica los seriales emitidos por el registro.
const SerialPrefix = "SS-"

// offlineSuffix se emite cuando todavia no hay dominio configurado.
const offlineSuffix = "OFFLINE0"

// BadgeSerial deriva el identificador de certificado "SS-<año>-<8 hex>".
// El sufijo es determinista por dominio; el año depende del reloj.
func BadgeSerial(rawURL string, now time.Time) string {
	year := now.Year()
	domain := Normalize(rawURL)
	if domain == "" {
		return fmt.Sprintf("%s%d-%s", SerialPrefix, year, offlineSuffix)
	}

	h := int64(Hash(domain))
	if h < 0 {
		h = -h
	}
	suffix := fmt.Sprintf("%08X", h)
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%s%d-%s", SerialPrefix, year, suffix)
}
