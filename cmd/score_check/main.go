package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"shop-shielder/internal/domain"
	"shop-shielder/internal/engine"
)

const (
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

// score_check imprime el desglose determinista del motor para una o mas URLs:
// dominio normalizado, hash, serial de insignia y score en ambos modos.
// Util para comparar a ojo dos builds o verificar un serial reportado.
func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		log.Fatal("usage: score_check <store-url> [<store-url> ...]")
	}

	now := time.Now().UTC()
	for _, raw := range args {
		domainName := engine.Normalize(raw)
		hash := engine.Hash(domainName)
		serial := engine.BadgeSerial(raw, now)

		fmt.Printf("%s[URL]%s %s\n", colorCyan, colorReset, raw)
		fmt.Printf("  dominio:    %s\n", domainName)
		fmt.Printf("  store name: %s\n", domain.DeriveStoreName(domainName))
		fmt.Printf("  hash:       %d (seed %d)\n", hash, engine.CharSum(domainName))
		fmt.Printf("  serial:     %s%s%s\n", colorGreen, serial, colorReset)
		fmt.Printf("  score:      %d protegido | %d sin proteger\n\n",
			engine.RiskScore(raw, true), engine.RiskScore(raw, false))
	}
}
