package domain

import "time"

// Estado de un badge dentro del registro.
const (
	BadgeStatusActive  = "active"
	BadgeStatusRevoked = "revoked"
)

// Badge es la fila del registro de certificados emitidos. El serial es el
// unico artefacto cuasi-persistente que se muestra fuera del sistema.
type Badge struct {
	Serial     string    `json:"serial"`
	UserID     string    `json:"user_id"`
	Domain     string    `json:"domain"`
	IssuedYear int       `json:"issued_year"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// VerificationResult es la vista publica que devuelve /verify/:serial.
type VerificationResult struct {
	Serial      string            `json:"serial"`
	StoreLabel  string            `json:"store_label"`
	Status      string            `json:"status"`
	Registered  bool              `json:"registered"`
	AuditTrail  []string          `json:"audit_trail"`
	Checkpoints []AuditCheckpoint `json:"checkpoints"`
}

// AuditCheckpoint es un punto de control mostrado en el certificado.
type AuditCheckpoint struct {
	Label  string `json:"label"`
	Status string `json:"status"`
}
