package domain

import (
	"strings"
	"time"
)

// User es el perfil de comerciante. Los metadatos de tienda (storeUrl,
// plan, isPaid) viven junto a las credenciales; nunca se exponen hashes.
type User struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	FirstName        string           `json:"first_name,omitempty"`
	LastName         string           `json:"last_name,omitempty"`
	StoreURL         string           `json:"store_url"`
	StoreName        string           `json:"store_name"`
	Onboarded        bool             `json:"onboarded"`
	IsPaid           bool             `json:"is_paid"`
	Plan             SubscriptionPlan `json:"plan,omitempty"`
	Interval         BillingInterval  `json:"interval,omitempty"`
	PasswordHash     string           `json:"-"`
	ResetTokenHash   string           `json:"-"`
	ResetExpiresAt   *time.Time       `json:"-"`
	CreatedAt        time.Time        `json:"created_at"`
}

// DeriveStoreName calcula el nombre de display a partir del dominio
// normalizado: primer label en mayusculas, o un fallback fijo.
func DeriveStoreName(normalizedDomain string) string {
	label := normalizedDomain
	if i := strings.IndexByte(label, '.'); i != -1 {
		label = label[:i]
	}
	if label == "" {
		return "MY STORE"
	}
	return strings.ToUpper(label)
}
