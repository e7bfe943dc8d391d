package domain

// SubscriptionPlan identifica el plan contratado.
type SubscriptionPlan string

// BillingInterval identifica la cadencia de cobro.
type BillingInterval string

const (
	PlanStandard SubscriptionPlan = "STANDARD"
	PlanCustom   SubscriptionPlan = "CUSTOM"

	IntervalMonthly BillingInterval = "MONTHLY"
	IntervalYearly  BillingInterval = "YEARLY"
)

// Valid reporta si el plan es uno de los conocidos.
func (p SubscriptionPlan) Valid() bool {
	return p == PlanStandard || p == PlanCustom
}

// Valid reporta si el intervalo es uno de los conocidos.
func (i BillingInterval) Valid() bool {
	return i == IntervalMonthly || i == IntervalYearly
}

// MonthlyPrice devuelve el precio mensual en USD para el par plan/intervalo.
// El plan anual del tier STANDARD lleva 20% de descuento.
func MonthlyPrice(plan SubscriptionPlan, interval BillingInterval) int {
	if plan == PlanCustom {
		return 250
	}
	if interval == IntervalYearly {
		return 16
	}
	return 20
}

// CheckoutSelection es el estado transitorio creado al elegir un plan y
// consumido al completar o cancelar el checkout.
type CheckoutSelection struct {
	Plan     SubscriptionPlan `json:"plan"`
	Interval BillingInterval  `json:"interval"`
}
