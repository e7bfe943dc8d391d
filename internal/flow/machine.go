package flow

import (
	"strings"

	"go.uber.org/zap"

	"shop-shielder/internal/domain"
)

// Kind etiqueta el estado visible del controlador de aplicacion.
type Kind string

const (
	StateLoading      Kind = "loading"
	StateLanding      Kind = "landing"
	StateAuthModal    Kind = "auth_modal"
	StateCheckout     Kind = "checkout"
	StateDashboard    Kind = "dashboard"
	StatePublicVerify Kind = "public_verify"
)

// Mode es el modo del modal de autenticacion.
type Mode string

const (
	ModeSignIn   Mode = "signin"
	ModeSignUp   Mode = "signup"
	ModeRecovery Mode = "recovery"
)

// State es la union etiquetada de pantallas. Solo los campos del Kind
// activo son significativos.
type State struct {
	Kind      Kind                      `json:"kind"`
	AuthMode  Mode                      `json:"auth_mode,omitempty"`
	Selection *domain.CheckoutSelection `json:"selection,omitempty"`
	Serial    string                    `json:"serial,omitempty"`
}

// Machine es el controlador de aplicacion: una maquina de estados explicita
// en lugar de estado global ambiente. No es segura para uso concurrente;
// cada sesion de UI trabaja sobre su propia instancia.
type Machine struct {
	logger        *zap.Logger
	state         State
	authenticated bool
	paid          bool
	stash         *domain.CheckoutSelection
	back          []State
}

func NewMachine(logger *zap.Logger) *Machine {
	return &Machine{
		logger: logger,
		state:  State{Kind: StateLoading},
	}
}

// State devuelve el estado actual.
func (m *Machine) State() State {
	return m.state
}

// VerifySerialFromPath extrae el serial de un path /verify/<serial>.
func VerifySerialFromPath(path string) (string, bool) {
	const prefix = "/verify/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	serial := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if serial == "" {
		return "", false
	}
	return serial, true
}

// IsRecoveryFragment reporta si el fragmento de URL fuerza modo recovery.
func IsRecoveryFragment(fragment string) bool {
	return strings.Contains(fragment, "type=recovery")
}

// ResolveBoot resuelve el estado inicial a partir del path, el fragmento y
// el resultado de la resolucion de sesion. Un error del proveedor de
// identidad nunca es fatal: se loggea y se trata como sesion inexistente.
func (m *Machine) ResolveBoot(path, fragment string, authenticated, paid bool, sessionErr error) State {
	if sessionErr != nil {
		if m.logger != nil {
			m.logger.Warn("session resolution failed, continuing without session", zap.Error(sessionErr))
		}
		authenticated = false
		paid = false
	}
	m.authenticated = authenticated
	m.paid = paid && authenticated

	// /verify/<serial> cortocircuita a la vista publica sin requerir sesion.
	if serial, ok := VerifySerialFromPath(path); ok {
		m.back = append(m.back, m.homeState())
		m.state = State{Kind: StatePublicVerify, Serial: serial}
		return m.state
	}

	if IsRecoveryFragment(fragment) {
		m.state = State{Kind: StateAuthModal, AuthMode: ModeRecovery}
		return m.state
	}

	m.state = m.homeState()
	return m.state
}

func (m *Machine) homeState() State {
	if m.authenticated && m.paid {
		return State{Kind: StateDashboard}
	}
	return State{Kind: StateLanding}
}

// SelectPlan entra a checkout, o abre el modal en modo signup guardando la
// seleccion pendiente si todavia no hay sesion.
func (m *Machine) SelectPlan(sel domain.CheckoutSelection) State {
	if !m.authenticated {
		stash := sel
		m.stash = &stash
		m.state = State{Kind: StateAuthModal, AuthMode: ModeSignUp}
		return m.state
	}
	selection := sel
	m.state = State{Kind: StateCheckout, Selection: &selection}
	return m.state
}

// OpenAuth abre el modal en el modo pedido sin tocar la seleccion pendiente.
func (m *Machine) OpenAuth(mode Mode) State {
	m.state = State{Kind: StateAuthModal, AuthMode: mode}
	return m.state
}

// AuthSucceeded registra la sesion nueva. Si habia una seleccion pendiente
// se reanuda el checkout con ella, intacta.
func (m *Machine) AuthSucceeded(paid bool) State {
	m.authenticated = true
	m.paid = paid
	if m.stash != nil {
		selection := *m.stash
		m.stash = nil
		m.state = State{Kind: StateCheckout, Selection: &selection}
		return m.state
	}
	m.state = m.homeState()
	return m.state
}

// AuthDismissed cierra el modal y descarta la seleccion pendiente.
func (m *Machine) AuthDismissed() State {
	m.stash = nil
	m.state = m.homeState()
	return m.state
}

// CompleteCheckout marca el perfil como pagado y pasa al dashboard.
func (m *Machine) CompleteCheckout() State {
	m.paid = m.authenticated
	m.state = m.homeState()
	return m.state
}

// CancelCheckout abandona el checkout sin consumir la seleccion.
func (m *Machine) CancelCheckout() State {
	m.state = m.homeState()
	return m.state
}

// Logout limpia sesion, perfil y seleccion pendiente.
func (m *Machine) Logout() State {
	m.authenticated = false
	m.paid = false
	m.stash = nil
	m.back = nil
	m.state = State{Kind: StateLanding}
	return m.state
}

// OpenVerify entra a la vista publica apilando el estado actual para volver.
func (m *Machine) OpenVerify(serial string) State {
	m.back = append(m.back, m.state)
	m.state = State{Kind: StatePublicVerify, Serial: serial}
	return m.state
}

// Back restaura el estado previo a la vista publica.
func (m *Machine) Back() State {
	if n := len(m.back); n > 0 {
		m.state = m.back[n-1]
		m.back = m.back[:n-1]
		return m.state
	}
	m.state = m.homeState()
	return m.state
}
