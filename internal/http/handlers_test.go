package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-shielder/internal/llm"
	"shop-shielder/internal/repository"
	"shop-shielder/internal/service"
)

type mockEmailSender struct {
	lastTo   string
	lastLink string
	err      error
}

func (m *mockEmailSender) SendPasswordReset(_ context.Context, toEmail, link string, _ time.Time) error {
	m.lastTo = toEmail
	m.lastLink = link
	return m.err
}

type testEnv struct {
	router *gin.Engine
	users  *repository.MemoryUserRepository
	badges *repository.MemoryBadgeRepository
	sender *mockEmailSender
	llm    *llm.MockClient
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	users := repository.NewMemoryUserRepository()
	badges := repository.NewMemoryBadgeRepository()
	sender := &mockEmailSender{}
	mock := &llm.MockClient{Response: `{"score": 70, "risks": [], "issues": [], "leaksFound": 0, "findings": []}`}

	authSvc := service.NewAuthService(logger, users, sender, nil)
	jwtSvc := service.NewJWTServiceWithStore("test-secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
	badgeSvc := service.NewBadgeService(logger, badges, "https://shopshielder.com")
	checkoutSvc := service.NewCheckoutService(logger, users, badgeSvc)
	complianceSvc := service.NewComplianceService(mock, logger)
	policySvc := service.NewPolicyService(mock, logger)
	secretSvc := service.NewSecretScanService(mock, logger)

	authH := NewAuthHandler(logger, authSvc, jwtSvc, "https://shopshielder.com")
	profileH := NewProfileHandler(logger, authSvc, jwtSvc, checkoutSvc)
	complianceH := NewComplianceHandler(logger, complianceSvc, policySvc, secretSvc)
	verifyH := NewVerifyHandler(logger, authSvc, badgeSvc)

	return &testEnv{
		router: NewRouter(logger, jwtSvc, authH, profileH, complianceH, verifyH),
		users:  users,
		badges: badges,
		sender: sender,
		llm:    mock,
	}
}

func performRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
	return body
}

func signUp(t *testing.T, env *testEnv, email, storeURL string) (accessToken string, user map[string]any) {
	t.Helper()
	rec := performRequest(env.router, http.MethodPost, "/auth/signup", "", gin.H{
		"email":     email,
		"password":  "supersecret",
		"store_url": storeURL,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	tokens := body["tokens"].(map[string]any)
	return tokens["access_token"].(string), body["user"].(map[string]any)
}

func TestSignUpAndLogin(t *testing.T) {
	env := setupRouter(t)

	_, user := signUp(t, env, "a@example.com", "https://www.acme.com")
	if user["store_name"] != "ACME" {
		t.Fatalf("expected derived store name ACME, got %v", user["store_name"])
	}
	if _, exposed := user["PasswordHash"]; exposed {
		t.Fatalf("password hash must never be serialized")
	}

	rec := performRequest(env.router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "a@example.com",
		"password": "supersecret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "a@example.com",
		"password": "wrongpass",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", rec.Code)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	env := setupRouter(t)
	signUp(t, env, "a@example.com", "acme.com")

	rec := performRequest(env.router, http.MethodPost, "/auth/signup", "", gin.H{
		"email":    "a@example.com",
		"password": "supersecret",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d", rec.Code)
	}
}

func TestSessionRequiresToken(t *testing.T) {
	env := setupRouter(t)

	rec := performRequest(env.router, http.MethodGet, "/session", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", rec.Code)
	}

	token, _ := signUp(t, env, "a@example.com", "acme.com")
	rec = performRequest(env.router, http.MethodGet, "/session", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("session status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	if user["email"] != "a@example.com" {
		t.Fatalf("unexpected session user: %v", user)
	}
}

func TestRefreshRotationOverHTTP(t *testing.T) {
	env := setupRouter(t)
	rec := performRequest(env.router, http.MethodPost, "/auth/signup", "", gin.H{
		"email":    "a@example.com",
		"password": "supersecret",
	})
	body := decodeBody(t, rec)
	refresh := body["tokens"].(map[string]any)["refresh_token"].(string)

	rec = performRequest(env.router, http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": refresh})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d", rec.Code)
	}

	rec = performRequest(env.router, http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": refresh})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("reused refresh token status = %d", rec.Code)
	}
}

func TestRecoverAndResetPassword(t *testing.T) {
	env := setupRouter(t)
	signUp(t, env, "a@example.com", "acme.com")

	rec := performRequest(env.router, http.MethodPost, "/auth/recover", "", gin.H{"email": "a@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("recover status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(env.sender.lastLink, "type=recovery") {
		t.Fatalf("reset link must carry the recovery fragment: %q", env.sender.lastLink)
	}

	// Unknown emails answer exactly the same.
	rec = performRequest(env.router, http.MethodPost, "/auth/recover", "", gin.H{"email": "ghost@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("recover unknown email status = %d", rec.Code)
	}

	_, frag, _ := strings.Cut(env.sender.lastLink, "#reset_token=")
	token, _, _ := strings.Cut(frag, "&")

	rec = performRequest(env.router, http.MethodPost, "/auth/password", "", gin.H{
		"email":        "a@example.com",
		"token":        token,
		"new_password": "brandnewpass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "a@example.com",
		"password": "brandnewpass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login with new password status = %d", rec.Code)
	}
}

func TestCheckoutCompleteAndBadge(t *testing.T) {
	env := setupRouter(t)
	token, _ := signUp(t, env, "a@example.com", "https://acme.com")

	rec := performRequest(env.router, http.MethodPost, "/checkout/complete", token, gin.H{
		"plan":     "standard",
		"interval": "yearly",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("checkout status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["monthly_price"].(float64) != 16 {
		t.Fatalf("expected yearly standard price 16, got %v", body["monthly_price"])
	}
	user := body["user"].(map[string]any)
	if user["is_paid"] != true {
		t.Fatalf("expected paid profile: %v", user)
	}

	rec = performRequest(env.router, http.MethodGet, "/badge", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("badge status = %d, body %s", rec.Code, rec.Body.String())
	}
	body = decodeBody(t, rec)
	badge := body["badge"].(map[string]any)
	serial := badge["serial"].(string)
	if !strings.HasPrefix(serial, "SS-") {
		t.Fatalf("unexpected serial: %q", serial)
	}
	if body["verify_url"] != "https://shopshielder.com/verify/"+serial {
		t.Fatalf("unexpected verify url: %v", body["verify_url"])
	}

	scorecard := body["scorecard"].(map[string]any)
	if overall := scorecard["overall"].(float64); overall < 98 || overall > 100 {
		t.Fatalf("paid overall out of range: %v", overall)
	}
}

func TestCheckoutRejectsInvalidPlan(t *testing.T) {
	env := setupRouter(t)
	token, _ := signUp(t, env, "a@example.com", "acme.com")

	rec := performRequest(env.router, http.MethodPost, "/checkout/complete", token, gin.H{
		"plan":     "gold",
		"interval": "monthly",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid plan status = %d", rec.Code)
	}
}

func TestVerifyEndpointIsPublic(t *testing.T) {
	env := setupRouter(t)
	token, _ := signUp(t, env, "a@example.com", "acme.com")
	performRequest(env.router, http.MethodPost, "/checkout/complete", token, gin.H{
		"plan":     "standard",
		"interval": "monthly",
	})
	rec := performRequest(env.router, http.MethodGet, "/badge", token, nil)
	serial := decodeBody(t, rec)["badge"].(map[string]any)["serial"].(string)

	rec = performRequest(env.router, http.MethodGet, "/verify/"+serial, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	verification := body["verification"].(map[string]any)
	if verification["registered"] != true {
		t.Fatalf("expected registered serial: %v", verification)
	}
	if verification["store_label"] != "acme.com" {
		t.Fatalf("unexpected store label: %v", verification["store_label"])
	}

	rec = performRequest(env.router, http.MethodGet, "/verify/garbage", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("malformed serial status = %d", rec.Code)
	}

	rec = performRequest(env.router, http.MethodGet, "/verify/SS-2024-DEADBEEF", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("well-formed unknown serial status = %d", rec.Code)
	}
	body = decodeBody(t, rec)
	if body["verification"].(map[string]any)["store_label"] != "Authorized Merchant" {
		t.Fatalf("expected generic merchant label: %v", body)
	}
}

func TestVerifyQRReturnsPNG(t *testing.T) {
	env := setupRouter(t)

	rec := performRequest(env.router, http.MethodGet, "/verify/SS-2024-28A7DBA7/qr", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("qr status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if b := rec.Body.Bytes(); len(b) < 4 || string(b[1:4]) != "PNG" {
		t.Fatalf("expected a PNG payload")
	}
}

func TestBootstrapStates(t *testing.T) {
	env := setupRouter(t)

	// Sin sesion aterriza en landing.
	rec := performRequest(env.router, http.MethodGet, "/bootstrap?path=/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bootstrap status = %d", rec.Code)
	}
	state := decodeBody(t, rec)["state"].(map[string]any)
	if state["kind"] != "landing" {
		t.Fatalf("expected landing, got %v", state)
	}

	// Un token invalido degrada a sesion inexistente, nunca a error.
	rec = performRequest(env.router, http.MethodGet, "/bootstrap?path=/", "not-a-token", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bootstrap with bad token status = %d", rec.Code)
	}
	state = decodeBody(t, rec)["state"].(map[string]any)
	if state["kind"] != "landing" {
		t.Fatalf("expected landing for invalid token, got %v", state)
	}

	// El fragmento de recovery abre el modal en modo reset.
	rec = performRequest(env.router, http.MethodGet, "/bootstrap?path=/&fragment=reset_token%3Dabc%26type%3Drecovery", "", nil)
	state = decodeBody(t, rec)["state"].(map[string]any)
	if state["kind"] != "auth_modal" || state["auth_mode"] != "recovery" {
		t.Fatalf("expected recovery modal, got %v", state)
	}

	// /verify/<serial> cortocircuita a la vista publica.
	rec = performRequest(env.router, http.MethodGet, "/bootstrap?path=/verify/SS-2024-28A7DBA7", "", nil)
	state = decodeBody(t, rec)["state"].(map[string]any)
	if state["kind"] != "public_verify" || state["serial"] != "SS-2024-28A7DBA7" {
		t.Fatalf("expected public verify state, got %v", state)
	}

	// Un perfil pagado aterriza en el dashboard.
	token, _ := signUp(t, env, "a@example.com", "acme.com")
	performRequest(env.router, http.MethodPost, "/checkout/complete", token, gin.H{
		"plan":     "standard",
		"interval": "monthly",
	})
	rec = performRequest(env.router, http.MethodGet, "/bootstrap?path=/", token, nil)
	state = decodeBody(t, rec)["state"].(map[string]any)
	if state["kind"] != "dashboard" {
		t.Fatalf("expected dashboard for paid profile, got %v", state)
	}
}

func TestComplianceToolsOverHTTP(t *testing.T) {
	env := setupRouter(t)
	token, _ := signUp(t, env, "a@example.com", "acme.com")

	env.llm.Response = `{"score": 62, "risks": [{"category": "Labeling", "severity": "high", "message": "m", "recommendation": "r"}]}`
	rec := performRequest(env.router, http.MethodPost, "/analysis/product", token, gin.H{"product_info": "CBD gummies"})
	if rec.Code != http.StatusOK {
		t.Fatalf("product analysis status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["degraded"] != false {
		t.Fatalf("expected live analysis: %v", body)
	}
	if body["analysis"].(map[string]any)["score"].(float64) != 62 {
		t.Fatalf("unexpected analysis: %v", body["analysis"])
	}

	env.llm.Response = `{"score": 55, "issues": []}`
	rec = performRequest(env.router, http.MethodPost, "/analysis/accessibility", token, gin.H{"html_source": "<button></button>"})
	if rec.Code != http.StatusOK {
		t.Fatalf("accessibility status = %d", rec.Code)
	}

	env.llm.Response = "PRIVACY POLICY\n\nFull text."
	rec = performRequest(env.router, http.MethodPost, "/policies/privacy", token, gin.H{"store_details": "ACME"})
	if rec.Code != http.StatusOK {
		t.Fatalf("policy status = %d", rec.Code)
	}
	if policy := decodeBody(t, rec)["policy"].(string); !strings.Contains(policy, "PRIVACY POLICY") {
		t.Fatalf("unexpected policy: %q", policy)
	}

	env.llm.Response = `{"leaksFound": 1, "findings": [{"file": ".env", "type": "Environment File", "severity": "Critical", "description": "d", "fixCommand": "x"}]}`
	rec = performRequest(env.router, http.MethodPost, "/scan/secrets", token, gin.H{"input": ".env committed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("secret scan status = %d", rec.Code)
	}
	scan := decodeBody(t, rec)["scan"].(map[string]any)
	findings := scan["findings"].([]any)
	if fix := findings[0].(map[string]any)["fix_command"].(string); !strings.HasPrefix(fix, "git rm --cached .env") {
		t.Fatalf("expected canonical env remediation, got %q", fix)
	}

	// Las herramientas requieren sesion.
	rec = performRequest(env.router, http.MethodPost, "/scan/secrets", "", gin.H{"input": "x"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated tool status = %d", rec.Code)
	}
}
