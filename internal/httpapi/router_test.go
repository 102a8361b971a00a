package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/insure-assist/insure-assist/internal/catalog"
	"github.com/insure-assist/insure-assist/internal/config"
	"github.com/insure-assist/insure-assist/internal/models"
	"github.com/insure-assist/insure-assist/internal/policy"
	"github.com/insure-assist/insure-assist/internal/rag"
)

type staticGenerator struct{}

func (staticGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) string {
	return "Here is what your policy covers."
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.User{},
		&policy.Policy{},
		&policy.CoverageDetail{},
		&catalog.InsuranceProduct{},
		&catalog.AddonPack{},
		&catalog.PolicyAddon{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	if err := catalog.NewRepo(gdb).EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	retriever := rag.NewEngine(nil, nil)
	docs := []rag.Document{{Text: "Question: What is a deductible?\nAnswer: The amount you pay first.", Ordinal: 1}}
	if err := retriever.Build(context.Background(), docs); err != nil {
		t.Fatalf("build retriever: %v", err)
	}

	cfg := config.Config{JWTSecret: "test-secret", PolicyNumberMaxAttempts: 100}
	return NewRouter(gdb, cfg, nil, nil, retriever, staticGenerator{})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %s %s (%d): %v\n%s", method, path, w.Code, err, w.Body.String())
	}
	return w, env
}

func signupAndToken(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/signup", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "s3cret-pass",
	})
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("signup failed: %d %s", w.Code, env.Message)
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		t.Fatalf("missing access token: %v %s", err, env.Data)
	}
	return data.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	r := newTestRouter(t)
	signupAndToken(t, r, "Asha", "asha@example.com")

	w, env := doJSON(t, r, http.MethodPost, "/signup", "", gin.H{
		"name":     "Asha Again",
		"email":    "ASHA@example.com",
		"password": "another-pass",
	})
	if w.Code != http.StatusBadRequest || env.Code != 10002 {
		t.Fatalf("expected duplicate rejection, got %d code %d", w.Code, env.Code)
	}
}

func TestLogin(t *testing.T) {
	r := newTestRouter(t)
	signupAndToken(t, r, "Ravi", "ravi@example.com")

	w, env := doJSON(t, r, http.MethodPost, "/login", "", gin.H{
		"email":    "ravi@example.com",
		"password": "s3cret-pass",
	})
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("login failed: %d %s", w.Code, env.Message)
	}

	w, env = doJSON(t, r, http.MethodPost, "/login", "", gin.H{
		"email":    "ravi@example.com",
		"password": "wrong-pass",
	})
	if w.Code != http.StatusUnauthorized || env.Code != 40110 {
		t.Fatalf("expected credential rejection, got %d code %d", w.Code, env.Code)
	}
}

func TestBuyPolicyRequiresAuth(t *testing.T) {
	r := newTestRouter(t)
	w, env := doJSON(t, r, http.MethodPost, "/buy-policy", "", gin.H{"product_code": "HLT_CORE"})
	if w.Code != http.StatusUnauthorized || env.Code != 40101 {
		t.Fatalf("expected auth rejection, got %d code %d", w.Code, env.Code)
	}
}

func TestBuyPolicyEndToEnd(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndToken(t, r, "Meera", "meera@example.com")

	w, env := doJSON(t, r, http.MethodPost, "/buy-policy", token, gin.H{
		"product_code": "HLT_CORE",
		"addon_codes":  []string{"ADD_HEALTH_DENTAL"},
	})
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("purchase failed: %d %s", w.Code, env.Message)
	}

	var data struct {
		Policy policy.SerializedPolicy `json:"policy"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode purchase data: %v", err)
	}
	if !strings.HasPrefix(data.Policy.PolicyNumber, "HLT") {
		t.Fatalf("expected HLT policy number, got %s", data.Policy.PolicyNumber)
	}
	if data.Policy.Premium != 13800 || data.Policy.CoverageLimit != 550000 {
		t.Fatalf("unexpected pricing: premium=%g coverage=%g", data.Policy.Premium, data.Policy.CoverageLimit)
	}

	// owner can read it back
	w, env = doJSON(t, r, http.MethodGet, "/policy/"+data.Policy.PolicyNumber, token, nil)
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("owner lookup failed: %d %s", w.Code, env.Message)
	}

	// another account may not
	other := signupAndToken(t, r, "Kiran", "kiran@example.com")
	w, env = doJSON(t, r, http.MethodGet, "/policy/"+data.Policy.PolicyNumber, other, nil)
	if w.Code != http.StatusForbidden || env.Code != 40310 {
		t.Fatalf("expected ownership rejection, got %d code %d", w.Code, env.Code)
	}
}

func TestBuyPolicyInvalidProduct(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndToken(t, r, "Dev", "dev@example.com")

	w, env := doJSON(t, r, http.MethodPost, "/buy-policy", token, gin.H{"product_code": "NO_SUCH"})
	if w.Code != http.StatusBadRequest || env.Code != 10030 {
		t.Fatalf("expected invalid product rejection, got %d code %d", w.Code, env.Code)
	}
}

func TestGetPolicyNotFound(t *testing.T) {
	r := newTestRouter(t)
	w, env := doJSON(t, r, http.MethodGet, "/policy/HLT000000", "", nil)
	if w.Code != http.StatusNotFound || env.Code != 40410 {
		t.Fatalf("expected not found, got %d code %d", w.Code, env.Code)
	}
}

func TestChatAnonymousPlanDiscovery(t *testing.T) {
	r := newTestRouter(t)
	w, env := doJSON(t, r, http.MethodPost, "/chat", "", gin.H{"message": "show available plans"})
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("chat failed: %d %s", w.Code, env.Message)
	}

	var data struct {
		Response      string `json:"response"`
		BookingIntent bool   `json:"booking_intent"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode chat data: %v", err)
	}
	if !data.BookingIntent {
		t.Fatal("expected booking intent flag")
	}
	if !strings.Contains(data.Response, "HLT_CORE") {
		t.Fatalf("expected catalog listing, got %q", data.Response)
	}
}

func TestProductsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w, env := doJSON(t, r, http.MethodGet, "/products", "", nil)
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("products failed: %d %s", w.Code, env.Message)
	}
	var data struct {
		Products []catalog.ProductView `json:"products"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(data.Products) != len(catalog.DefaultProducts) {
		t.Fatalf("expected %d products, got %d", len(catalog.DefaultProducts), len(data.Products))
	}
}
