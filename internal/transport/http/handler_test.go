package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kontra/internal/billing"
	"kontra/internal/check"
	"kontra/internal/facet"
	"kontra/internal/history"
	"kontra/internal/quota"
	"kontra/internal/risk"
	"kontra/internal/token"
	"kontra/pkg/domain"
	derrors "kontra/pkg/domain-errors"
)

type stubChecks struct {
	result check.Result
	pdf    []byte
	err    error
}

func (s *stubChecks) Run(context.Context, domain.UserID, domain.TaxID) (check.Result, error) {
	return s.result, s.err
}

func (s *stubChecks) Document(context.Context, domain.UserID, domain.TaxID) ([]byte, error) {
	return s.pdf, s.err
}

type stubQuota struct {
	user   quota.User
	admins map[domain.UserID]bool
	users  int
}

func (s *stubQuota) GetOrCreate(_ context.Context, id domain.UserID) (quota.User, error) {
	u := s.user
	u.ID = id
	return u, nil
}

func (s *stubQuota) IsAdmin(id domain.UserID) bool { return s.admins[id] }

func (s *stubQuota) CountUsers(context.Context) (int, error) { return s.users, nil }

type fixture struct {
	server  *httptest.Server
	tokens  *token.Service
	checks  *stubChecks
	quota   *stubQuota
	history *history.Service
	billing *billing.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		tokens: token.NewService("test-key"),
		checks: &stubChecks{
			result: check.Result{
				Report: risk.Report{
					Company:     facet.Company{Card: facet.CompanyCard{Name: "ООО Ромашка", TaxID: "7707083893"}},
					Factors:     []risk.Factor{{Severity: risk.SeverityOK, Label: "Статус", Detail: "компания действующая"}},
					Tier:        risk.TierLow,
					DisplayTier: risk.TierLow,
					GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
				},
				Text:  "🟢 **НИЗКИЙ РИСК**",
				Grant: quota.GrantFreeCheck,
			},
			pdf: []byte("%PDF-stub"),
		},
		quota:   &stubQuota{user: quota.User{ChecksLeft: 3}, admins: map[domain.UserID]bool{99: true}, users: 5},
		history: history.NewService(history.NewInMemoryStore()),
	}
	provider := &paymentProviderStub{statuses: map[string]billing.Status{}}
	f.billing = billing.NewService(provider, billing.NewInMemoryStore(), &activatorStub{})

	handler := NewHandler(f.checks, f.quota, f.history, f.billing, slog.New(slog.DiscardHandler))
	router := NewRouter(handler, f.tokens, f.quota.IsAdmin, slog.New(slog.DiscardHandler), nil)
	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

type paymentProviderStub struct {
	statuses map[string]billing.Status
}

func (p *paymentProviderStub) CreatePayment(_ context.Context, userID domain.UserID, tariff billing.Tariff) (billing.Payment, error) {
	p.statuses["pay-1"] = billing.StatusPending
	return billing.Payment{
		ID: "pay-1", UserID: userID, Tariff: tariff.Code, Amount: tariff.Amount,
		Status: billing.StatusPending, ConfirmationURL: "https://pay.example/confirm",
	}, nil
}

func (p *paymentProviderStub) GetPayment(_ context.Context, id string) (billing.Payment, error) {
	return billing.Payment{ID: id, Status: p.statuses[id]}, nil
}

type activatorStub struct{}

func (activatorStub) ActivatePremium(_ context.Context, _ domain.UserID, d time.Duration) (time.Time, error) {
	return time.Now().Add(d), nil
}

func (f *fixture) request(t *testing.T, method, path string, body any, userID domain.UserID) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if userID != 0 {
		signed, err := f.tokens.Generate(userID, false, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+signed)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRunCheck(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/checks", checkRequest{TaxID: "7707083893"}, 1)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[checkResponse](t, resp)
	assert.Equal(t, "ООО Ромашка", body.CompanyName)
	assert.Equal(t, risk.TierLow, body.Tier)
	assert.Len(t, body.Factors, 1)
	assert.Contains(t, body.Text, "НИЗКИЙ РИСК")
}

func TestRunCheck_InvalidTaxID(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/checks", checkRequest{TaxID: "12345"}, 1)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunCheck_RequiresAuth(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/checks", checkRequest{TaxID: "7707083893"}, 0)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRunCheck_QuotaExceededMapsTo402(t *testing.T) {
	f := newFixture(t)
	f.checks.err = derrors.New(derrors.CodeQuotaExceeded, "бесплатные проверки закончились")

	resp := f.request(t, http.MethodPost, "/checks", checkRequest{TaxID: "7707083893"}, 1)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
}

func TestRunCheck_NotFoundMapsTo404(t *testing.T) {
	f := newFixture(t)
	f.checks.err = derrors.New(derrors.CodeNotFound, "компания с таким ИНН не найдена")

	resp := f.request(t, http.MethodPost, "/checks", checkRequest{TaxID: "7707083893"}, 1)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetDocument(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, "/checks/7707083893/document", nil, 1)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestMe(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, "/me", nil, 42)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[meResponse](t, resp)
	assert.Equal(t, int64(42), body.UserID)
	assert.Equal(t, 3, body.ChecksLeft)
	assert.False(t, body.IsAdmin)
}

func TestFavoritesRoundTrip(t *testing.T) {
	f := newFixture(t)
	user := domain.UserID(1)

	resp := f.request(t, http.MethodPost, "/me/favorites",
		favoriteRequest{TaxID: "7707083893", CompanyName: "ООО Ромашка"}, user)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/me/favorites", nil, user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string][]favoriteResponse](t, resp)
	require.Len(t, body["favorites"], 1)
	assert.Equal(t, "ООО Ромашка", body["favorites"][0].CompanyName)

	resp = f.request(t, http.MethodDelete, "/me/favorites/7707083893", nil, user)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.request(t, http.MethodDelete, "/me/favorites/7707083893", nil, user)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPaymentsFlow(t *testing.T) {
	f := newFixture(t)
	user := domain.UserID(1)

	resp := f.request(t, http.MethodPost, "/payments", paymentRequest{Tariff: "month"}, user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[paymentResponse](t, resp)
	assert.Equal(t, "pay-1", created.ID)
	assert.NotEmpty(t, created.ConfirmationURL)

	resp = f.request(t, http.MethodGet, "/payments/pay-1", nil, user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	refreshed := decode[paymentResponse](t, resp)
	assert.Equal(t, billing.StatusPending, refreshed.Status)
}

func TestStartPayment_UnknownTariff(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/payments", paymentRequest{Tariff: "forever"}, 1)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminStats(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, "/admin/stats", nil, 1)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/admin/stats", nil, 99)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[adminStatsResponse](t, resp)
	assert.Equal(t, 5, body.TotalUsers)
}

func TestHealthz_NoAuthRequired(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, "/healthz", nil, 0)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
