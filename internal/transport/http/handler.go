// Package http exposes the check pipeline and its supporting services over
// a JSON API consumed by the chat transport.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"kontra/internal/billing"
	"kontra/internal/check"
	"kontra/internal/history"
	"kontra/internal/quota"
	"kontra/internal/risk"
	"kontra/pkg/domain"
	derrors "kontra/pkg/domain-errors"
	"kontra/pkg/platform/httputil"
)

// CheckService runs lookups and renders documents.
type CheckService interface {
	Run(ctx context.Context, userID domain.UserID, taxID domain.TaxID) (check.Result, error)
	Document(ctx context.Context, userID domain.UserID, taxID domain.TaxID) ([]byte, error)
}

// QuotaService exposes the caller's quota state.
type QuotaService interface {
	GetOrCreate(ctx context.Context, id domain.UserID) (quota.User, error)
	IsAdmin(id domain.UserID) bool
	CountUsers(ctx context.Context) (int, error)
}

// HistoryService lists past checks and manages favorites.
type HistoryService interface {
	List(ctx context.Context, userID domain.UserID, limit int) ([]history.Entry, error)
	UserStats(ctx context.Context, userID domain.UserID) (history.UserStats, error)
	GlobalStats(ctx context.Context) (history.GlobalStats, error)
	AddFavorite(ctx context.Context, userID domain.UserID, taxID domain.TaxID, name string) error
	RemoveFavorite(ctx context.Context, userID domain.UserID, taxID domain.TaxID) error
	ListFavorites(ctx context.Context, userID domain.UserID) ([]history.Favorite, error)
}

// BillingService sells subscriptions.
type BillingService interface {
	Start(ctx context.Context, userID domain.UserID, tariffCode string) (billing.Payment, error)
	Refresh(ctx context.Context, userID domain.UserID, paymentID string) (billing.Payment, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]billing.Payment, error)
}

type Handler struct {
	checks  CheckService
	quota   QuotaService
	history HistoryService
	billing BillingService
	logger  *slog.Logger
}

func NewHandler(checks CheckService, quotaSvc QuotaService, historySvc HistoryService, billingSvc BillingService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		checks:  checks,
		quota:   quotaSvc,
		history: historySvc,
		billing: billingSvc,
		logger:  logger,
	}
}

func taxIDParam(r *http.Request) (domain.TaxID, error) {
	return domain.ParseTaxID(chi.URLParam(r, "taxID"))
}

type checkRequest struct {
	TaxID string `json:"tax_id"`
}

type factorResponse struct {
	Severity risk.Severity `json:"severity"`
	Label    string        `json:"label"`
	Detail   string        `json:"detail,omitempty"`
}

type checkResponse struct {
	TaxID       string           `json:"tax_id"`
	CompanyName string           `json:"company_name"`
	Tier        risk.Tier        `json:"tier"`
	DisplayTier risk.Tier        `json:"display_tier"`
	Factors     []factorResponse `json:"factors"`
	Text        string           `json:"text"`
	Grant       quota.Grant      `json:"grant"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// RunCheck handles POST /checks.
func (h *Handler) RunCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "malformed request body"))
		return
	}
	taxID, err := domain.ParseTaxID(req.TaxID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.checks.Run(r.Context(), UserIDFrom(r.Context()), taxID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	factors := make([]factorResponse, 0, len(result.Report.Factors))
	for _, f := range result.Report.Factors {
		factors = append(factors, factorResponse{Severity: f.Severity, Label: f.Label, Detail: f.Detail})
	}
	httputil.WriteJSON(w, http.StatusOK, checkResponse{
		TaxID:       string(taxID),
		CompanyName: result.Report.Company.Card.DisplayName(),
		Tier:        result.Report.Tier,
		DisplayTier: result.Report.DisplayTier,
		Factors:     factors,
		Text:        result.Text,
		Grant:       result.Grant,
		GeneratedAt: result.Report.GeneratedAt,
	})
}

// GetDocument handles GET /checks/{taxID}/document.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	taxID, err := taxIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	pdf, err := h.checks.Document(r.Context(), UserIDFrom(r.Context()), taxID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="report_`+string(taxID)+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

type meResponse struct {
	UserID       int64      `json:"user_id"`
	ChecksLeft   int        `json:"checks_left"`
	IsPremium    bool       `json:"is_premium"`
	PremiumUntil *time.Time `json:"premium_until,omitempty"`
	IsAdmin      bool       `json:"is_admin"`
	TotalChecks  int        `json:"total_checks"`
	TodayChecks  int        `json:"today_checks"`
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserIDFrom(ctx)

	user, err := h.quota.GetOrCreate(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	stats, err := h.history.UserStats(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := meResponse{
		UserID:      userID.Int64(),
		ChecksLeft:  user.ChecksLeft,
		IsPremium:   user.PremiumActive(time.Now()),
		IsAdmin:     h.quota.IsAdmin(userID),
		TotalChecks: stats.TotalChecks,
		TodayChecks: stats.TodayChecks,
	}
	if !user.PremiumUntil.IsZero() {
		resp.PremiumUntil = &user.PremiumUntil
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type historyEntryResponse struct {
	TaxID       string    `json:"tax_id"`
	CompanyName string    `json:"company_name"`
	Tier        risk.Tier `json:"tier"`
	CheckedAt   time.Time `json:"checked_at"`
}

// History handles GET /me/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, derrors.New(derrors.CodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	entries, err := h.history.List(r.Context(), UserIDFrom(r.Context()), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryResponse{
			TaxID:       string(e.TaxID),
			CompanyName: e.CompanyName,
			Tier:        e.Tier,
			CheckedAt:   e.CheckedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"history": out})
}

type favoriteRequest struct {
	TaxID       string `json:"tax_id"`
	CompanyName string `json:"company_name"`
}

type favoriteResponse struct {
	TaxID       string    `json:"tax_id"`
	CompanyName string    `json:"company_name"`
	AddedAt     time.Time `json:"added_at"`
}

// ListFavorites handles GET /me/favorites.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.history.ListFavorites(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]favoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		out = append(out, favoriteResponse{TaxID: string(f.TaxID), CompanyName: f.CompanyName, AddedAt: f.AddedAt})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"favorites": out})
}

// AddFavorite handles POST /me/favorites.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "malformed request body"))
		return
	}
	taxID, err := domain.ParseTaxID(req.TaxID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.history.AddFavorite(r.Context(), UserIDFrom(r.Context()), taxID, req.CompanyName); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFavorite handles DELETE /me/favorites/{taxID}.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	taxID, err := taxIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.history.RemoveFavorite(r.Context(), UserIDFrom(r.Context()), taxID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type tariffResponse struct {
	Code        string `json:"code"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Days        int    `json:"days"`
}

// Tariffs handles GET /tariffs.
func (h *Handler) Tariffs(w http.ResponseWriter, _ *http.Request) {
	out := make([]tariffResponse, 0, len(billing.Tariffs))
	for _, t := range billing.Tariffs {
		out = append(out, tariffResponse{Code: t.Code, Amount: t.Amount, Description: t.Description, Days: t.Days})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tariffs": out})
}

type paymentRequest struct {
	Tariff string `json:"tariff"`
}

type paymentResponse struct {
	ID              string         `json:"id"`
	Tariff          string         `json:"tariff"`
	Amount          string         `json:"amount"`
	Status          billing.Status `json:"status"`
	ConfirmationURL string         `json:"confirmation_url,omitempty"`
	Applied         bool           `json:"applied"`
}

func toPaymentResponse(p billing.Payment) paymentResponse {
	return paymentResponse{
		ID:              p.ID,
		Tariff:          p.Tariff,
		Amount:          p.Amount,
		Status:          p.Status,
		ConfirmationURL: p.ConfirmationURL,
		Applied:         p.Applied,
	}
}

func (h *Handler) billingEnabled(w http.ResponseWriter) bool {
	if h.billing == nil {
		httputil.WriteError(w, derrors.New(derrors.CodeUnavailable, "payments are not configured"))
		return false
	}
	return true
}

// StartPayment handles POST /payments.
func (h *Handler) StartPayment(w http.ResponseWriter, r *http.Request) {
	if !h.billingEnabled(w) {
		return
	}
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "malformed request body"))
		return
	}

	payment, err := h.billing.Start(r.Context(), UserIDFrom(r.Context()), req.Tariff)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

// GetPayment handles GET /payments/{paymentID}, refreshing provider state.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	if !h.billingEnabled(w) {
		return
	}
	payment, err := h.billing.Refresh(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "paymentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPaymentResponse(payment))
}

// ListPayments handles GET /me/payments.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	if !h.billingEnabled(w) {
		return
	}
	payments, err := h.billing.ListByUser(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"payments": out})
}

type adminStatsResponse struct {
	TotalUsers  int `json:"total_users"`
	TotalChecks int `json:"total_checks"`
	TodayChecks int `json:"today_checks"`
}

// AdminStats handles GET /admin/stats.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := h.quota.CountUsers(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	stats, err := h.history.GlobalStats(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, adminStatsResponse{
		TotalUsers:  users,
		TotalChecks: stats.TotalChecks,
		TodayChecks: stats.TodayChecks,
	})
}
