package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hopeshare/campaign-service/internal/app"
	"github.com/hopeshare/campaign-service/internal/domain"
	"github.com/hopeshare/campaign-service/internal/store"
	"github.com/hopeshare/campaign-service/pkg/mercadopago"
)

const testJWTSecret = "test-secret"

type handlerRepoStub struct {
	store.Repository

	caller   *domain.User
	campaign *domain.Campaign

	updateStatusCalled bool
	createdDonation    *domain.Donation
	lastUserLookup     uuid.UUID
}

func (s *handlerRepoStub) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	s.lastUserLookup = userID
	if s.caller == nil {
		return nil, store.ErrUserNotFound
	}
	return s.caller, nil
}

func (s *handlerRepoStub) FindCampaignByID(ctx context.Context, campaignID uuid.UUID) (*domain.Campaign, error) {
	if s.campaign == nil {
		return nil, store.ErrCampaignNotFound
	}
	return s.campaign, nil
}

func (s *handlerRepoStub) UpdateCampaignStatus(ctx context.Context, campaignID uuid.UUID, status string, reason *string) (*domain.Campaign, error) {
	s.updateStatusCalled = true
	updated := *s.campaign
	updated.Status = status
	updated.SuspensionReason = reason
	return &updated, nil
}

func (s *handlerRepoStub) CreateDonation(ctx context.Context, donation *domain.Donation) error {
	s.createdDonation = donation
	return nil
}

type handlerGatewayStub struct {
	paymentErr error
	payment    *mercadopago.PaymentResponse
	preference *mercadopago.PreferenceResponse
}

func (g *handlerGatewayStub) CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.PreferenceResponse, error) {
	if g.preference == nil {
		return nil, errors.New("not implemented")
	}
	return g.preference, nil
}

func (g *handlerGatewayStub) GetPayment(ctx context.Context, paymentID string) (*mercadopago.PaymentResponse, error) {
	if g.paymentErr != nil {
		return nil, g.paymentErr
	}
	return g.payment, nil
}

func (g *handlerGatewayStub) RefundPayment(ctx context.Context, paymentID string, amountCentavos *int64) (*mercadopago.RefundResponse, error) {
	return nil, errors.New("not implemented")
}

func newTestRouter(repo store.Repository, gateway app.PaymentGateway) http.Handler {
	svc := app.NewService(repo, gateway, nil, nil, nil, testJWTSecret, "http://front", "http://api")
	return CampaignRoutes(NewCampaignHandlers(svc), testJWTSecret)
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return "Bearer " + signed
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestMercadoPagoWebhook_BadBodyStillAnswers200(t *testing.T) {
	router := newTestRouter(&handlerRepoStub{}, &handlerGatewayStub{})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
}

func TestMercadoPagoWebhook_ServiceFailureStillAnswers200(t *testing.T) {
	gateway := &handlerGatewayStub{paymentErr: errors.New("gateway timeout")}
	router := newTestRouter(&handlerRepoStub{}, gateway)

	payload := `{"type":"payment","data":{"id":"987654"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
}

func TestMercadoPagoWebhook_NonPaymentTypeIsAcknowledged(t *testing.T) {
	router := newTestRouter(&handlerRepoStub{}, &handlerGatewayStub{})

	payload := `{"type":"merchant_order","data":{"id":"555"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
}

func TestSuspendCampaign_UnknownAndNonAdminGetIdenticalResponse(t *testing.T) {
	campaign := &domain.Campaign{ID: uuid.New(), Status: domain.CampaignStatusActive}

	cases := []struct {
		name string
		repo *handlerRepoStub
	}{
		{name: "unknown caller", repo: &handlerRepoStub{campaign: campaign}},
		{name: "non-admin caller", repo: &handlerRepoStub{
			caller:   &domain.User{ID: uuid.New(), Admin: false},
			campaign: campaign,
		}},
	}

	var bodies []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(tc.repo, &handlerGatewayStub{})
			callerID := uuid.New()

			url := "/campanha/admin/" + callerID.String() + "/campanha/" + campaign.ID.String() + "/suspend"
			req := httptest.NewRequest(http.MethodPatch, url, bytes.NewBufferString(`{"reason":"spam"}`))
			req.Header.Set("Authorization", bearerToken(t, callerID))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if body := decodeBody(t, rec); body["error"] != "access denied" {
				t.Fatalf("expected access denied body, got %v", body["error"])
			}
			bodies = append(bodies, rec.Body.String())
			if tc.repo.updateStatusCalled {
				t.Fatal("expected no status write")
			}
		})
	}
	if len(bodies) == 2 && bodies[0] != bodies[1] {
		t.Fatalf("expected identical bodies for both callers, got %q vs %q", bodies[0], bodies[1])
	}
}

func TestSuspendCampaign_MissingReasonIs400(t *testing.T) {
	admin := &domain.User{ID: uuid.New(), Admin: true}
	campaign := &domain.Campaign{ID: uuid.New(), Status: domain.CampaignStatusActive}
	repo := &handlerRepoStub{caller: admin, campaign: campaign}
	router := newTestRouter(repo, &handlerGatewayStub{})

	url := "/campanha/admin/" + admin.ID.String() + "/campanha/" + campaign.ID.String() + "/suspend"
	req := httptest.NewRequest(http.MethodPatch, url, bytes.NewBufferString(`{"reason":""}`))
	req.Header.Set("Authorization", bearerToken(t, admin.ID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if repo.updateStatusCalled {
		t.Fatal("expected no status write for an empty reason")
	}
}

func TestSuspendCampaign_RequiresBearerToken(t *testing.T) {
	router := newTestRouter(&handlerRepoStub{}, &handlerGatewayStub{})

	url := "/campanha/admin/" + uuid.New().String() + "/campanha/" + uuid.New().String() + "/suspend"
	req := httptest.NewRequest(http.MethodPatch, url, bytes.NewBufferString(`{"reason":"spam"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestGetCampaign_UnknownIs404(t *testing.T) {
	router := newTestRouter(&handlerRepoStub{}, &handlerGatewayStub{})

	req := httptest.NewRequest(http.MethodGet, "/campanha/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "campaign not found" {
		t.Fatalf("unexpected error body %v", body["error"])
	}
}

func TestSetCampaignStatus_InvalidTransitionIs400(t *testing.T) {
	admin := &domain.User{ID: uuid.New(), Admin: true}
	campaign := &domain.Campaign{ID: uuid.New(), Status: domain.CampaignStatusFinished}
	repo := &handlerRepoStub{caller: admin, campaign: campaign}
	router := newTestRouter(repo, &handlerGatewayStub{})

	url := "/campanha/admin/" + admin.ID.String() + "/campanhas/" + campaign.ID.String() + "/active"
	req := httptest.NewRequest(http.MethodPatch, url, nil)
	req.Header.Set("Authorization", bearerToken(t, admin.ID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if repo.updateStatusCalled {
		t.Fatal("expected no status write for a terminal campaign")
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&handlerRepoStub{}, &handlerGatewayStub{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateDonation_DonorDefaultsToTokenSubject(t *testing.T) {
	caller := &domain.User{ID: uuid.New(), Name: "Maria", Email: "maria@example.com"}
	campaign := &domain.Campaign{ID: uuid.New(), Title: "Cirurgia da Ana", Status: domain.CampaignStatusActive}
	repo := &handlerRepoStub{caller: caller, campaign: campaign}
	gateway := &handlerGatewayStub{preference: &mercadopago.PreferenceResponse{
		ID:        "pref-123",
		InitPoint: "https://mp.example/checkout/pref-123",
	}}
	router := newTestRouter(repo, gateway)

	body := `{"campaign_id":"` + campaign.ID.String() + `","amount":2500}`
	req := httptest.NewRequest(http.MethodPost, "/doacoes", bytes.NewBufferString(body))
	req.Header.Set("Authorization", bearerToken(t, caller.ID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.lastUserLookup != caller.ID {
		t.Fatalf("expected the donor to be resolved from the token subject, looked up %s", repo.lastUserLookup)
	}
	if repo.createdDonation == nil || repo.createdDonation.DonorID != caller.ID {
		t.Fatalf("expected the donation bound to the token subject, got %+v", repo.createdDonation)
	}
}
