package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/chaincast/chaincast-backend/internal/model"
	"github.com/chaincast/chaincast-backend/internal/payment"
)

type stubPaymentRepo struct {
	Pending []*model.Payment
	Failed  []int
	GotAge  time.Duration
}

func (s *stubPaymentRepo) Create(p *model.Payment) error { return nil }

func (s *stubPaymentRepo) GetByID(id int) (*model.Payment, error) { return nil, nil }

func (s *stubPaymentRepo) GetBySessionID(id string) (*model.Payment, error) { return nil, nil }

func (s *stubPaymentRepo) GetByAnnouncement(id int) (*model.Payment, error) { return nil, nil }

func (s *stubPaymentRepo) UpdateSessionID(id int, sessionID string) error { return nil }

func (s *stubPaymentRepo) MarkFailed(id int, reason string) error {
	s.Failed = append(s.Failed, id)
	return nil
}

func (s *stubPaymentRepo) Confirm(p *model.Payment, txHash string, earnings []model.CommunityEarning) error {
	return nil
}

func (s *stubPaymentRepo) ListPendingOlderThan(age time.Duration) ([]*model.Payment, error) {
	s.GotAge = age
	return s.Pending, nil
}

func (s *stubPaymentRepo) ListEarningsByCommunity(communityID int) ([]model.CommunityEarning, error) {
	return nil, nil
}

func (s *stubPaymentRepo) ListEarningsByPayment(paymentID int) ([]model.CommunityEarning, error) {
	return nil, nil
}

type stubGateway struct {
	Results map[string]*payment.VerifyResult
}

func (s *stubGateway) CreateCheckoutSession(amount float64, currency, productName, successURL string) (*payment.CheckoutSession, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubGateway) VerifyPayment(sessionID string) (*payment.VerifyResult, error) {
	result, ok := s.Results[sessionID]
	if !ok {
		return nil, fmt.Errorf("unknown session")
	}
	return result, nil
}

type stubConfirmer struct {
	Confirmed []string
}

func (s *stubConfirmer) ConfirmPayment(sessionID, txHash string, demo bool) error {
	s.Confirmed = append(s.Confirmed, sessionID)
	return nil
}

func TestSweepSettlesPaidAndMarksFailed(t *testing.T) {
	repo := &stubPaymentRepo{Pending: []*model.Payment{
		{ID: 1, GatewaySessionID: "cs_paid"},
		{ID: 2, GatewaySessionID: "cs_failed"},
		{ID: 3, GatewaySessionID: "cs_open"},
		{ID: 4, GatewaySessionID: "cs_unknown"},
	}}
	confirmer := &stubConfirmer{}
	r := &Reconciler{
		PaymentRepo: repo,
		Gateway: &stubGateway{Results: map[string]*payment.VerifyResult{
			"cs_paid":   {Status: "paid", TxHash: "0xabc"},
			"cs_failed": {Status: "failed"},
			"cs_open":   {Status: "open"},
		}},
		Confirmer: confirmer,
	}

	r.sweep()

	if len(confirmer.Confirmed) != 1 || confirmer.Confirmed[0] != "cs_paid" {
		t.Errorf("expected cs_paid confirmed, got %v", confirmer.Confirmed)
	}
	if len(repo.Failed) != 1 || repo.Failed[0] != 2 {
		t.Errorf("expected payment 2 marked failed, got %v", repo.Failed)
	}
	if repo.GotAge != 10*time.Minute {
		t.Errorf("expected default min age 10m, got %v", repo.GotAge)
	}
}

func TestSweepHonorsConfiguredMinAge(t *testing.T) {
	repo := &stubPaymentRepo{}
	r := &Reconciler{PaymentRepo: repo, MinAge: time.Hour}

	r.sweep()

	if repo.GotAge != time.Hour {
		t.Errorf("expected min age 1h, got %v", repo.GotAge)
	}
}
