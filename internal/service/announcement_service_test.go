package service_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chaincast/chaincast-backend/internal/dispatch"
	appErrors "github.com/chaincast/chaincast-backend/internal/errors"
	"github.com/chaincast/chaincast-backend/internal/model"
	"github.com/chaincast/chaincast-backend/internal/payment"
	"github.com/chaincast/chaincast-backend/internal/service"
	"github.com/chaincast/chaincast-backend/internal/validator"
)

// ====================== Mocks ======================

type MockAnnouncementRepo struct {
	Announcements map[int]*model.Announcement
	nextID        int
}

func NewMockAnnouncementRepo() *MockAnnouncementRepo {
	return &MockAnnouncementRepo{Announcements: map[int]*model.Announcement{}}
}

func (m *MockAnnouncementRepo) Create(a *model.Announcement) error {
	m.nextID++
	a.ID = m.nextID
	copied := *a
	m.Announcements[a.ID] = &copied
	return nil
}

func (m *MockAnnouncementRepo) GetByID(id int) (*model.Announcement, error) {
	a, ok := m.Announcements[id]
	if !ok {
		return nil, appErrors.NewAnnouncementNotFound(id)
	}
	copied := *a
	return &copied, nil
}

func (m *MockAnnouncementRepo) ListAnnouncements(offset, limit int, status string, ownerID int) ([]*model.Announcement, int, error) {
	return nil, 0, nil
}

func (m *MockAnnouncementRepo) Update(a *model.Announcement) error {
	copied := *a
	m.Announcements[a.ID] = &copied
	return nil
}

func (m *MockAnnouncementRepo) UpdateStatus(id int, status string) error {
	a, ok := m.Announcements[id]
	if !ok {
		return appErrors.NewAnnouncementNotFound(id)
	}
	a.Status = status
	return nil
}

func (m *MockAnnouncementRepo) UpdatePaymentStatus(id int, paymentStatus string) error {
	a, ok := m.Announcements[id]
	if !ok {
		return appErrors.NewAnnouncementNotFound(id)
	}
	a.PaymentStatus = paymentStatus
	return nil
}

func (m *MockAnnouncementRepo) UpdateVerdict(id int, status string, verdict *model.Verdict) error {
	a, ok := m.Announcements[id]
	if !ok {
		return appErrors.NewAnnouncementNotFound(id)
	}
	a.Status = status
	a.Verdict = verdict
	return nil
}

type MockCommunityRepo struct {
	Communities map[int]*model.Community
}

func (m *MockCommunityRepo) Create(c *model.Community) error { return nil }

func (m *MockCommunityRepo) GetByID(id int) (*model.Community, error) {
	c, ok := m.Communities[id]
	if !ok {
		return nil, appErrors.NewCommunityNotFound(id)
	}
	return c, nil
}

func (m *MockCommunityRepo) ListCommunities(offset, limit int, platform, approvalStatus string) ([]*model.Community, int, error) {
	return nil, 0, nil
}

func (m *MockCommunityRepo) ListByIDs(ids []int) ([]*model.Community, error) {
	out := []*model.Community{}
	for _, id := range ids {
		if c, ok := m.Communities[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockCommunityRepo) Update(c *model.Community) error { return nil }

func (m *MockCommunityRepo) UpdateApproval(id int, approvalStatus string) error { return nil }

func (m *MockCommunityRepo) UpdateChatID(id int, chatID string) error { return nil }

func (m *MockCommunityRepo) UpdateReach(id int, reach int) error { return nil }

type MockLinkRepo struct {
	Links  map[string]*model.AnnouncementCommunity
	Events []string
	nextID int
}

func NewMockLinkRepo() *MockLinkRepo {
	return &MockLinkRepo{Links: map[string]*model.AnnouncementCommunity{}}
}

func linkKey(announcementID, communityID int) string {
	return fmt.Sprintf("%d:%d", announcementID, communityID)
}

func (m *MockLinkRepo) CreateLink(announcementID, communityID int) (*model.AnnouncementCommunity, error) {
	if existing, ok := m.Links[linkKey(announcementID, communityID)]; ok {
		return existing, nil
	}
	m.nextID++
	link := &model.AnnouncementCommunity{ID: m.nextID, AnnouncementID: announcementID, CommunityID: communityID}
	m.Links[linkKey(announcementID, communityID)] = link
	return link, nil
}

func (m *MockLinkRepo) GetLink(announcementID, communityID int) (*model.AnnouncementCommunity, error) {
	return m.Links[linkKey(announcementID, communityID)], nil
}

func (m *MockLinkRepo) ListByAnnouncement(announcementID int) ([]*model.AnnouncementCommunity, error) {
	out := []*model.AnnouncementCommunity{}
	for _, link := range m.Links {
		if link.AnnouncementID == announcementID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (m *MockLinkRepo) MarkDelivery(announcementID, communityID int, delivered bool, deliveryLog string) error {
	link, ok := m.Links[linkKey(announcementID, communityID)]
	if !ok {
		return fmt.Errorf("link not found")
	}
	link.Delivered = delivered
	link.DeliveryLog = deliveryLog
	return nil
}

func (m *MockLinkRepo) TrackEvent(linkID int, event string) error {
	m.Events = append(m.Events, fmt.Sprintf("%d:%s", linkID, event))
	return nil
}

func (m *MockLinkRepo) GetDeliveryStats(announcementID int) (map[string]int, error) {
	return map[string]int{"delivered": 0, "failed": 0, "pending": 0}, nil
}

type MockPaymentRepo struct {
	Payments     map[int]*model.Payment
	Confirmed    []model.CommunityEarning
	ConfirmCalls int
	nextID       int
}

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{Payments: map[int]*model.Payment{}}
}

func (m *MockPaymentRepo) Create(p *model.Payment) error {
	m.nextID++
	p.ID = m.nextID
	m.Payments[p.ID] = p
	return nil
}

func (m *MockPaymentRepo) GetByID(id int) (*model.Payment, error) {
	p, ok := m.Payments[id]
	if !ok {
		return nil, appErrors.NewPaymentNotFound(fmt.Sprint(id))
	}
	return p, nil
}

func (m *MockPaymentRepo) GetBySessionID(sessionID string) (*model.Payment, error) {
	for _, p := range m.Payments {
		if p.GatewaySessionID == sessionID {
			return p, nil
		}
	}
	return nil, appErrors.NewPaymentNotFound(sessionID)
}

func (m *MockPaymentRepo) GetByAnnouncement(announcementID int) (*model.Payment, error) {
	for _, p := range m.Payments {
		if p.AnnouncementID == announcementID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepo) UpdateSessionID(id int, sessionID string) error {
	p, ok := m.Payments[id]
	if !ok {
		return appErrors.NewPaymentNotFound(fmt.Sprint(id))
	}
	p.GatewaySessionID = sessionID
	return nil
}

func (m *MockPaymentRepo) MarkFailed(id int, reason string) error {
	p, ok := m.Payments[id]
	if !ok {
		return appErrors.NewPaymentNotFound(fmt.Sprint(id))
	}
	p.Status = "failed"
	return nil
}

func (m *MockPaymentRepo) Confirm(p *model.Payment, txHash string, earnings []model.CommunityEarning) error {
	m.ConfirmCalls++
	stored, ok := m.Payments[p.ID]
	if !ok {
		return appErrors.NewPaymentNotFound(fmt.Sprint(p.ID))
	}
	stored.Status = "paid"
	stored.TxHash = txHash
	m.Confirmed = append(m.Confirmed, earnings...)
	return nil
}

func (m *MockPaymentRepo) ListPendingOlderThan(age time.Duration) ([]*model.Payment, error) {
	return nil, nil
}

func (m *MockPaymentRepo) ListEarningsByCommunity(communityID int) ([]model.CommunityEarning, error) {
	return nil, nil
}

func (m *MockPaymentRepo) ListEarningsByPayment(paymentID int) ([]model.CommunityEarning, error) {
	return nil, nil
}

type MockSettingsRepo struct {
	Fee float64
}

func (m *MockSettingsRepo) Get() (*model.PlatformSettings, error) {
	return &model.PlatformSettings{ID: 1, PlatformFee: m.Fee}, nil
}

func (m *MockSettingsRepo) Update(s *model.PlatformSettings) error { return nil }

type MockValidator struct {
	Verdict *model.Verdict
}

func (m *MockValidator) Validate(title, content string) *model.Verdict { return m.Verdict }

func (m *MockValidator) Enhance(title, content string) (*validator.EnhanceResult, error) {
	return nil, fmt.Errorf("not implemented")
}

type MockGateway struct {
	Session     *payment.CheckoutSession
	Verify      *payment.VerifyResult
	VerifyCalls int
}

func (m *MockGateway) CreateCheckoutSession(amount float64, currency, productName, successURL string) (*payment.CheckoutSession, error) {
	if m.Session == nil {
		return nil, fmt.Errorf("gateway unavailable")
	}
	return m.Session, nil
}

func (m *MockGateway) VerifyPayment(sessionID string) (*payment.VerifyResult, error) {
	m.VerifyCalls++
	if m.Verify == nil {
		return nil, fmt.Errorf("gateway unavailable")
	}
	return m.Verify, nil
}

type MockQueue struct {
	Published []any
}

func (m *MockQueue) Publish(topic string, payload any) error {
	m.Published = append(m.Published, payload)
	return nil
}

func (m *MockQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }

type MockDispatcher struct {
	Calls   int
	Summary *dispatch.Summary
}

func (m *MockDispatcher) Dispatch(a *model.Announcement, communities []*model.Community) *dispatch.Summary {
	m.Calls++
	if m.Summary != nil {
		return m.Summary
	}
	return &dispatch.Summary{}
}

// ====================== Fixtures ======================

func newTestService() (*service.AnnouncementService, *MockAnnouncementRepo, *MockLinkRepo, *MockPaymentRepo, *MockQueue) {
	announcements := NewMockAnnouncementRepo()
	links := NewMockLinkRepo()
	payments := NewMockPaymentRepo()
	q := &MockQueue{}

	svc := &service.AnnouncementService{
		AnnouncementRepo: announcements,
		CommunityRepo: &MockCommunityRepo{Communities: map[int]*model.Community{
			1: {ID: 1, Name: "DeFi Signals Hub", Platform: model.PlatformTelegram, ApprovalStatus: model.ApprovalApproved, Price: 30.00},
			2: {ID: 2, Name: "NFT Collectors Lounge", Platform: model.PlatformTelegram, ApprovalStatus: model.ApprovalApproved, Price: 45.00},
			3: {ID: 3, Name: "Alpha Traders", Platform: model.PlatformDiscord, ApprovalStatus: model.ApprovalPending, Price: 40.00},
		}},
		LinkRepo:     links,
		PaymentRepo:  payments,
		SettingsRepo: &MockSettingsRepo{Fee: 1.00},
		Validator:    &MockValidator{Verdict: &model.Verdict{Valid: true, Score: 0.9}},
		Gateway:      &MockGateway{Session: &payment.CheckoutSession{ID: "cs_123", URL: "https://pay.example.com/cs_123"}},
		Queue:        q,
		Dispatcher:   &MockDispatcher{},
	}
	return svc, announcements, links, payments, q
}

func seedAnnouncement(repo *MockAnnouncementRepo, status, paymentStatus string) *model.Announcement {
	a := &model.Announcement{
		Title:         "Join our DeFi Trading Community Today",
		Content:       "We provide real-time trading signals and educational resources for traders of every level.",
		Status:        status,
		PaymentStatus: paymentStatus,
	}
	repo.Create(a)
	repo.Announcements[a.ID].Status = status
	repo.Announcements[a.ID].PaymentStatus = paymentStatus
	return a
}

// ====================== Lifecycle ======================

func TestCreateAnnouncementStartsAsDraft(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	a, err := svc.CreateAnnouncement(1, "Launch Week Announcement", "Full schedule of launch week events.", "", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != model.StatusDraft || a.PaymentStatus != model.PaymentUnpaid {
		t.Errorf("expected draft/unpaid, got %s/%s", a.Status, a.PaymentStatus)
	}
	if repo.Announcements[a.ID] == nil {
		t.Errorf("announcement not persisted")
	}
}

func TestUpdateAnnouncementRejectedAfterSubmission(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusPendingApproval, model.PaymentUnpaid)

	_, err := svc.UpdateAnnouncement(a.ID, "New Title Here", "New content for the announcement body.", "", "", nil)

	var transitionErr *appErrors.ErrInvalidTransition
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}

func TestUpdateAnnouncementResetsFailedValidation(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusValidationFailed, model.PaymentUnpaid)
	repo.Announcements[a.ID].Verdict = &model.Verdict{Valid: false, Score: 0.4}

	updated, err := svc.UpdateAnnouncement(a.ID, "A Much Better Title", "Rewritten content that now satisfies every validation rule in place.", "", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != model.StatusDraft {
		t.Errorf("expected return to draft, got %s", updated.Status)
	}
	if repo.Announcements[a.ID].Verdict != nil {
		t.Errorf("expected stale verdict cleared")
	}
}

func TestValidateAnnouncementPassesToPendingApproval(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusDraft, model.PaymentUnpaid)

	verdict, err := svc.ValidateAnnouncement(a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.Valid {
		t.Errorf("expected valid verdict")
	}
	if got := repo.Announcements[a.ID].Status; got != model.StatusPendingApproval {
		t.Errorf("expected pending_approval, got %s", got)
	}
	if repo.Announcements[a.ID].Verdict == nil {
		t.Errorf("expected verdict persisted")
	}
}

func TestValidateAnnouncementFailsToValidationFailed(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	svc.Validator = &MockValidator{Verdict: &model.Verdict{Valid: false, Score: 0.4, Issues: []string{"Title is too short (minimum 10 characters)"}}}
	a := seedAnnouncement(repo, model.StatusDraft, model.PaymentUnpaid)

	verdict, err := svc.ValidateAnnouncement(a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Valid {
		t.Errorf("expected invalid verdict")
	}
	if got := repo.Announcements[a.ID].Status; got != model.StatusValidationFailed {
		t.Errorf("expected validation_failed, got %s", got)
	}
}

func TestValidateAnnouncementGuardsTerminalStates(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusPublished, model.PaymentPaid)

	_, err := svc.ValidateAnnouncement(a.ID)

	var transitionErr *appErrors.ErrInvalidTransition
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}

// ====================== Selection & checkout ======================

func TestSelectCommunitiesComputesQuotedTotal(t *testing.T) {
	svc, repo, links, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusPendingApproval, model.PaymentUnpaid)

	total, err := svc.SelectCommunities(a.ID, []int{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 76.00 {
		t.Errorf("expected total 76.00 (30 + 45 + 1 fee), got %v", total)
	}
	if len(links.Links) != 2 {
		t.Errorf("expected 2 links created, got %d", len(links.Links))
	}

	// Re-selecting is idempotent
	if _, err := svc.SelectCommunities(a.ID, []int{1, 2}); err != nil {
		t.Fatalf("unexpected error on reselect: %v", err)
	}
	if len(links.Links) != 2 {
		t.Errorf("reselect must not duplicate links, got %d", len(links.Links))
	}
}

func TestSelectCommunitiesRejectsUnapproved(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusPendingApproval, model.PaymentUnpaid)

	_, err := svc.SelectCommunities(a.ID, []int{1, 3})

	var notApproved *appErrors.ErrCommunityNotApproved
	if !errors.As(err, &notApproved) {
		t.Fatalf("expected not-approved error, got %v", err)
	}
}

func TestSelectCommunitiesRequiresPendingApproval(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusDraft, model.PaymentUnpaid)

	if _, err := svc.SelectCommunities(a.ID, []int{1}); err == nil {
		t.Errorf("expected selection rejected in draft")
	}
}

func TestCreateCheckoutCreatesPendingPayment(t *testing.T) {
	svc, repo, _, payments, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusPendingApproval, model.PaymentUnpaid)
	if _, err := svc.SelectCommunities(a.ID, []int{1, 2}); err != nil {
		t.Fatalf("selection failed: %v", err)
	}

	result, err := svc.CreateCheckout(a.ID, 1, "https://app.example.com/done")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 76.00 || result.SessionID != "cs_123" {
		t.Errorf("unexpected checkout result: %+v", result)
	}
	p := payments.Payments[result.PaymentID]
	if p == nil || p.Status != "pending" || p.GatewaySessionID != "cs_123" {
		t.Errorf("unexpected payment row: %+v", p)
	}
	if got := repo.Announcements[a.ID].PaymentStatus; got != model.PaymentPending {
		t.Errorf("expected payment status pending, got %s", got)
	}
}

func TestCreateCheckoutRequiresSelection(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusPendingApproval, model.PaymentUnpaid)

	if _, err := svc.CreateCheckout(a.ID, 1, ""); err == nil {
		t.Errorf("expected checkout rejected without selected communities")
	}
}

// ====================== Confirmation ======================

func confirmFixture(t *testing.T) (*service.AnnouncementService, *MockAnnouncementRepo, *MockPaymentRepo, *MockQueue, int) {
	t.Helper()
	svc, repo, _, payments, q := newTestService()
	a := seedAnnouncement(repo, model.StatusPendingApproval, model.PaymentUnpaid)
	if _, err := svc.SelectCommunities(a.ID, []int{1, 2}); err != nil {
		t.Fatalf("selection failed: %v", err)
	}
	if _, err := svc.CreateCheckout(a.ID, 1, ""); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return svc, repo, payments, q, a.ID
}

func TestConfirmPaymentSettlesAndEnqueuesDispatch(t *testing.T) {
	svc, _, payments, q, announcementID := confirmFixture(t)
	svc.Gateway = &MockGateway{Verify: &payment.VerifyResult{Status: "paid", TxHash: "0xabc"}}

	if err := svc.ConfirmPayment("cs_123", "", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, _ := payments.GetBySessionID("cs_123")
	if p.Status != "paid" || p.TxHash != "0xabc" {
		t.Errorf("unexpected payment after confirm: %+v", p)
	}
	if len(payments.Confirmed) != 2 {
		t.Fatalf("expected 2 earnings rows, got %d", len(payments.Confirmed))
	}
	for _, e := range payments.Confirmed {
		if e.Amount != 37.50 {
			t.Errorf("expected even 37.50 share, got %v", e.Amount)
		}
	}
	if len(q.Published) != 1 || q.Published[0] != announcementID {
		t.Errorf("expected dispatch enqueued for announcement %d, got %v", announcementID, q.Published)
	}
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	svc, _, payments, q, _ := confirmFixture(t)
	svc.Gateway = &MockGateway{Verify: &payment.VerifyResult{Status: "paid"}}

	if err := svc.ConfirmPayment("cs_123", "", false); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	if err := svc.ConfirmPayment("cs_123", "", false); err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}

	if payments.ConfirmCalls != 1 {
		t.Errorf("expected one settlement, got %d", payments.ConfirmCalls)
	}
	if len(payments.Confirmed) != 2 {
		t.Errorf("earnings duplicated on repeat confirm: %d rows", len(payments.Confirmed))
	}
	if len(q.Published) != 1 {
		t.Errorf("dispatch enqueued twice: %v", q.Published)
	}
}

func TestConfirmPaymentDemoSkipsGateway(t *testing.T) {
	svc, _, payments, _, _ := confirmFixture(t)
	gateway := &MockGateway{}
	svc.Gateway = gateway

	if err := svc.ConfirmPayment("cs_123", "0xdemo", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gateway.VerifyCalls != 0 {
		t.Errorf("demo confirmation must not hit the gateway")
	}
	p, _ := payments.GetBySessionID("cs_123")
	if p.TxHash != "0xdemo" {
		t.Errorf("expected provided tx hash recorded, got %q", p.TxHash)
	}
}

func TestConfirmPaymentRejectsUnpaidGatewayStatus(t *testing.T) {
	svc, _, payments, _, _ := confirmFixture(t)
	svc.Gateway = &MockGateway{Verify: &payment.VerifyResult{Status: "expired"}}

	if err := svc.ConfirmPayment("cs_123", "", false); err == nil {
		t.Errorf("expected rejection when gateway reports unpaid")
	}
	if payments.ConfirmCalls != 0 {
		t.Errorf("settlement must not run for unpaid session")
	}
}

func TestConfirmPaymentUnknownSession(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	err := svc.ConfirmPayment("cs_missing", "", true)

	var notFound *appErrors.ErrPaymentNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected payment-not-found, got %v", err)
	}
}

// ====================== Moderation ======================

func TestApproveAnnouncementWaivesUnpaid(t *testing.T) {
	svc, repo, _, _, q := newTestService()
	a := seedAnnouncement(repo, model.StatusPendingApproval, model.PaymentUnpaid)

	if err := svc.ApproveAnnouncement(a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.Announcements[a.ID]
	if stored.Status != model.StatusPublished {
		t.Errorf("expected published, got %s", stored.Status)
	}
	if stored.PaymentStatus != model.PaymentWaived {
		t.Errorf("expected payment waived, got %s", stored.PaymentStatus)
	}
	if len(q.Published) != 1 {
		t.Errorf("expected dispatch enqueued, got %v", q.Published)
	}
}

func TestApproveAnnouncementKeepsPaidStatus(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusPendingApproval, model.PaymentPaid)

	if err := svc.ApproveAnnouncement(a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.Announcements[a.ID].PaymentStatus; got != model.PaymentPaid {
		t.Errorf("paid announcement must stay paid, got %s", got)
	}
}

func TestApproveAnnouncementGuardsDraft(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusDraft, model.PaymentUnpaid)

	err := svc.ApproveAnnouncement(a.ID)

	var transitionErr *appErrors.ErrInvalidTransition
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}

func TestRejectAnnouncementTerminal(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusPendingApproval, model.PaymentUnpaid)

	if err := svc.RejectAnnouncement(a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.Announcements[a.ID].Status; got != model.StatusRejected {
		t.Errorf("expected rejected, got %s", got)
	}

	// Rejected is terminal
	if err := svc.ApproveAnnouncement(a.ID); err == nil {
		t.Errorf("expected approval of rejected announcement to fail")
	}
}

// ====================== Distribution & tracking ======================

func TestDispatchNowRequiresPublished(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusPendingApproval, model.PaymentUnpaid)

	if _, err := svc.DispatchNow(a.ID); err == nil {
		t.Errorf("expected dispatch rejected before publication")
	}
}

func TestDispatchNowRunsDispatcher(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	dispatcher := &MockDispatcher{Summary: &dispatch.Summary{Sent: 2}}
	svc.Dispatcher = dispatcher
	a := seedAnnouncement(repo, model.StatusPendingApproval, model.PaymentUnpaid)
	if _, err := svc.SelectCommunities(a.ID, []int{1, 2}); err != nil {
		t.Fatalf("selection failed: %v", err)
	}
	repo.Announcements[a.ID].Status = model.StatusPublished

	summary, err := svc.DispatchNow(a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dispatcher.Calls != 1 || summary.Sent != 2 {
		t.Errorf("unexpected dispatch outcome: calls=%d summary=%+v", dispatcher.Calls, summary)
	}
}

func TestTrackEventRequiresLink(t *testing.T) {
	svc, repo, links, _, _ := newTestService()
	a := seedAnnouncement(repo, model.StatusPublished, model.PaymentPaid)

	if err := svc.TrackEvent(a.ID, 1, "view"); err == nil {
		t.Errorf("expected error for unlinked community")
	}

	link, _ := links.CreateLink(a.ID, 1)
	if err := svc.TrackEvent(a.ID, 1, "click"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links.Events) != 1 || links.Events[0] != fmt.Sprintf("%d:click", link.ID) {
		t.Errorf("unexpected tracked events: %v", links.Events)
	}
}
