// internal/service/announcement_service.go
package service

import (
	"context"
	"fmt"
	"log"

	"github.com/chaincast/chaincast-backend/internal/dispatch"
	appErrors "github.com/chaincast/chaincast-backend/internal/errors"
	"github.com/chaincast/chaincast-backend/internal/model"
	"github.com/chaincast/chaincast-backend/internal/payment"
	"github.com/chaincast/chaincast-backend/internal/queue"
	"github.com/chaincast/chaincast-backend/internal/repository"
	"github.com/chaincast/chaincast-backend/internal/session"
	"github.com/chaincast/chaincast-backend/internal/validator"
)

// ContentValidator is the validation/enhancement pipeline.
type ContentValidator interface {
	Validate(title, content string) *model.Verdict
	Enhance(title, content string) (*validator.EnhanceResult, error)
}

// AnnouncementDispatcher delivers a published announcement to its communities.
type AnnouncementDispatcher interface {
	Dispatch(a *model.Announcement, communities []*model.Community) *dispatch.Summary
}

type AnnouncementService struct {
	AnnouncementRepo repository.AnnouncementRepositoryInterface
	CommunityRepo    repository.CommunityRepositoryInterface
	LinkRepo         repository.LinkRepositoryInterface
	PaymentRepo      repository.PaymentRepositoryInterface
	SettingsRepo     repository.SettingsRepositoryInterface
	Validator        ContentValidator
	Gateway          payment.Gateway
	Sessions         session.Store
	Queue            queue.Queue
	Dispatcher       AnnouncementDispatcher
}

// Legal lifecycle transitions. Published and rejected are terminal.
var transitions = map[string][]string{
	model.StatusDraft:             {model.StatusPendingValidation},
	model.StatusPendingValidation: {model.StatusValidationFailed, model.StatusPendingApproval},
	model.StatusValidationFailed:  {model.StatusDraft, model.StatusPendingValidation},
	model.StatusPendingApproval:   {model.StatusPublished, model.StatusRejected},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AnnouncementDetails is an announcement plus its per-community state.
type AnnouncementDetails struct {
	Announcement *model.Announcement            `json:"announcement"`
	Links        []*model.AnnouncementCommunity `json:"communities"`
	Stats        map[string]int                 `json:"stats"`
}

// CheckoutResult is returned from checkout creation for the redirect step.
type CheckoutResult struct {
	PaymentID   int     `json:"payment_id"`
	SessionID   string  `json:"session_id"`
	RedirectURL string  `json:"redirect_url"`
	Total       float64 `json:"total"`
}

// ====================== Composition ======================

func (s *AnnouncementService) CreateAnnouncement(ownerID int, title, content, ctaText, ctaURL string, mediaURLs []string) (*model.Announcement, error) {
	a := &model.Announcement{
		OwnerID:       ownerID,
		Title:         title,
		Content:       content,
		CTAText:       ctaText,
		CTAURL:        ctaURL,
		MediaURLs:     mediaURLs,
		Status:        model.StatusDraft,
		PaymentStatus: model.PaymentUnpaid,
	}
	if err := s.AnnouncementRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAnnouncement edits title/content/CTA/media. Allowed in draft, and in
// validation_failed where it returns the announcement to draft and clears the
// stale verdict.
func (s *AnnouncementService) UpdateAnnouncement(id int, title, content, ctaText, ctaURL string, mediaURLs []string) (*model.Announcement, error) {
	a, err := s.AnnouncementRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a.Status != model.StatusDraft && a.Status != model.StatusValidationFailed {
		return nil, appErrors.NewInvalidTransition(a.Status, model.StatusDraft)
	}

	wasFailed := a.Status == model.StatusValidationFailed
	a.Title = title
	a.Content = content
	a.CTAText = ctaText
	a.CTAURL = ctaURL
	a.MediaURLs = mediaURLs
	a.Status = model.StatusDraft
	if err := s.AnnouncementRepo.Update(a); err != nil {
		return nil, err
	}
	if wasFailed {
		a.Verdict = nil
		if err := s.AnnouncementRepo.UpdateVerdict(a.ID, model.StatusDraft, nil); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// ListAnnouncements fetches announcements with pagination
func (s *AnnouncementService) ListAnnouncements(page, pageSize int, status string, ownerID int) ([]model.Announcement, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.AnnouncementRepo.ListAnnouncements(offset, pageSize, status, ownerID)
	if err != nil {
		return nil, nil, err
	}

	announcements := make([]model.Announcement, len(ptrs))
	for i, a := range ptrs {
		announcements[i] = *a
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return announcements, pagination, nil
}

func (s *AnnouncementService) GetAnnouncementDetails(id int) (*AnnouncementDetails, error) {
	a, err := s.AnnouncementRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	links, err := s.LinkRepo.ListByAnnouncement(id)
	if err != nil {
		return nil, err
	}

	stats, err := s.LinkRepo.GetDeliveryStats(id)
	if err != nil {
		return nil, err
	}
	stats["total"] = len(links)

	return &AnnouncementDetails{Announcement: a, Links: links, Stats: stats}, nil
}

// ====================== Validation ======================

// ValidateAnnouncement runs the content pipeline and settles the announcement
// into pending_approval or validation_failed.
func (s *AnnouncementService) ValidateAnnouncement(id int) (*model.Verdict, error) {
	a, err := s.AnnouncementRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !canTransition(a.Status, model.StatusPendingValidation) {
		return nil, appErrors.NewInvalidTransition(a.Status, model.StatusPendingValidation)
	}

	if err := s.AnnouncementRepo.UpdateStatus(id, model.StatusPendingValidation); err != nil {
		return nil, err
	}

	verdict := s.Validator.Validate(a.Title, a.Content)

	next := model.StatusValidationFailed
	if verdict.Valid {
		next = model.StatusPendingApproval
	}
	if err := s.AnnouncementRepo.UpdateVerdict(id, next, verdict); err != nil {
		return nil, err
	}
	return verdict, nil
}

// EnhanceAnnouncement returns an AI rewrite without changing state; the
// caller decides whether to apply it via UpdateAnnouncement.
func (s *AnnouncementService) EnhanceAnnouncement(id int) (*validator.EnhanceResult, error) {
	a, err := s.AnnouncementRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.Validator.Enhance(a.Title, a.Content)
}

// ====================== Community selection & checkout ======================

// SelectCommunities links the chosen approved communities and snapshots the
// quoted total (community prices + platform fee) for the checkout step.
func (s *AnnouncementService) SelectCommunities(announcementID int, communityIDs []int) (float64, error) {
	a, err := s.AnnouncementRepo.GetByID(announcementID)
	if err != nil {
		return 0, err
	}
	if a.Status != model.StatusPendingApproval {
		return 0, appErrors.NewInvalidTransition(a.Status, model.StatusPendingApproval)
	}
	if len(communityIDs) == 0 {
		return 0, fmt.Errorf("at least one community must be selected")
	}

	communities, err := s.CommunityRepo.ListByIDs(communityIDs)
	if err != nil {
		return 0, err
	}
	byID := map[int]*model.Community{}
	for _, c := range communities {
		byID[c.ID] = c
	}

	for _, id := range communityIDs {
		c, ok := byID[id]
		if !ok {
			return 0, appErrors.NewCommunityNotFound(id)
		}
		if c.ApprovalStatus != model.ApprovalApproved {
			return 0, appErrors.NewCommunityNotApproved(id)
		}
	}

	for _, id := range communityIDs {
		// Idempotent create (returns existing if already linked)
		if _, err := s.LinkRepo.CreateLink(announcementID, id); err != nil {
			return 0, err
		}
	}

	settings, err := s.SettingsRepo.Get()
	if err != nil {
		return 0, err
	}
	total := payment.ComputeTotal(communities, settings.PlatformFee)

	if s.Sessions != nil {
		err := s.Sessions.Set(context.Background(), session.CheckoutSession{
			AnnouncementID: announcementID,
			CommunityIDs:   communityIDs,
			PlatformFee:    settings.PlatformFee,
			Total:          total,
		})
		if err != nil {
			log.Println("⚠️ failed to store checkout session:", err)
		}
	}

	return total, nil
}

// CreateCheckout creates the pending payment row and the gateway checkout
// session, and returns the redirect URL.
func (s *AnnouncementService) CreateCheckout(announcementID, userID int, successURL string) (*CheckoutResult, error) {
	a, err := s.AnnouncementRepo.GetByID(announcementID)
	if err != nil {
		return nil, err
	}
	if a.Status != model.StatusPendingApproval {
		return nil, appErrors.NewInvalidTransition(a.Status, model.StatusPublished)
	}

	links, err := s.LinkRepo.ListByAnnouncement(announcementID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("select at least one community before checkout")
	}

	total, _, err := s.quotedTotal(announcementID, links)
	if err != nil {
		return nil, err
	}

	p := &model.Payment{
		AnnouncementID: announcementID,
		UserID:         userID,
		Amount:         total,
		Currency:       "USD",
		Status:         "pending",
	}
	if err := s.PaymentRepo.Create(p); err != nil {
		return nil, err
	}

	checkout, err := s.Gateway.CreateCheckoutSession(total, p.Currency, a.Title, successURL)
	if err != nil {
		return nil, err
	}
	if err := s.PaymentRepo.UpdateSessionID(p.ID, checkout.ID); err != nil {
		return nil, err
	}

	if err := s.AnnouncementRepo.UpdatePaymentStatus(announcementID, model.PaymentPending); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		PaymentID:   p.ID,
		SessionID:   checkout.ID,
		RedirectURL: checkout.URL,
		Total:       total,
	}, nil
}

// quotedTotal resolves the total and fee: from the checkout session snapshot
// when one is alive, otherwise recomputed against current settings.
func (s *AnnouncementService) quotedTotal(announcementID int, links []*model.AnnouncementCommunity) (float64, float64, error) {
	if s.Sessions != nil {
		sess, err := s.Sessions.Get(context.Background(), announcementID)
		if err != nil {
			log.Println("⚠️ failed to read checkout session:", err)
		} else if sess != nil {
			return sess.Total, sess.PlatformFee, nil
		}
	}

	ids := make([]int, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.CommunityID)
	}
	communities, err := s.CommunityRepo.ListByIDs(ids)
	if err != nil {
		return 0, 0, err
	}
	settings, err := s.SettingsRepo.Get()
	if err != nil {
		return 0, 0, err
	}
	return payment.ComputeTotal(communities, settings.PlatformFee), settings.PlatformFee, nil
}

// ====================== Payment confirmation ======================

// ConfirmPayment settles a payment reported by the gateway callback (or the
// demo path when demo is true, which skips gateway verification). The whole
// settlement runs in one transaction and is idempotent per payment.
func (s *AnnouncementService) ConfirmPayment(sessionID, txHash string, demo bool) error {
	p, err := s.PaymentRepo.GetBySessionID(sessionID)
	if err != nil {
		return err
	}
	if p.Status == "paid" {
		log.Println("ℹ️ payment already confirmed for session", sessionID)
		return nil
	}

	if !demo {
		result, err := s.Gateway.VerifyPayment(sessionID)
		if err != nil {
			return err
		}
		if result.Status != "paid" {
			return fmt.Errorf("gateway reports session %s as %s", sessionID, result.Status)
		}
		if txHash == "" {
			txHash = result.TxHash
		}
	}

	a, err := s.AnnouncementRepo.GetByID(p.AnnouncementID)
	if err != nil {
		return err
	}
	if a.Status != model.StatusPendingApproval && a.Status != model.StatusPublished {
		return appErrors.NewInvalidTransition(a.Status, model.StatusPublished)
	}

	links, err := s.LinkRepo.ListByAnnouncement(p.AnnouncementID)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return fmt.Errorf("announcement %d has no linked communities", p.AnnouncementID)
	}

	_, fee, err := s.quotedTotal(p.AnnouncementID, links)
	if err != nil {
		return err
	}

	communityIDs := make([]int, 0, len(links))
	for _, link := range links {
		communityIDs = append(communityIDs, link.CommunityID)
	}
	earnings := payment.SplitEarnings(p, communityIDs, fee)

	if err := s.PaymentRepo.Confirm(p, txHash, earnings); err != nil {
		return err
	}

	if s.Sessions != nil {
		if err := s.Sessions.Delete(context.Background(), p.AnnouncementID); err != nil {
			log.Println("⚠️ failed to drop checkout session:", err)
		}
	}

	if err := s.Queue.Publish(queue.TopicDispatch, p.AnnouncementID); err != nil {
		log.Println("⚠️ failed to enqueue dispatch for announcement", p.AnnouncementID, ":", err)
	}
	return nil
}

// ====================== Moderation ======================

// ApproveAnnouncement is the manual admin path to published, bypassing
// payment. The waiver is recorded explicitly on the payment status.
func (s *AnnouncementService) ApproveAnnouncement(id int) error {
	a, err := s.AnnouncementRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !canTransition(a.Status, model.StatusPublished) {
		return appErrors.NewInvalidTransition(a.Status, model.StatusPublished)
	}

	if a.PaymentStatus != model.PaymentPaid {
		if err := s.AnnouncementRepo.UpdatePaymentStatus(id, model.PaymentWaived); err != nil {
			return err
		}
	}
	if err := s.AnnouncementRepo.UpdateStatus(id, model.StatusPublished); err != nil {
		return err
	}

	if err := s.Queue.Publish(queue.TopicDispatch, id); err != nil {
		log.Println("⚠️ failed to enqueue dispatch for announcement", id, ":", err)
	}
	return nil
}

func (s *AnnouncementService) RejectAnnouncement(id int) error {
	a, err := s.AnnouncementRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !canTransition(a.Status, model.StatusRejected) {
		return appErrors.NewInvalidTransition(a.Status, model.StatusRejected)
	}
	return s.AnnouncementRepo.UpdateStatus(id, model.StatusRejected)
}

// ====================== Distribution ======================

// DispatchNow runs the dispatcher for a published announcement and returns
// the per-community outcome. Partial failures are reported, not retried;
// an admin re-triggers dispatch explicitly.
func (s *AnnouncementService) DispatchNow(id int) (*dispatch.Summary, error) {
	a, err := s.AnnouncementRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a.Status != model.StatusPublished {
		return nil, fmt.Errorf("announcement cannot be dispatched in status: %s", a.Status)
	}

	links, err := s.LinkRepo.ListByAnnouncement(id)
	if err != nil {
		return nil, err
	}
	communityIDs := make([]int, 0, len(links))
	for _, link := range links {
		communityIDs = append(communityIDs, link.CommunityID)
	}
	communities, err := s.CommunityRepo.ListByIDs(communityIDs)
	if err != nil {
		return nil, err
	}

	return s.Dispatcher.Dispatch(a, communities), nil
}

// DispatchAnnouncement is the queue-facing entry point.
func (s *AnnouncementService) DispatchAnnouncement(id int) error {
	summary, err := s.DispatchNow(id)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		log.Printf("⚠️ announcement %d: %d of %d sends failed\n", id, summary.Failed, summary.Sent+summary.Failed)
	}
	return nil
}

// ====================== Tracking ======================

// TrackEvent bumps the view or click counter on one announcement-community
// link.
func (s *AnnouncementService) TrackEvent(announcementID, communityID int, event string) error {
	link, err := s.LinkRepo.GetLink(announcementID, communityID)
	if err != nil {
		return err
	}
	if link == nil {
		return fmt.Errorf("announcement %d is not linked to community %d", announcementID, communityID)
	}
	return s.LinkRepo.TrackEvent(link.ID, event)
}

var _ queue.DispatchService = (*AnnouncementService)(nil)
