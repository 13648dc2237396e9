// internal/handler/admin_handler.go
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chaincast/chaincast-backend/internal/model"
	"github.com/chaincast/chaincast-backend/internal/repository"
	"github.com/chaincast/chaincast-backend/internal/service"
)

// AdminHandler holds the dependencies for moderation and settings endpoints
type AdminHandler struct {
	AnnouncementService *service.AnnouncementService
	CommunityService    *service.CommunityService
	SettingsRepo        repository.SettingsRepositoryInterface
}

// ApproveAnnouncement publishes without payment (promotional placements);
// the waiver shows up on the announcement's payment status.
func (h *AdminHandler) ApproveAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid announcement id", http.StatusBadRequest)
		return
	}

	log.Println("📥 Admin approving announcement ID:", id)

	if err := h.AnnouncementService.ApproveAnnouncement(id); err != nil {
		http.Error(w, "failed to approve announcement: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": model.StatusPublished})
}

func (h *AdminHandler) RejectAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid announcement id", http.StatusBadRequest)
		return
	}

	if err := h.AnnouncementService.RejectAnnouncement(id); err != nil {
		http.Error(w, "failed to reject announcement: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": model.StatusRejected})
}

func (h *AdminHandler) ApproveCommunity(w http.ResponseWriter, r *http.Request) {
	h.setCommunityApproval(w, r, model.ApprovalApproved)
}

func (h *AdminHandler) RejectCommunity(w http.ResponseWriter, r *http.Request) {
	h.setCommunityApproval(w, r, model.ApprovalRejected)
}

func (h *AdminHandler) setCommunityApproval(w http.ResponseWriter, r *http.Request, approvalStatus string) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid community id", http.StatusBadRequest)
		return
	}

	if err := h.CommunityService.SetApproval(id, approvalStatus); err != nil {
		http.Error(w, "failed to update community approval: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"approval_status": approvalStatus})
}

func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.SettingsRepo.Get()
	if err != nil {
		http.Error(w, "failed to fetch settings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PlatformFee float64 `json:"platform_fee"`
		BotToken    string  `json:"bot_token"`
		BotUsername string  `json:"bot_username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	settings := &model.PlatformSettings{
		PlatformFee: payload.PlatformFee,
		BotToken:    payload.BotToken,
		BotUsername: payload.BotUsername,
	}
	if err := h.SettingsRepo.Update(settings); err != nil {
		http.Error(w, "failed to update settings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}
