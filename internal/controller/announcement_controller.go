// internal/controller/announcement_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chaincast/chaincast-backend/internal/service"
	"github.com/chaincast/chaincast-backend/internal/validator"
)

type AnnouncementController struct {
	AnnouncementService *service.AnnouncementService
}

func (c *AnnouncementController) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OwnerID   int      `json:"owner_id"`
		Title     string   `json:"title"`
		Content   string   `json:"content"`
		CTAText   string   `json:"cta_text"`
		CTAURL    string   `json:"cta_url"`
		MediaURLs []string `json:"media_urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Title == "" || body.Content == "" {
		http.Error(w, "title and content are required", http.StatusBadRequest)
		return
	}

	announcement, err := c.AnnouncementService.CreateAnnouncement(
		body.OwnerID, body.Title, body.Content, body.CTAText, body.CTAURL, body.MediaURLs,
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(announcement)
}

func (c *AnnouncementController) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var body struct {
		Title     string   `json:"title"`
		Content   string   `json:"content"`
		CTAText   string   `json:"cta_text"`
		CTAURL    string   `json:"cta_url"`
		MediaURLs []string `json:"media_urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	announcement, err := c.AnnouncementService.UpdateAnnouncement(
		id, body.Title, body.Content, body.CTAText, body.CTAURL, body.MediaURLs,
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(announcement)
}

func (c *AnnouncementController) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")
	ownerID, _ := strconv.Atoi(r.URL.Query().Get("owner_id"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	announcements, pagination, err := c.AnnouncementService.ListAnnouncements(page, pageSize, status, ownerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":       announcements,
		"pagination": pagination,
	})
}

func (c *AnnouncementController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	details, err := c.AnnouncementService.GetAnnouncementDetails(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(details)
}

func (c *AnnouncementController) ValidateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	verdict, err := c.AnnouncementService.ValidateAnnouncement(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"verdict":     verdict,
		"suggestions": validator.SuggestionsFrom(verdict),
	})
}

func (c *AnnouncementController) EnhanceAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	result, err := c.AnnouncementService.EnhanceAnnouncement(id)
	if err != nil {
		// No fallback exists for a failed rewrite
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (c *AnnouncementController) SelectCommunities(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var body struct {
		CommunityIDs []int `json:"community_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	total, err := c.AnnouncementService.SelectCommunities(id, body.CommunityIDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"announcement_id": id,
		"community_ids":   body.CommunityIDs,
		"total":           total,
	})
}

func (c *AnnouncementController) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var body struct {
		UserID     int    `json:"user_id"`
		SuccessURL string `json:"success_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	result, err := c.AnnouncementService.CreateCheckout(id, body.UserID, body.SuccessURL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (c *AnnouncementController) DispatchAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	summary, err := c.AnnouncementService.DispatchNow(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(summary)
}

func (c *AnnouncementController) TrackEvent(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var body struct {
		CommunityID int    `json:"community_id"`
		Event       string `json:"event"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := c.AnnouncementService.TrackEvent(id, body.CommunityID, body.Event); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
