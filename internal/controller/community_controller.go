// internal/controller/community_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chaincast/chaincast-backend/internal/model"
	"github.com/chaincast/chaincast-backend/internal/service"
)

type CommunityController struct {
	CommunityService *service.CommunityService
}

func (c *CommunityController) CreateCommunity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name          string   `json:"name"`
		Platform      string   `json:"platform"`
		ChatID        string   `json:"chat_id"`
		Price         float64  `json:"price"`
		OwnerID       int      `json:"owner_id"`
		WalletAddress string   `json:"wallet_address"`
		Regions       []string `json:"regions"`
		FocusAreas    []string `json:"focus_areas"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Name == "" || body.Platform == "" {
		http.Error(w, "name and platform are required", http.StatusBadRequest)
		return
	}

	community, err := c.CommunityService.CreateCommunity(&model.Community{
		Name:          body.Name,
		Platform:      body.Platform,
		ChatID:        body.ChatID,
		Price:         body.Price,
		OwnerID:       body.OwnerID,
		WalletAddress: body.WalletAddress,
		Regions:       body.Regions,
		FocusAreas:    body.FocusAreas,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(community)
}

func (c *CommunityController) ListCommunities(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	platform := r.URL.Query().Get("platform")
	approvalStatus := r.URL.Query().Get("approval_status")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	communities, pagination, err := c.CommunityService.ListCommunities(page, pageSize, platform, approvalStatus)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":       communities,
		"pagination": pagination,
	})
}

func (c *CommunityController) GetCommunity(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	community, err := c.CommunityService.GetCommunity(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(community)
}

func (c *CommunityController) UpdateCommunity(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	community, err := c.CommunityService.GetCommunity(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var body struct {
		Name          string   `json:"name"`
		Platform      string   `json:"platform"`
		ChatID        string   `json:"chat_id"`
		Price         float64  `json:"price"`
		WalletAddress string   `json:"wallet_address"`
		Regions       []string `json:"regions"`
		FocusAreas    []string `json:"focus_areas"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	community.Name = body.Name
	community.Platform = body.Platform
	community.ChatID = body.ChatID
	community.Price = body.Price
	community.WalletAddress = body.WalletAddress
	community.Regions = body.Regions
	community.FocusAreas = body.FocusAreas

	if err := c.CommunityService.UpdateCommunity(community); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(community)
}

func (c *CommunityController) CheckBotStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	status, err := c.CommunityService.CheckBotStatus(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(status)
}

func (c *CommunityController) ListEarnings(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	earnings, err := c.CommunityService.ListEarnings(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"community_id": id,
		"earnings":     earnings,
	})
}
