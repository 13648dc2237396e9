// internal/handler/profile_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chaincast/chaincast-backend/internal/repository"
)

type ProfileHandler struct {
	ProfileRepo repository.ProfileRepositoryInterface
}

// UpdateWallet persists the address reported by the wallet connector onto the
// user's profile.
func (h *ProfileHandler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid profile id", http.StatusBadRequest)
		return
	}

	var payload struct {
		WalletAddress string `json:"wallet_address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.ProfileRepo.UpdateWallet(id, payload.WalletAddress); err != nil {
		http.Error(w, "failed to update wallet: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"wallet_address": payload.WalletAddress})
}
