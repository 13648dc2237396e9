// internal/controller/payment_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/chaincast/chaincast-backend/internal/service"
)

type PaymentController struct {
	AnnouncementService *service.AnnouncementService
}

// ConfirmPayment is the gateway success callback; with demo=true it settles
// without gateway verification (manual demo mode).
func (c *PaymentController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"session_id"`
		TxHash    string `json:"tx_hash"`
		Demo      bool   `json:"demo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	if err := c.AnnouncementService.ConfirmPayment(body.SessionID, body.TxHash, body.Demo); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "confirmed"})
}
