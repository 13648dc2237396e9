// internal/scheduler/reconciler.go
package scheduler

import (
	"log"
	"time"

	"github.com/chaincast/chaincast-backend/internal/payment"
	"github.com/chaincast/chaincast-backend/internal/repository"
)

// PaymentConfirmer is the settlement entry point on the announcement service.
type PaymentConfirmer interface {
	ConfirmPayment(sessionID, txHash string, demo bool) error
}

// Reconciler sweeps pending payments whose gateway callback never arrived and
// settles the ones the gateway reports as paid.
type Reconciler struct {
	PaymentRepo repository.PaymentRepositoryInterface
	Gateway     payment.Gateway
	Confirmer   PaymentConfirmer
	MinAge      time.Duration
}

func (r *Reconciler) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Println("Payment reconciler started...")

	for range ticker.C {
		r.sweep()
	}
}

func (r *Reconciler) sweep() {
	minAge := r.MinAge
	if minAge == 0 {
		minAge = 10 * time.Minute
	}

	pending, err := r.PaymentRepo.ListPendingOlderThan(minAge)
	if err != nil {
		log.Println("⚠️ failed to list pending payments:", err)
		return
	}

	for _, p := range pending {
		result, err := r.Gateway.VerifyPayment(p.GatewaySessionID)
		if err != nil {
			log.Println("⚠️ failed to verify payment session", p.GatewaySessionID, ":", err)
			continue
		}

		switch result.Status {
		case "paid":
			log.Println("💰 Reconciling paid session:", p.GatewaySessionID)
			if err := r.Confirmer.ConfirmPayment(p.GatewaySessionID, result.TxHash, false); err != nil {
				log.Println("⚠️ failed to confirm reconciled payment:", err)
			}
		case "failed":
			if err := r.PaymentRepo.MarkFailed(p.ID, "gateway reported failure"); err != nil {
				log.Println("⚠️ failed to mark payment failed:", err)
			}
		}
	}
}
