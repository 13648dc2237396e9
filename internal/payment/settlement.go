// internal/payment/settlement.go
package payment

import "github.com/chaincast/chaincast-backend/internal/model"

// ComputeTotal is the checkout amount: sum of the selected communities'
// prices plus the platform fee. An empty selection costs just the fee.
func ComputeTotal(communities []*model.Community, platformFee float64) float64 {
	total := platformFee
	for _, c := range communities {
		total += c.Price
	}
	return total
}

// SplitEarnings divides the community portion of a payment (total minus the
// platform fee) evenly across the linked communities.
func SplitEarnings(p *model.Payment, communityIDs []int, platformFee float64) []model.CommunityEarning {
	if len(communityIDs) == 0 {
		return nil
	}
	share := (p.Amount - platformFee) / float64(len(communityIDs))
	earnings := make([]model.CommunityEarning, 0, len(communityIDs))
	for _, id := range communityIDs {
		earnings = append(earnings, model.CommunityEarning{
			CommunityID: id,
			PaymentID:   p.ID,
			Amount:      share,
			Currency:    p.Currency,
		})
	}
	return earnings
}
