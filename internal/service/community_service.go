// internal/service/community_service.go
package service

import (
	"github.com/chaincast/chaincast-backend/internal/botcheck"
	"github.com/chaincast/chaincast-backend/internal/model"
	"github.com/chaincast/chaincast-backend/internal/repository"
)

// BotChecker probes whether the distribution bot can reach a community.
type BotChecker interface {
	CheckStatus(c *model.Community) (*botcheck.Status, error)
}

type CommunityService struct {
	CommunityRepo repository.CommunityRepositoryInterface
	PaymentRepo   repository.PaymentRepositoryInterface
	Checker       BotChecker
}

func (s *CommunityService) CreateCommunity(c *model.Community) (*model.Community, error) {
	c.ApprovalStatus = model.ApprovalPending
	if err := s.CommunityRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCommunities fetches communities with pagination
func (s *CommunityService) ListCommunities(page, pageSize int, platform, approvalStatus string) ([]model.Community, map[string]int, error) {
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

	ptrs, total, err := s.CommunityRepo.ListCommunities(offset, pageSize, platform, approvalStatus)
	if err != nil {
		return nil, nil, err
	}

	communities := make([]model.Community, len(ptrs))
	for i, c := range ptrs {
		communities[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return communities, pagination, nil
}

func (s *CommunityService) GetCommunity(id int) (*model.Community, error) {
	return s.CommunityRepo.GetByID(id)
}

func (s *CommunityService) UpdateCommunity(c *model.Community) error {
	return s.CommunityRepo.Update(c)
}

func (s *CommunityService) SetApproval(id int, approvalStatus string) error {
	if _, err := s.CommunityRepo.GetByID(id); err != nil {
		return err
	}
	return s.CommunityRepo.UpdateApproval(id, approvalStatus)
}

// CheckBotStatus runs the reachability probe against the community's chat.
func (s *CommunityService) CheckBotStatus(id int) (*botcheck.Status, error) {
	c, err := s.CommunityRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.Checker.CheckStatus(c)
}

func (s *CommunityService) ListEarnings(communityID int) ([]model.CommunityEarning, error) {
	if _, err := s.CommunityRepo.GetByID(communityID); err != nil {
		return nil, err
	}
	return s.PaymentRepo.ListEarningsByCommunity(communityID)
}
