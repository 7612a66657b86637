package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"novamailer/services/mailer/models"
	"novamailer/services/mailer/repository"
	"novamailer/shared/logger"
	"novamailer/shared/redis"
)

// dashboardCacheTTL keeps the dashboard snappy without stale numbers
// lingering for long
const dashboardCacheTTL = 30 * time.Second

// StatsUsecase defines the dashboard aggregates
type StatsUsecase interface {
	Dashboard(userID uint) (*models.DashboardStats, error)
}

type statsUsecase struct {
	campaignRepo  repository.CampaignRepository
	recipientRepo repository.RecipientRepository
	cache         *redis.Client // nil disables caching
}

// NewStatsUsecase creates a new stats usecase. The redis client may be nil.
func NewStatsUsecase(campaignRepo repository.CampaignRepository, recipientRepo repository.RecipientRepository, cache *redis.Client) StatsUsecase {
	return &statsUsecase{
		campaignRepo:  campaignRepo,
		recipientRepo: recipientRepo,
		cache:         cache,
	}
}

// Dashboard aggregates campaign and recipient counts for the owner
func (u *statsUsecase) Dashboard(userID uint) (*models.DashboardStats, error) {
	cacheKey := fmt.Sprintf("dashboard:%d", userID)

	if u.cache != nil {
		if cached, err := u.cache.Get(cacheKey); err == nil && cached != "" {
			var stats models.DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	totalCampaigns, err := u.campaignRepo.CountForUser(userID)
	if err != nil {
		return nil, err
	}

	byStatus, err := u.campaignRepo.CountByStatusForUser(userID)
	if err != nil {
		return nil, err
	}

	campaignIDs, err := u.campaignRepo.IDsForUser(userID)
	if err != nil {
		return nil, err
	}

	recipientStats, err := u.recipientRepo.StatsForCampaigns(campaignIDs)
	if err != nil {
		return nil, err
	}

	recent, err := u.campaignRepo.RecentForUser(userID, 5)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalCampaigns:    totalCampaigns,
		CampaignsByStatus: byStatus,
		TotalEmails:       recipientStats.Total,
		SentEmails:        recipientStats.Sent,
		FailedEmails:      recipientStats.Failed,
		PendingEmails:     recipientStats.Pending,
		SuccessRate:       successRate(recipientStats.Sent, recipientStats.Total),
		RecentCampaigns:   make([]models.RecentCampaign, 0, len(recent)),
	}
	for _, campaign := range recent {
		stats.RecentCampaigns = append(stats.RecentCampaigns, models.RecentCampaign{
			ID:        campaign.ID,
			Name:      campaign.Name,
			Status:    campaign.Status,
			CreatedAt: campaign.CreatedAt,
		})
	}

	if u.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := u.cache.Set(cacheKey, payload, dashboardCacheTTL); err != nil {
				logger.WithError(err).Warn("Failed to cache dashboard stats")
			}
		}
	}

	return stats, nil
}

// successRate is the percentage of sent over total, rounded to two decimals
func successRate(sent, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(sent)/float64(total)*10000) / 100
}
