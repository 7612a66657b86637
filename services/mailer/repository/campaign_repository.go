package repository

import (
	"errors"
	"fmt"

	"novamailer/services/mailer/apperrors"
	"novamailer/services/mailer/models"
	"novamailer/shared/database"

	"gorm.io/gorm"
)

// CampaignRepository defines the interface for campaign data operations
type CampaignRepository interface {
	Create(campaign *models.Campaign) error
	// GetForUser retrieves a campaign scoped to its owner. Campaigns of
	// other users are indistinguishable from missing ones.
	GetForUser(id, userID uint) (*models.Campaign, error)
	GetAllForUser(userID uint, limit, offset int) ([]*models.Campaign, error)
	Update(campaign *models.Campaign) error
	CountForUser(userID uint) (int64, error)
	CountByStatusForUser(userID uint) (map[string]int64, error)
	RecentForUser(userID uint, limit int) ([]*models.Campaign, error)
	IDsForUser(userID uint) ([]uint, error)
}

// RecipientRepository defines the interface for recipient data operations
type RecipientRepository interface {
	CreateBatch(recipients []*models.Recipient) error
	// PendingForCampaign returns pending recipients in a stable order.
	PendingForCampaign(campaignID uint) ([]*models.Recipient, error)
	Update(recipient *models.Recipient) error
	ListForCampaign(campaignID uint, limit int) ([]*models.Recipient, error)
	StatsForCampaign(campaignID uint) (*models.CampaignStats, error)
	StatsForCampaigns(campaignIDs []uint) (*models.CampaignStats, error)
}

// AttachmentRepository defines the interface for attachment data operations
type AttachmentRepository interface {
	Create(attachment *models.Attachment) error
	ListForCampaign(campaignID uint) ([]*models.Attachment, error)
	GetForCampaign(id, campaignID uint) (*models.Attachment, error)
	Delete(id uint) error
}

type campaignRepository struct {
	db *database.DB
}

type recipientRepository struct {
	db *database.DB
}

type attachmentRepository struct {
	db *database.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *database.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

// NewRecipientRepository creates a new recipient repository
func NewRecipientRepository(db *database.DB) RecipientRepository {
	return &recipientRepository{db: db}
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *database.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

// Campaign repository methods

func (r *campaignRepository) Create(campaign *models.Campaign) error {
	if err := r.db.Create(campaign).Error; err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (r *campaignRepository) GetForUser(id, userID uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("campaign %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &campaign, nil
}

func (r *campaignRepository) GetAllForUser(userID uint, limit, offset int) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := r.db.Where("user_id = ?", userID).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&campaigns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get campaigns: %w", err)
	}
	return campaigns, nil
}

func (r *campaignRepository) Update(campaign *models.Campaign) error {
	result := r.db.Save(campaign)
	if result.Error != nil {
		return fmt.Errorf("failed to update campaign: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("campaign %d: %w", campaign.ID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *campaignRepository) CountForUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Campaign{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}
	return count, nil
}

func (r *campaignRepository) CountByStatusForUser(userID uint) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := r.db.Model(&models.Campaign{}).
		Select("status, COUNT(id) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count campaigns by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *campaignRepository) RecentForUser(userID uint, limit int) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&campaigns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent campaigns: %w", err)
	}
	return campaigns, nil
}

func (r *campaignRepository) IDsForUser(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Campaign{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign IDs: %w", err)
	}
	return ids, nil
}

// Recipient repository methods

func (r *recipientRepository) CreateBatch(recipients []*models.Recipient) error {
	if len(recipients) == 0 {
		return nil
	}
	if err := r.db.Create(&recipients).Error; err != nil {
		return fmt.Errorf("failed to create recipients: %w", err)
	}
	return nil
}

func (r *recipientRepository) PendingForCampaign(campaignID uint) ([]*models.Recipient, error) {
	var recipients []*models.Recipient
	err := r.db.Where("campaign_id = ? AND status = ?", campaignID, models.RecipientStatusPending).
		Order("id ASC").
		Find(&recipients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending recipients: %w", err)
	}
	return recipients, nil
}

func (r *recipientRepository) Update(recipient *models.Recipient) error {
	result := r.db.Save(recipient)
	if result.Error != nil {
		return fmt.Errorf("failed to update recipient: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("recipient %d: %w", recipient.ID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *recipientRepository) ListForCampaign(campaignID uint, limit int) ([]*models.Recipient, error) {
	var recipients []*models.Recipient
	err := r.db.Where("campaign_id = ?", campaignID).
		Order("id ASC").
		Limit(limit).
		Find(&recipients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	return recipients, nil
}

func (r *recipientRepository) StatsForCampaign(campaignID uint) (*models.CampaignStats, error) {
	return r.stats("campaign_id = ?", campaignID)
}

func (r *recipientRepository) StatsForCampaigns(campaignIDs []uint) (*models.CampaignStats, error) {
	if len(campaignIDs) == 0 {
		return &models.CampaignStats{}, nil
	}
	return r.stats("campaign_id IN ?", campaignIDs)
}

func (r *recipientRepository) stats(condition string, args ...interface{}) (*models.CampaignStats, error) {
	var stats models.CampaignStats
	err := r.db.Model(&models.Recipient{}).
		Select(
			"COUNT(id) AS total, "+
				"COALESCE(SUM(CASE WHEN status = 'sent' THEN 1 ELSE 0 END), 0) AS sent, "+
				"COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending, "+
				"COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) AS failed").
		Where(condition, args...).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient stats: %w", err)
	}
	return &stats, nil
}

// Attachment repository methods

func (r *attachmentRepository) Create(attachment *models.Attachment) error {
	if err := r.db.Create(attachment).Error; err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return nil
}

func (r *attachmentRepository) ListForCampaign(campaignID uint) ([]*models.Attachment, error) {
	var attachments []*models.Attachment
	err := r.db.Where("campaign_id = ?", campaignID).Order("id ASC").Find(&attachments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

func (r *attachmentRepository) GetForCampaign(id, campaignID uint) (*models.Attachment, error) {
	var attachment models.Attachment
	err := r.db.Where("id = ? AND campaign_id = ?", id, campaignID).First(&attachment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attachment %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return &attachment, nil
}

func (r *attachmentRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Attachment{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete attachment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("attachment %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
