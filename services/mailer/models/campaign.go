package models

import (
	"time"

	"novamailer/shared/models"
)

// CampaignStatus represents the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusSending   CampaignStatus = "sending"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusFailed    CampaignStatus = "failed"
)

// RecipientStatus represents the delivery state of a single recipient
type RecipientStatus string

const (
	RecipientStatusPending RecipientStatus = "pending"
	RecipientStatusSent    RecipientStatus = "sent"
	RecipientStatusFailed  RecipientStatus = "failed"
)

// MaxAttachmentSize is the upload cap for a single attachment (25 MiB,
// the common provider limit).
const MaxAttachmentSize = 25 << 20

// RecipientData is the open, string-keyed mapping imported from a CSV row.
// Values are whatever the CSV carried; the renderer treats them as opaque
// scalars.
type RecipientData map[string]interface{}

// Campaign represents a named bulk-email job
type Campaign struct {
	models.BaseModel
	Name    string         `gorm:"not null;size:255" json:"name"`
	Subject string         `gorm:"not null;size:500" json:"subject"`
	Body    string         `gorm:"type:text;not null" json:"body"`
	Status  CampaignStatus `gorm:"not null;default:'draft';size:20;index" json:"status"`
	UserID  uint           `gorm:"not null;index" json:"user_id"`
}

// Recipient represents one target address plus its personalization data
type Recipient struct {
	models.BaseModel
	Email      string          `gorm:"not null;size:320" json:"email"`
	Data       RecipientData   `gorm:"serializer:json" json:"data"`
	Status     RecipientStatus `gorm:"not null;default:'pending';size:20;index" json:"status"`
	CampaignID uint            `gorm:"not null;index" json:"campaign_id"`
}

// Attachment represents a binary file attached to every message of a campaign
type Attachment struct {
	models.BaseModel
	Filename    string `gorm:"not null;size:255" json:"filename"`
	ContentType string `gorm:"not null;size:100" json:"content_type"`
	FileData    []byte `json:"-"`
	FileSize    int64  `gorm:"not null" json:"file_size"`
	CampaignID  uint   `gorm:"not null;index" json:"campaign_id"`
}

// CampaignCreateRequest represents campaign creation payload
type CampaignCreateRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Subject string `json:"subject" binding:"required,min=1,max=500"`
	Body    string `json:"body" binding:"required"`
}

// CampaignStats aggregates recipient delivery counts
type CampaignStats struct {
	Total   int64 `json:"total_recipients"`
	Sent    int64 `json:"sent"`
	Pending int64 `json:"pending"`
	Failed  int64 `json:"failed"`
}

// CampaignDetails combines a campaign with its recipient stats and a
// bounded recipient listing
type CampaignDetails struct {
	Campaign   *Campaign     `json:"campaign"`
	Stats      CampaignStats `json:"stats"`
	Recipients []*Recipient  `json:"recipients"`
}

// PreviewResult is the rendered subject/body for sample data
type PreviewResult struct {
	Subject    string        `json:"subject"`
	Body       string        `json:"body"`
	SampleData RecipientData `json:"sample_data"`
}

// SendResult aggregates the outcome of one send pass
type SendResult struct {
	Sent        int `json:"sent"`
	Failed      int `json:"failed"`
	Total       int `json:"total"`
	Attachments int `json:"attachments"`
}

// DashboardStats is the per-owner overview returned by the stats endpoint
type DashboardStats struct {
	TotalCampaigns    int64              `json:"total_campaigns"`
	CampaignsByStatus map[string]int64   `json:"campaigns_by_status"`
	TotalEmails       int64              `json:"total_emails"`
	SentEmails        int64              `json:"sent_emails"`
	FailedEmails      int64              `json:"failed_emails"`
	PendingEmails     int64              `json:"pending_emails"`
	SuccessRate       float64            `json:"success_rate"`
	RecentCampaigns   []RecentCampaign   `json:"recent_campaigns"`
}

// RecentCampaign is a compact campaign listing entry for the dashboard
type RecentCampaign struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Status    CampaignStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

func (Recipient) TableName() string {
	return "recipients"
}

func (Attachment) TableName() string {
	return "attachments"
}
