package usecase

import (
	"fmt"
	"io"

	"novamailer/services/mailer/apperrors"
	"novamailer/services/mailer/csvimport"
	"novamailer/services/mailer/email"
	"novamailer/services/mailer/models"
	"novamailer/services/mailer/render"
	"novamailer/services/mailer/repository"
	"novamailer/shared/logger"
)

// recipientListLimit bounds the recipient listing in campaign details
const recipientListLimit = 100

// CampaignUsecase defines campaign authoring and the send pipeline
type CampaignUsecase interface {
	Create(userID uint, req *models.CampaignCreateRequest) (*models.Campaign, error)
	List(userID uint, limit, offset int) ([]*models.Campaign, error)
	Get(userID, campaignID uint) (*models.Campaign, error)
	Details(userID, campaignID uint) (*models.CampaignDetails, error)
	ImportRecipients(userID, campaignID uint, csvFile io.Reader) (int, error)
	AddAttachment(userID, campaignID uint, filename, contentType string, data []byte) (*models.Attachment, error)
	ListAttachments(userID, campaignID uint) ([]*models.Attachment, error)
	DeleteAttachment(userID, campaignID, attachmentID uint) error
	Preview(userID, campaignID uint, sample models.RecipientData) (*models.PreviewResult, error)
	TestSend(userID, campaignID uint, toEmail string, sample models.RecipientData) error
	Send(userID, campaignID uint) (*models.SendResult, error)
}

type campaignUsecase struct {
	campaignRepo   repository.CampaignRepository
	recipientRepo  repository.RecipientRepository
	attachmentRepo repository.AttachmentRepository
	smtpRepo       repository.SMTPRepository
	sender         email.Sender
}

// NewCampaignUsecase creates a new campaign usecase
func NewCampaignUsecase(
	campaignRepo repository.CampaignRepository,
	recipientRepo repository.RecipientRepository,
	attachmentRepo repository.AttachmentRepository,
	smtpRepo repository.SMTPRepository,
	sender email.Sender,
) CampaignUsecase {
	return &campaignUsecase{
		campaignRepo:   campaignRepo,
		recipientRepo:  recipientRepo,
		attachmentRepo: attachmentRepo,
		smtpRepo:       smtpRepo,
		sender:         sender,
	}
}

// Create creates a draft campaign
func (u *campaignUsecase) Create(userID uint, req *models.CampaignCreateRequest) (*models.Campaign, error) {
	campaign := &models.Campaign{
		Name:    req.Name,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  models.CampaignStatusDraft,
		UserID:  userID,
	}
	if err := u.campaignRepo.Create(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// List returns the owner's campaigns, newest first
func (u *campaignUsecase) List(userID uint, limit, offset int) ([]*models.Campaign, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return u.campaignRepo.GetAllForUser(userID, limit, offset)
}

// Get returns one campaign scoped to its owner
func (u *campaignUsecase) Get(userID, campaignID uint) (*models.Campaign, error) {
	return u.campaignRepo.GetForUser(campaignID, userID)
}

// Details returns the campaign plus recipient stats and a bounded listing
func (u *campaignUsecase) Details(userID, campaignID uint) (*models.CampaignDetails, error) {
	campaign, err := u.campaignRepo.GetForUser(campaignID, userID)
	if err != nil {
		return nil, err
	}

	stats, err := u.recipientRepo.StatsForCampaign(campaign.ID)
	if err != nil {
		return nil, err
	}

	recipients, err := u.recipientRepo.ListForCampaign(campaign.ID, recipientListLimit)
	if err != nil {
		return nil, err
	}

	return &models.CampaignDetails{
		Campaign:   campaign,
		Stats:      *stats,
		Recipients: recipients,
	}, nil
}

// ImportRecipients parses a CSV upload into pending recipients. Rows
// without an email value are skipped.
func (u *campaignUsecase) ImportRecipients(userID, campaignID uint, csvFile io.Reader) (int, error) {
	campaign, err := u.campaignRepo.GetForUser(campaignID, userID)
	if err != nil {
		return 0, err
	}

	rows, err := csvimport.Parse(csvFile)
	if err != nil {
		return 0, err
	}

	recipients := make([]*models.Recipient, 0, len(rows))
	for _, row := range rows {
		addr := csvimport.EmailFromRow(row)
		if addr == "" {
			continue
		}
		recipients = append(recipients, &models.Recipient{
			Email:      addr,
			Data:       row,
			Status:     models.RecipientStatusPending,
			CampaignID: campaign.ID,
		})
	}

	if err := u.recipientRepo.CreateBatch(recipients); err != nil {
		return 0, err
	}
	return len(recipients), nil
}

// AddAttachment stores an uploaded file after enforcing the size cap.
// Exactly MaxAttachmentSize is accepted; one byte more is rejected before
// anything is persisted.
func (u *campaignUsecase) AddAttachment(userID, campaignID uint, filename, contentType string, data []byte) (*models.Attachment, error) {
	campaign, err := u.campaignRepo.GetForUser(campaignID, userID)
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > models.MaxAttachmentSize {
		return nil, apperrors.NewValidation("file too large, maximum size is 25MB")
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment := &models.Attachment{
		Filename:    filename,
		ContentType: contentType,
		FileData:    data,
		FileSize:    int64(len(data)),
		CampaignID:  campaign.ID,
	}
	if err := u.attachmentRepo.Create(attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

// ListAttachments lists a campaign's attachments
func (u *campaignUsecase) ListAttachments(userID, campaignID uint) ([]*models.Attachment, error) {
	campaign, err := u.campaignRepo.GetForUser(campaignID, userID)
	if err != nil {
		return nil, err
	}
	return u.attachmentRepo.ListForCampaign(campaign.ID)
}

// DeleteAttachment removes one attachment
func (u *campaignUsecase) DeleteAttachment(userID, campaignID, attachmentID uint) error {
	campaign, err := u.campaignRepo.GetForUser(campaignID, userID)
	if err != nil {
		return err
	}

	attachment, err := u.attachmentRepo.GetForCampaign(attachmentID, campaign.ID)
	if err != nil {
		return err
	}
	return u.attachmentRepo.Delete(attachment.ID)
}

// defaultSampleData is the placeholder context used when a preview or test
// send supplies none
func defaultSampleData(addr string) models.RecipientData {
	return models.RecipientData{
		"name":    "John Doe",
		"email":   addr,
		"company": "Acme Corp",
	}
}

// Preview renders subject and body against sample data without sending
func (u *campaignUsecase) Preview(userID, campaignID uint, sample models.RecipientData) (*models.PreviewResult, error) {
	campaign, err := u.campaignRepo.GetForUser(campaignID, userID)
	if err != nil {
		return nil, err
	}

	if len(sample) == 0 {
		sample = defaultSampleData("john@example.com")
	}

	subject, err := render.Render(campaign.Subject, sample)
	if err != nil {
		return nil, err
	}
	body, err := render.Render(campaign.Body, sample)
	if err != nil {
		return nil, err
	}

	return &models.PreviewResult{
		Subject:    subject,
		Body:       body,
		SampleData: sample,
	}, nil
}

// TestSend delivers a single rendered message to the given address. Unlike
// the bulk pass, transport failures propagate to the caller.
func (u *campaignUsecase) TestSend(userID, campaignID uint, toEmail string, sample models.RecipientData) error {
	campaign, err := u.campaignRepo.GetForUser(campaignID, userID)
	if err != nil {
		return err
	}

	cfg, err := u.smtpRepo.GetForUser(userID)
	if err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("SMTP configuration missing: %w", apperrors.ErrPrecondition)
	}

	if len(sample) == 0 {
		sample = models.RecipientData{
			"name":    "Test User",
			"email":   toEmail,
			"company": "Test Company",
		}
	}

	subject, err := render.Render(campaign.Subject, sample)
	if err != nil {
		return err
	}
	body, err := render.Render(campaign.Body, sample)
	if err != nil {
		return err
	}

	return u.sender.Send(cfg, toEmail, "[TEST] "+subject, body, nil)
}

// recipientOutcome is the per-item result of one send attempt
type recipientOutcome struct {
	recipient *models.Recipient
	err       error
}

// Send runs one pass of the campaign pipeline: render, dispatch and record
// an outcome for every pending recipient. A failing recipient never aborts
// the pass; the campaign finishes as completed regardless of how many
// succeeded. Re-invoking processes only recipients still pending.
func (u *campaignUsecase) Send(userID, campaignID uint) (*models.SendResult, error) {
	campaign, err := u.campaignRepo.GetForUser(campaignID, userID)
	if err != nil {
		return nil, err
	}

	cfg, err := u.smtpRepo.GetForUser(userID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("SMTP configuration missing: %w", apperrors.ErrPrecondition)
	}

	recipients, err := u.recipientRepo.PendingForCampaign(campaign.ID)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no pending recipients: %w", apperrors.ErrPrecondition)
	}

	stored, err := u.attachmentRepo.ListForCampaign(campaign.ID)
	if err != nil {
		return nil, err
	}
	attachments := make([]email.Attachment, 0, len(stored))
	for _, a := range stored {
		attachments = append(attachments, email.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Data:        a.FileData,
		})
	}

	// The status flip must be durable before the first recipient is
	// touched so an interrupted pass is observable as "sending".
	campaign.Status = models.CampaignStatusSending
	if err := u.campaignRepo.Update(campaign); err != nil {
		return nil, err
	}

	outcomes := make([]recipientOutcome, 0, len(recipients))
	for _, recipient := range recipients {
		outcome := recipientOutcome{recipient: recipient}
		outcome.err = u.deliverOne(campaign, cfg, recipient, attachments)

		if outcome.err != nil {
			recipient.Status = models.RecipientStatusFailed
			logger.WithFields(map[string]interface{}{
				"campaign_id":  campaign.ID,
				"recipient_id": recipient.ID,
				"email":        recipient.Email,
				"error":        outcome.err.Error(),
			}).Error("Failed to send to recipient")
		} else {
			recipient.Status = models.RecipientStatusSent
		}

		if err := u.recipientRepo.Update(recipient); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}

	campaign.Status = models.CampaignStatusCompleted
	if err := u.campaignRepo.Update(campaign); err != nil {
		return nil, err
	}

	result := &models.SendResult{
		Total:       len(outcomes),
		Attachments: len(attachments),
	}
	for _, outcome := range outcomes {
		if outcome.err != nil {
			result.Failed++
		} else {
			result.Sent++
		}
	}

	logger.WithFields(map[string]interface{}{
		"campaign_id": campaign.ID,
		"sent":        result.Sent,
		"failed":      result.Failed,
		"total":       result.Total,
	}).Info("Campaign send pass completed")

	return result, nil
}

// deliverOne renders and transmits the message for a single recipient. A
// template failure counts the same as a transport failure here: the
// recipient is marked failed and the pass moves on.
func (u *campaignUsecase) deliverOne(campaign *models.Campaign, cfg *models.SMTPConfig, recipient *models.Recipient, attachments []email.Attachment) error {
	data := recipient.Data
	if data == nil {
		data = models.RecipientData{}
	}

	subject, err := render.Render(campaign.Subject, data)
	if err != nil {
		return err
	}
	body, err := render.Render(campaign.Body, data)
	if err != nil {
		return err
	}

	return u.sender.Send(cfg, recipient.Email, subject, body, attachments)
}
