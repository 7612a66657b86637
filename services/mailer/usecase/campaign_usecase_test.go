package usecase

import (
	"strings"
	"testing"

	"novamailer/services/mailer/apperrors"
	"novamailer/services/mailer/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignSendAllSucceed(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	f.createSMTPConfig(t, 1)
	campaign := f.createCampaign(t, 1, "Hello {{ name }}", "Dear {{ name }}, welcome.")
	f.addRecipients(t, campaign.ID, "a@example.com", "b@example.com", "c@example.com")

	result, err := f.usecase.Send(1, campaign.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, f.sender.sentTo())

	updated, err := f.campaignRepo.GetForUser(campaign.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusCompleted, updated.Status)

	pending, err := f.recipientRepo.PendingForCampaign(campaign.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCampaignSendPartialFailure(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender("b@example.com"))
	f.createSMTPConfig(t, 1)
	campaign := f.createCampaign(t, 1, "Hello {{ name }}", "Hi")
	f.addRecipients(t, campaign.ID, "a@example.com", "b@example.com", "c@example.com")

	result, err := f.usecase.Send(1, campaign.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total)

	// A failing recipient never stops the ones after it.
	assert.Equal(t, []string{"a@example.com", "c@example.com"}, f.sender.sentTo())

	// The campaign still finishes as completed.
	updated, err := f.campaignRepo.GetForUser(campaign.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusCompleted, updated.Status)

	stats, err := f.recipientRepo.StatsForCampaign(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Sent)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(0), stats.Pending)
}

func TestCampaignSendPersonalizesEachRecipient(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	f.createSMTPConfig(t, 1)
	campaign := f.createCampaign(t, 1, "Hi {{ name }}", "Your address is {{ email }}")
	f.addRecipients(t, campaign.ID, "a@example.com", "b@example.com")

	_, err := f.usecase.Send(1, campaign.ID)
	require.NoError(t, err)

	require.Len(t, f.sender.sent, 2)
	assert.Equal(t, "Hi User a@example.com", f.sender.sent[0].Subject)
	assert.Equal(t, "Your address is a@example.com", f.sender.sent[0].Body)
	assert.Equal(t, "Hi User b@example.com", f.sender.sent[1].Subject)
	assert.Equal(t, "Your address is b@example.com", f.sender.sent[1].Body)
}

func TestCampaignSendSecondPassOnlyPending(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender("b@example.com"))
	f.createSMTPConfig(t, 1)
	campaign := f.createCampaign(t, 1, "Subject", "Body")
	f.addRecipients(t, campaign.ID, "a@example.com", "b@example.com")

	result, err := f.usecase.Send(1, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)

	// Nothing is pending after a pass, so re-sending is rejected.
	_, err = f.usecase.Send(1, campaign.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPrecondition)

	// Resetting the failed recipient to pending makes it eligible again.
	recipients, err := f.recipientRepo.ListForCampaign(campaign.ID, 10)
	require.NoError(t, err)
	for _, r := range recipients {
		if r.Status == models.RecipientStatusFailed {
			r.Status = models.RecipientStatusPending
			require.NoError(t, f.recipientRepo.Update(r))
		}
	}

	f.sender.failFor = map[string]bool{}
	result, err = f.usecase.Send(1, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 1, result.Total)
}

func TestCampaignSendPreconditions(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	campaign := f.createCampaign(t, 1, "Subject", "Body")
	f.addRecipients(t, campaign.ID, "a@example.com")

	// Unknown campaign.
	_, err := f.usecase.Send(1, campaign.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Someone else's campaign looks missing, not forbidden.
	_, err = f.usecase.Send(2, campaign.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// No SMTP config.
	_, err = f.usecase.Send(1, campaign.ID)
	assert.ErrorIs(t, err, apperrors.ErrPrecondition)

	// No pending recipients.
	f.createSMTPConfig(t, 1)
	empty := f.createCampaign(t, 1, "Subject", "Body")
	_, err = f.usecase.Send(1, empty.ID)
	assert.ErrorIs(t, err, apperrors.ErrPrecondition)

	// Rejections must not touch campaign state.
	unchanged, err := f.campaignRepo.GetForUser(campaign.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusDraft, unchanged.Status)
}

func TestCampaignSendIncludesAttachments(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	f.createSMTPConfig(t, 1)
	campaign := f.createCampaign(t, 1, "Subject", "Body")
	f.addRecipients(t, campaign.ID, "a@example.com")

	_, err := f.usecase.AddAttachment(1, campaign.ID, "report.pdf", "application/pdf", []byte("pdf bytes"))
	require.NoError(t, err)

	result, err := f.usecase.Send(1, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Attachments)

	require.Len(t, f.sender.sent, 1)
	require.Len(t, f.sender.sent[0].Attachments, 1)
	assert.Equal(t, "report.pdf", f.sender.sent[0].Attachments[0].Filename)
	assert.Equal(t, []byte("pdf bytes"), f.sender.sent[0].Attachments[0].Data)
}

func TestAddAttachmentSizeCap(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	campaign := f.createCampaign(t, 1, "Subject", "Body")

	// Exactly at the cap is accepted.
	atCap := make([]byte, models.MaxAttachmentSize)
	attachment, err := f.usecase.AddAttachment(1, campaign.ID, "exact.bin", "", atCap)
	require.NoError(t, err)
	assert.Equal(t, int64(models.MaxAttachmentSize), attachment.FileSize)
	assert.Equal(t, "application/octet-stream", attachment.ContentType)

	// One byte over is rejected before anything is stored.
	over := make([]byte, models.MaxAttachmentSize+1)
	_, err = f.usecase.AddAttachment(1, campaign.ID, "over.bin", "", over)
	require.Error(t, err)

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	stored, err := f.usecase.ListAttachments(1, campaign.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestDeleteAttachment(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	campaign := f.createCampaign(t, 1, "Subject", "Body")

	attachment, err := f.usecase.AddAttachment(1, campaign.ID, "doc.txt", "text/plain", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, f.usecase.DeleteAttachment(1, campaign.ID, attachment.ID))

	stored, err := f.usecase.ListAttachments(1, campaign.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	err = f.usecase.DeleteAttachment(1, campaign.ID, attachment.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestImportRecipients(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	campaign := f.createCampaign(t, 1, "Subject", "Body")

	csv := "email,name\na@example.com,Alice\n,Skipped\nb@example.com,Bob\n"
	count, err := f.usecase.ImportRecipients(1, campaign.ID, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	pending, err := f.recipientRepo.PendingForCampaign(campaign.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "a@example.com", pending[0].Email)
	assert.Equal(t, "Alice", pending[0].Data["name"])
}

func TestImportRecipientsInvalidCSV(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	campaign := f.createCampaign(t, 1, "Subject", "Body")

	_, err := f.usecase.ImportRecipients(1, campaign.ID, strings.NewReader("name\nAlice\n"))
	require.Error(t, err)

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestPreview(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	campaign := f.createCampaign(t, 1, "Hi {{ name }}", "From {{ company }}")

	// Default sample data when none is supplied.
	preview, err := f.usecase.Preview(1, campaign.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hi John Doe", preview.Subject)
	assert.Equal(t, "From Acme Corp", preview.Body)

	// Caller-supplied sample data wins.
	preview, err = f.usecase.Preview(1, campaign.ID, models.RecipientData{"name": "Zoe", "company": "Initech"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Zoe", preview.Subject)
	assert.Equal(t, "From Initech", preview.Body)
}

func TestPreviewMalformedTemplate(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	campaign := f.createCampaign(t, 1, "Hi {{ name", "Body")

	_, err := f.usecase.Preview(1, campaign.ID, nil)
	require.Error(t, err)

	var templateErr *apperrors.TemplateError
	assert.ErrorAs(t, err, &templateErr)
}

func TestTestSend(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	campaign := f.createCampaign(t, 1, "Hello {{ name }}", "Body for {{ email }}")

	// Requires SMTP config.
	err := f.usecase.TestSend(1, campaign.ID, "check@example.com", nil)
	assert.ErrorIs(t, err, apperrors.ErrPrecondition)

	f.createSMTPConfig(t, 1)
	require.NoError(t, f.usecase.TestSend(1, campaign.ID, "check@example.com", nil))

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "check@example.com", f.sender.sent[0].To)
	assert.Equal(t, "[TEST] Hello Test User", f.sender.sent[0].Subject)
	assert.Equal(t, "Body for check@example.com", f.sender.sent[0].Body)
}

func TestTestSendPropagatesTransportError(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender("broken@example.com"))
	f.createSMTPConfig(t, 1)
	campaign := f.createCampaign(t, 1, "Subject", "Body")

	err := f.usecase.TestSend(1, campaign.ID, "broken@example.com", nil)
	require.Error(t, err)

	var transportErr *apperrors.TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestCampaignDetails(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender())
	campaign := f.createCampaign(t, 1, "Subject", "Body")
	f.addRecipients(t, campaign.ID, "a@example.com", "b@example.com")

	details, err := f.usecase.Details(1, campaign.ID)
	require.NoError(t, err)

	assert.Equal(t, campaign.ID, details.Campaign.ID)
	assert.Equal(t, int64(2), details.Stats.Total)
	assert.Equal(t, int64(2), details.Stats.Pending)
	assert.Len(t, details.Recipients, 2)
}
