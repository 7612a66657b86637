package usecase

import (
	"testing"

	"novamailer/services/mailer/models"
	"novamailer/services/mailer/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	f := newCampaignFixture(t, newFakeSender("fail@example.com"))
	f.createSMTPConfig(t, 1)

	sent := f.createCampaign(t, 1, "S", "B")
	f.addRecipients(t, sent.ID, "ok@example.com", "fail@example.com")
	_, err := f.usecase.Send(1, sent.ID)
	require.NoError(t, err)

	draft := f.createCampaign(t, 1, "S", "B")
	f.addRecipients(t, draft.ID, "later@example.com")

	// Another user's campaigns stay out of the aggregate.
	other := f.createCampaign(t, 2, "S", "B")
	f.addRecipients(t, other.ID, "other@example.com")

	stats, err := NewStatsUsecase(f.campaignRepo, f.recipientRepo, nil).Dashboard(1)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalCampaigns)
	assert.Equal(t, int64(1), stats.CampaignsByStatus[string(models.CampaignStatusCompleted)])
	assert.Equal(t, int64(1), stats.CampaignsByStatus[string(models.CampaignStatusDraft)])
	assert.Equal(t, int64(3), stats.TotalEmails)
	assert.Equal(t, int64(1), stats.SentEmails)
	assert.Equal(t, int64(1), stats.FailedEmails)
	assert.Equal(t, int64(1), stats.PendingEmails)
	assert.InDelta(t, 33.33, stats.SuccessRate, 0.01)
	assert.Len(t, stats.RecentCampaigns, 2)
}

func TestDashboardStatsEmpty(t *testing.T) {
	db := setupTestDB(t)
	stats, err := NewStatsUsecase(
		repository.NewCampaignRepository(db),
		repository.NewRecipientRepository(db),
		nil,
	).Dashboard(1)
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.TotalCampaigns)
	assert.Equal(t, float64(0), stats.SuccessRate)
	assert.Empty(t, stats.RecentCampaigns)
}
