package usecase

import (
	"fmt"
	"sync"
	"testing"

	"novamailer/services/mailer/apperrors"
	"novamailer/services/mailer/email"
	"novamailer/services/mailer/models"
	"novamailer/services/mailer/repository"
	"novamailer/shared/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	db := &database.DB{DB: gormDB}

	err = db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.SMTPConfig{},
		&models.Campaign{},
		&models.Recipient{},
		&models.Attachment{},
		&models.Template{},
	)
	require.NoError(t, err)

	return db
}

// sentMail records the arguments of one fakeSender.Send call
type sentMail struct {
	To          string
	Subject     string
	Body        string
	Attachments []email.Attachment
}

// fakeSender is an in-memory email.Sender. Addresses in failFor produce a
// TransportError instead of a delivery.
type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMail
	failFor map[string]bool
}

func newFakeSender(failFor ...string) *fakeSender {
	fail := make(map[string]bool, len(failFor))
	for _, addr := range failFor {
		fail[addr] = true
	}
	return &fakeSender{failFor: fail}
}

func (f *fakeSender) Send(cfg *models.SMTPConfig, to, subject, htmlBody string, attachments []email.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFor[to] {
		return &apperrors.TransportError{Err: fmt.Errorf("connection refused for %s", to)}
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: htmlBody, Attachments: attachments})
	return nil
}

func (f *fakeSender) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	addrs := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		addrs = append(addrs, m.To)
	}
	return addrs
}

// newCampaignFixture wires a campaign usecase over a fresh database and
// returns the pieces tests poke at directly
type campaignFixture struct {
	db            *database.DB
	usecase       CampaignUsecase
	sender        *fakeSender
	campaignRepo  repository.CampaignRepository
	recipientRepo repository.RecipientRepository
	smtpRepo      repository.SMTPRepository
}

func newCampaignFixture(t *testing.T, sender *fakeSender) *campaignFixture {
	t.Helper()

	db := setupTestDB(t)
	campaignRepo := repository.NewCampaignRepository(db)
	recipientRepo := repository.NewRecipientRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	smtpRepo := repository.NewSMTPRepository(db)

	return &campaignFixture{
		db:            db,
		usecase:       NewCampaignUsecase(campaignRepo, recipientRepo, attachmentRepo, smtpRepo, sender),
		sender:        sender,
		campaignRepo:  campaignRepo,
		recipientRepo: recipientRepo,
		smtpRepo:      smtpRepo,
	}
}

func (f *campaignFixture) createSMTPConfig(t *testing.T, userID uint) {
	t.Helper()
	require.NoError(t, f.smtpRepo.Save(&models.SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer",
		Password:  "secret",
		FromEmail: "noreply@example.com",
		UserID:    userID,
	}))
}

func (f *campaignFixture) createCampaign(t *testing.T, userID uint, subject, body string) *models.Campaign {
	t.Helper()
	campaign, err := f.usecase.Create(userID, &models.CampaignCreateRequest{
		Name:    "Test Campaign",
		Subject: subject,
		Body:    body,
	})
	require.NoError(t, err)
	return campaign
}

func (f *campaignFixture) addRecipients(t *testing.T, campaignID uint, emails ...string) {
	t.Helper()
	recipients := make([]*models.Recipient, 0, len(emails))
	for _, addr := range emails {
		recipients = append(recipients, &models.Recipient{
			Email:      addr,
			Data:       models.RecipientData{"email": addr, "name": "User " + addr},
			Status:     models.RecipientStatusPending,
			CampaignID: campaignID,
		})
	}
	require.NoError(t, f.recipientRepo.CreateBatch(recipients))
}
