package usecase

import (
	"testing"

	"novamailer/services/mailer/models"
	"novamailer/services/mailer/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	u := NewTemplateUsecase(repository.NewTemplateRepository(db))

	created, err := u.Create(1, &models.TemplateCreateRequest{
		Name:    "Welcome",
		Subject: "Hello {{ name }}",
		Body:    "Glad to have you, {{ name }}.",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = u.Create(2, &models.TemplateCreateRequest{
		Name:    "Other user",
		Subject: "s",
		Body:    "b",
	})
	require.NoError(t, err)

	templates, err := u.List(1, 10, 0)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "Welcome", templates[0].Name)
	assert.Equal(t, uint(1), templates[0].UserID)
}
