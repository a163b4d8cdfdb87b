package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyhq/complybot/internal/models"
)

func testBusiness() *models.Business {
	return &models.Business{
		Name:        "Blue Bottle Bakery",
		Type:        "bakery",
		LegalEntity: models.LegalEntityLLC,
		Phone:       "+1 555 010 0199",
		Address: models.Address{
			Street:  "12 Main St",
			City:    "Portland",
			State:   "OR",
			Zip:     "97201",
			Country: "USA",
		},
	}
}

func TestRenderInterviewPrompt(t *testing.T) {
	t.Parallel()

	t.Run("embeds business details", func(t *testing.T) {
		business := testBusiness()
		business.Description = "Sourdough and pastries, six employees."

		prompt, err := RenderInterviewPrompt(business)
		require.NoError(t, err)
		assert.Contains(t, prompt, "Blue Bottle Bakery")
		assert.Contains(t, prompt, "llc")
		assert.Contains(t, prompt, "Portland, OR")
		assert.Contains(t, prompt, "Sourdough and pastries")
		assert.Contains(t, prompt, "ONLY ONE question at a time")
	})

	t.Run("placeholder for empty description", func(t *testing.T) {
		prompt, err := RenderInterviewPrompt(testBusiness())
		require.NoError(t, err)
		assert.Contains(t, prompt, "No detailed description provided yet.")
	})
}

func TestRenderExtractionPrompt(t *testing.T) {
	t.Parallel()

	history := []models.ChatEntry{
		{Role: models.RoleUser, Text: "We bake bread."},
		{Role: models.RoleModel, Text: "How many employees do you have?"},
		{Role: models.RoleUser, Text: "Six."},
	}

	prompt, err := RenderExtractionPrompt(testBusiness(), history)
	require.NoError(t, err)

	// every fixed category is offered to the model
	for _, category := range models.ComplianceCategories {
		assert.Contains(t, prompt, string(category))
	}
	assert.Contains(t, prompt, "user: We bake bread.")
	assert.Contains(t, prompt, "model: How many employees do you have?")
	assert.Contains(t, prompt, "single, distinct, granular")
}

func TestSummarizeHistory(t *testing.T) {
	t.Parallel()
	assert.Empty(t, summarizeHistory(nil))
	assert.Equal(t, "user: hi\nmodel: hello", summarizeHistory([]models.ChatEntry{
		{Role: models.RoleUser, Text: "hi"},
		{Role: models.RoleModel, Text: "hello"},
	}))
}
