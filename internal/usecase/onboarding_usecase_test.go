package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyhq/complybot/internal/config"
	"github.com/complyhq/complybot/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Onboarding: config.OnboardingConfig{
			CompletionPhrases: []string{
				"i believe i have enough information now. thank you for your detailed responses. i am ready to generate your compliance dashboard.",
				"i have enough information now",
			},
			MinInterviewTurns: 8,
			SessionTTL:        time.Hour,
		},
	}
}

type onboardingFixture struct {
	uc         OnboardingUsecase
	sessions   *SessionStore
	profiles   *fakeProfileRepo
	businesses *fakeBusinessRepo
	compliance *fakeComplianceRepo
	llm        *fakeLLM
	userID     string
}

func newOnboardingFixture(t *testing.T) *onboardingFixture {
	t.Helper()
	cfg := testConfig()
	profiles := newFakeProfileRepo(nil)
	businesses := newFakeBusinessRepo(nil)
	compliance := newFakeComplianceRepo(nil)
	llmClient := &fakeLLM{}
	sessions := NewSessionStore(cfg.Onboarding.SessionTTL)

	profile := &models.UserProfile{Email: "owner@example.com"}
	require.NoError(t, profiles.Create(context.Background(), profile))

	return &onboardingFixture{
		uc:         NewOnboardingUsecase(cfg, sessions, profiles, businesses, compliance, llmClient),
		sessions:   sessions,
		profiles:   profiles,
		businesses: businesses,
		compliance: compliance,
		llm:        llmClient,
		userID:     profile.ID.Hex(),
	}
}

func testBusinessInput() models.BusinessInput {
	return models.BusinessInput{
		Name:  "Blue Bottle Bakery",
		Phone: "+1 555 010 0199",
		Address: models.Address{
			Street:  "12 Main St",
			City:    "Portland",
			State:   "OR",
			Zip:     "97201",
			Country: "USA",
		},
		Type:        "bakery",
		LegalEntity: models.LegalEntityLLC,
	}
}

func TestOnboardingFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newOnboardingFixture(t)
	f.llm.replies = []string{"How long has Blue Bottle Bakery been operating?"}

	session, err := f.uc.StartSession(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseUserDetails, session.Phase)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, models.SenderAI, session.Messages[0].Sender)

	// resuming does not repeat the greeting
	session, err = f.uc.StartSession(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, session.Messages, 2)

	session, err = f.uc.SubmitUserDetails(ctx, f.userID, models.UserDetailsForm{FirstName: "Ada", LastName: "Nguyen"})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseBusinessBasicInfo, session.Phase)
	assert.Equal(t, "My name is Ada Nguyen.", session.Messages[2].Text)

	profile, err := f.profiles.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.Equal(t, "Nguyen", profile.LastName)

	session, err = f.uc.SubmitBusinessInfo(ctx, f.userID, testBusinessInput())
	require.NoError(t, err)
	assert.Equal(t, models.PhaseBusinessDesc, session.Phase)
	require.NotEmpty(t, session.BusinessID)

	business, err := f.businesses.GetByID(ctx, f.userID, session.BusinessID)
	require.NoError(t, err)
	assert.Empty(t, business.Description)
	assert.Equal(t, f.userID, business.OwnerID.Hex())

	session, err = f.uc.SubmitBusinessDescription(ctx, f.userID, models.BusinessDescriptionForm{
		Description: "We bake sourdough and pastries with six employees.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseAIInterview, session.Phase)

	business, err = f.businesses.GetByID(ctx, f.userID, session.BusinessID)
	require.NoError(t, err)
	assert.Contains(t, business.Description, "sourdough")

	// the context prompt seeds the AI transcript but stays out of the UI
	require.Len(t, session.History, 2)
	assert.Equal(t, models.RoleUser, session.History[0].Role)
	assert.Contains(t, session.History[0].Text, "Blue Bottle Bakery")
	require.Len(t, session.Messages, 1)
	assert.Equal(t, "How long has Blue Bottle Bakery been operating?", session.Messages[0].Text)
}

func TestGetSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newOnboardingFixture(t)

	_, err := f.uc.GetSession(ctx, f.userID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	started, err := f.uc.StartSession(ctx, f.userID)
	require.NoError(t, err)

	session, err := f.uc.GetSession(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, started.ID, session.ID)
	assert.Equal(t, models.PhaseUserDetails, session.Phase)
}

func TestResetSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newOnboardingFixture(t)

	started, err := f.uc.StartSession(ctx, f.userID)
	require.NoError(t, err)

	require.NoError(t, f.uc.ResetSession(ctx, f.userID))
	_, err = f.uc.GetSession(ctx, f.userID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	// resetting an absent session is a no-op
	require.NoError(t, f.uc.ResetSession(ctx, f.userID))

	fresh, err := f.uc.StartSession(ctx, f.userID)
	require.NoError(t, err)
	assert.NotEqual(t, started.ID, fresh.ID)
	assert.Equal(t, models.PhaseUserDetails, fresh.Phase)
}

func TestSubmitUserDetailsWrongPhase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newOnboardingFixture(t)

	_, err := f.uc.SubmitUserDetails(ctx, f.userID, models.UserDetailsForm{FirstName: "Ada", LastName: "Nguyen"})
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	_, err = f.uc.StartSession(ctx, f.userID)
	require.NoError(t, err)

	_, err = f.uc.SubmitBusinessInfo(ctx, f.userID, testBusinessInput())
	assert.ErrorIs(t, err, models.ErrInvalidPhase)
}

func TestSubmitBusinessDescriptionWithoutBusiness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newOnboardingFixture(t)

	session := f.sessions.GetOrCreate(f.userID)
	session.Phase = models.PhaseBusinessDesc
	session.BusinessID = ""

	_, err := f.uc.SubmitBusinessDescription(ctx, f.userID, models.BusinessDescriptionForm{Description: "anything"})
	assert.ErrorIs(t, err, models.ErrMissingBusinessData)
}

func interviewHistory(n int) []models.ChatEntry {
	history := make([]models.ChatEntry, 0, n)
	for i := 0; i < n; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleModel
		}
		history = append(history, models.ChatEntry{Role: role, Text: "turn"})
	}
	return history
}

func TestInterviewCompletion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	completionReply := "I believe I have enough information now. Thank you for your detailed responses. I am ready to generate your compliance dashboard."

	t.Run("phrase alone does not end a short interview", func(t *testing.T) {
		f := newOnboardingFixture(t)
		f.llm.replies = []string{completionReply}

		businessID, err := f.businesses.Create(ctx, f.userID, testBusinessInput())
		require.NoError(t, err)

		session := f.sessions.GetOrCreate(f.userID)
		session.Phase = models.PhaseAIInterview
		session.BusinessID = businessID
		session.History = interviewHistory(4)

		session, err = f.uc.SendMessage(ctx, f.userID, models.ChatTurnRequest{Text: "We have six employees."})
		require.NoError(t, err)
		assert.Equal(t, models.PhaseAIInterview, session.Phase)
		assert.Empty(t, session.RedirectTo)

		items, err := f.compliance.ListByBusiness(ctx, f.userID, businessID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("phrase ends a long interview and builds the dashboard", func(t *testing.T) {
		f := newOnboardingFixture(t)
		f.llm.replies = []string{completionReply}
		f.llm.drafts = []models.ComplianceDraft{
			{
				Title:       "Annual business license renewal",
				Description: "Renew the city business license.",
				Category:    "Licenses",
				Status:      "UPCOMING",
				DueDate:     "2026-10-01",
				Frequency:   "Annually",
			},
			{
				Title:       "Food handler permits",
				Description: "All staff handling food need valid permits.",
				Category:    "not a real category",
				Status:      "TODO",
			},
		}

		businessID, err := f.businesses.Create(ctx, f.userID, testBusinessInput())
		require.NoError(t, err)

		session := f.sessions.GetOrCreate(f.userID)
		session.Phase = models.PhaseAIInterview
		session.BusinessID = businessID
		session.History = interviewHistory(9)

		session, err = f.uc.SendMessage(ctx, f.userID, models.ChatTurnRequest{Text: "No previous violations."})
		require.NoError(t, err)
		assert.Equal(t, models.PhaseCompletion, session.Phase)
		assert.Equal(t, "/dashboard", session.RedirectTo)
		assert.Equal(t, completionText, session.Messages[len(session.Messages)-1].Text)

		items, err := f.compliance.ListByBusiness(ctx, f.userID, businessID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		for _, item := range items {
			assert.Equal(t, f.userID, item.OwnerID.Hex())
			assert.Equal(t, businessID, item.BusinessID.Hex())
			assert.False(t, item.DueDate.IsZero())
		}

		profile, err := f.profiles.GetByID(ctx, f.userID)
		require.NoError(t, err)
		assert.True(t, profile.HasCompletedOnboarding)
	})

	t.Run("extraction failure reopens the interview for a retry", func(t *testing.T) {
		f := newOnboardingFixture(t)
		f.llm.replies = []string{completionReply, completionReply}
		f.llm.extractErr = models.ErrMalformedPayload

		businessID, err := f.businesses.Create(ctx, f.userID, testBusinessInput())
		require.NoError(t, err)

		session := f.sessions.GetOrCreate(f.userID)
		session.Phase = models.PhaseAIInterview
		session.BusinessID = businessID
		session.History = interviewHistory(9)

		_, err = f.uc.SendMessage(ctx, f.userID, models.ChatTurnRequest{Text: "That covers everything."})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrMalformedPayload)

		stored, ok := f.sessions.Get(f.userID)
		require.True(t, ok)
		assert.Equal(t, models.PhaseAIInterview, stored.Phase)
		assert.Empty(t, stored.RedirectTo)
		// the extraction prompt is rolled back, the model reply stays
		assert.Equal(t, models.RoleModel, stored.History[len(stored.History)-1].Role)

		profile, err := f.profiles.GetByID(ctx, f.userID)
		require.NoError(t, err)
		assert.False(t, profile.HasCompletedOnboarding)

		// the endpoint recovers and the next turn completes the interview
		f.llm.extractErr = nil
		f.llm.drafts = []models.ComplianceDraft{{Title: "City business license", Category: "Licenses", Status: "TODO"}}

		session, err = f.uc.SendMessage(ctx, f.userID, models.ChatTurnRequest{Text: "Is there anything else you need?"})
		require.NoError(t, err)
		assert.Equal(t, models.PhaseCompletion, session.Phase)
		assert.Equal(t, "/dashboard", session.RedirectTo)

		items, err := f.compliance.ListByBusiness(ctx, f.userID, businessID)
		require.NoError(t, err)
		assert.Len(t, items, 1)

		profile, err = f.profiles.GetByID(ctx, f.userID)
		require.NoError(t, err)
		assert.True(t, profile.HasCompletedOnboarding)
	})
}

func TestConverseFailureKeepsInterviewAlive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newOnboardingFixture(t)
	f.llm.replyErr = errors.New("upstream timeout")

	businessID, err := f.businesses.Create(ctx, f.userID, testBusinessInput())
	require.NoError(t, err)

	session := f.sessions.GetOrCreate(f.userID)
	session.Phase = models.PhaseAIInterview
	session.BusinessID = businessID
	session.History = interviewHistory(9)

	session, err = f.uc.SendMessage(ctx, f.userID, models.ChatTurnRequest{Text: "Hello?"})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseAIInterview, session.Phase)
	assert.Equal(t, noResponseText, session.Messages[len(session.Messages)-1].Text)
	// the failed turn is not recorded as a model entry
	assert.Equal(t, models.RoleUser, session.History[len(session.History)-1].Role)
}

func TestDraftToItem(t *testing.T) {
	t.Parallel()

	t.Run("full draft", func(t *testing.T) {
		item := draftToItem(models.ComplianceDraft{
			Title:             "Workers comp insurance",
			Category:          "business insurance",
			Status:            "upcoming",
			DueDate:           "2026-11-15",
			NextReviewDate:    "2027-01-01",
			LastCompletedDate: "",
			RelevantLaws:      []string{"ORS 656"},
		})
		assert.Equal(t, models.CategoryBusinessInsurance, item.Category)
		assert.Equal(t, models.StatusUpcoming, item.Status)
		assert.Equal(t, 2026, item.DueDate.Year())
		require.NotNil(t, item.NextReviewDate)
		assert.Nil(t, item.LastCompletedDate)
	})

	t.Run("defaults", func(t *testing.T) {
		item := draftToItem(models.ComplianceDraft{Title: "Something", Category: "bogus", Status: "bogus"})
		assert.Equal(t, models.CategoryRegulatoryGuidance, item.Category)
		assert.Equal(t, models.StatusTodo, item.Status)
		assert.WithinDuration(t, time.Now(), item.DueDate, time.Minute)
	})
}

func TestNormalizeForMatch(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "i have enough information now", normalizeForMatch("  I  have\tenough\ninformation NOW "))
}

func TestSessionStoreEviction(t *testing.T) {
	t.Parallel()
	store := NewSessionStore(10 * time.Millisecond)
	session := store.GetOrCreate("user-1")
	session.UpdatedAt = time.Now().Add(-time.Minute)

	_, ok := store.Get("user-1")
	assert.False(t, ok)

	fresh := store.GetOrCreate("user-1")
	assert.NotEqual(t, session.ID, fresh.ID)
	assert.Equal(t, models.PhaseInitialGreeting, fresh.Phase)
}
