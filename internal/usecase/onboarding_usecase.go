package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/complyhq/complybot/internal/config"
	"github.com/complyhq/complybot/internal/models"
	"github.com/complyhq/complybot/internal/repo/llm"
	"github.com/complyhq/complybot/internal/repo/mongodb"
)

// OnboardingUsecase drives the conversational interview that ends in a
// generated compliance dashboard. Phases advance strictly forward; submitting
// a form for the wrong phase is rejected.
type OnboardingUsecase interface {
	StartSession(ctx context.Context, userID string) (*models.OnboardingSession, error)
	GetSession(ctx context.Context, userID string) (*models.OnboardingSession, error)
	ResetSession(ctx context.Context, userID string) error
	SubmitUserDetails(ctx context.Context, userID string, form models.UserDetailsForm) (*models.OnboardingSession, error)
	SubmitBusinessInfo(ctx context.Context, userID string, input models.BusinessInput) (*models.OnboardingSession, error)
	SubmitBusinessDescription(ctx context.Context, userID string, form models.BusinessDescriptionForm) (*models.OnboardingSession, error)
	SendMessage(ctx context.Context, userID string, req models.ChatTurnRequest) (*models.OnboardingSession, error)
}

const (
	greetingText = "Hello! I'm your AI compliance assistant. I'll ask you a few questions about you and your business, " +
		"then generate a personalized compliance dashboard covering the laws, licenses, and regulations that apply to you."
	askNameText         = "First things first: what is your name?"
	askBusinessInfoText = "Now let's talk about your business. Please fill in its name, address, phone number, " +
		"what it does, and its legal structure."
	askDescriptionText = "Great. Now describe your business in as much detail as you can: products and services, " +
		"employees, customers, equipment, and anything unusual about how you operate. The more detail, the better your dashboard."
	noResponseText = "I'm sorry, I could not generate a response. Please try again."
	completionText = "Thank you! I have everything I need. Give me a moment while I generate your personalized compliance dashboard..."
)

type onboardingUsecase struct {
	cfg            config.OnboardingConfig
	sessions       *SessionStore
	profileRepo    mongodb.ProfileRepository
	businessRepo   mongodb.BusinessRepository
	complianceRepo mongodb.ComplianceRepository
	llmClient      llm.Client
}

func NewOnboardingUsecase(
	cfg *config.Config,
	sessions *SessionStore,
	profileRepo mongodb.ProfileRepository,
	businessRepo mongodb.BusinessRepository,
	complianceRepo mongodb.ComplianceRepository,
	llmClient llm.Client,
) OnboardingUsecase {
	return &onboardingUsecase{
		cfg:            cfg.Onboarding,
		sessions:       sessions,
		profileRepo:    profileRepo,
		businessRepo:   businessRepo,
		complianceRepo: complianceRepo,
		llmClient:      llmClient,
	}
}

// StartSession opens (or resumes) the user's interview. A brand new session
// greets the user and immediately advances to the name form.
func (uc *onboardingUsecase) StartSession(ctx context.Context, userID string) (*models.OnboardingSession, error) {
	if _, err := uc.profileRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	session := uc.sessions.GetOrCreate(userID)
	if session.Phase == models.PhaseInitialGreeting {
		session.Messages = append(session.Messages,
			models.ChatMessage{Sender: models.SenderAI, Text: greetingText},
			models.ChatMessage{Sender: models.SenderAI, Text: askNameText},
		)
		session.Phase = models.PhaseUserDetails
		uc.sessions.Touch(session)
	}
	return session, nil
}

func (uc *onboardingUsecase) GetSession(ctx context.Context, userID string) (*models.OnboardingSession, error) {
	session, ok := uc.sessions.Get(userID)
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return session, nil
}

// ResetSession drops the user's interview state. The next StartSession call
// begins again from the greeting.
func (uc *onboardingUsecase) ResetSession(ctx context.Context, userID string) error {
	uc.sessions.Delete(userID)
	return nil
}

func (uc *onboardingUsecase) SubmitUserDetails(ctx context.Context, userID string, form models.UserDetailsForm) (*models.OnboardingSession, error) {
	session, err := uc.sessionInPhase(userID, models.PhaseUserDetails)
	if err != nil {
		return nil, err
	}

	err = uc.profileRepo.Merge(ctx, userID, models.ProfileUpdate{
		FirstName: &form.FirstName,
		LastName:  &form.LastName,
	})
	if err != nil {
		return nil, fmt.Errorf("save user details: %w", err)
	}

	// form submissions surface in the visible transcript only; the AI
	// context starts fresh at the interview phase
	session.Messages = append(session.Messages,
		models.ChatMessage{Sender: models.SenderUser, Text: fmt.Sprintf("My name is %s %s.", form.FirstName, form.LastName)},
		models.ChatMessage{Sender: models.SenderAI, Text: fmt.Sprintf("Nice to meet you, %s! %s", form.FirstName, askBusinessInfoText)},
	)
	session.Phase = models.PhaseBusinessBasicInfo
	uc.sessions.Touch(session)
	return session, nil
}

func (uc *onboardingUsecase) SubmitBusinessInfo(ctx context.Context, userID string, input models.BusinessInput) (*models.OnboardingSession, error) {
	session, err := uc.sessionInPhase(userID, models.PhaseBusinessBasicInfo)
	if err != nil {
		return nil, err
	}

	// the detailed description comes in the next phase
	input.Description = ""
	businessID, err := uc.businessRepo.Create(ctx, userID, input)
	if err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}
	session.BusinessID = businessID

	summary := fmt.Sprintf("My business is %s, a %s %s located in %s, %s.",
		input.Name, input.Type, input.LegalEntity, input.Address.City, input.Address.State)
	session.Messages = append(session.Messages,
		models.ChatMessage{Sender: models.SenderUser, Text: summary},
		models.ChatMessage{Sender: models.SenderAI, Text: askDescriptionText},
	)
	session.Phase = models.PhaseBusinessDesc
	uc.sessions.Touch(session)
	return session, nil
}

// SubmitBusinessDescription stores the free-text description and opens the
// AI interview with a context prompt built from the full business record.
func (uc *onboardingUsecase) SubmitBusinessDescription(ctx context.Context, userID string, form models.BusinessDescriptionForm) (*models.OnboardingSession, error) {
	session, ok := uc.sessions.Get(userID)
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	if session.BusinessID == "" {
		return nil, models.ErrMissingBusinessData
	}
	if session.Phase != models.PhaseBusinessDesc {
		return nil, fmt.Errorf("%w: expected %s, got %s", models.ErrInvalidPhase, models.PhaseBusinessDesc, session.Phase)
	}

	err := uc.businessRepo.Merge(ctx, userID, session.BusinessID, models.BusinessUpdate{
		Description: &form.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("save business description: %w", err)
	}

	business, err := uc.businessRepo.GetByID(ctx, userID, session.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("reload business: %w", err)
	}

	prompt, err := llm.RenderInterviewPrompt(business)
	if err != nil {
		return nil, err
	}

	// the interview starts from a clean slate: the context prompt is the
	// sole seed of the AI transcript and is never shown in the UI
	session.Messages = nil
	session.History = []models.ChatEntry{{Role: models.RoleUser, Text: prompt}}
	session.Phase = models.PhaseAIInterview

	reply, err := uc.llmClient.Converse(ctx, session.History)
	if err != nil {
		log.Errorw(ctx, "open interview", "error", err)
		session.Messages = append(session.Messages, models.ChatMessage{Sender: models.SenderAI, Text: noResponseText})
		uc.sessions.Touch(session)
		return session, nil
	}

	session.History = append(session.History, models.ChatEntry{Role: models.RoleModel, Text: reply})
	session.Messages = append(session.Messages, models.ChatMessage{Sender: models.SenderAI, Text: reply})
	uc.sessions.Touch(session)
	return session, nil
}

// SendMessage handles one free-text interview turn. When the model signals it
// has enough information and the conversation is long enough, the interview
// completes: compliance items are extracted, persisted, and the profile flag
// is flipped.
func (uc *onboardingUsecase) SendMessage(ctx context.Context, userID string, req models.ChatTurnRequest) (*models.OnboardingSession, error) {
	session, err := uc.sessionInPhase(userID, models.PhaseAIInterview)
	if err != nil {
		return nil, err
	}

	session.Messages = append(session.Messages, models.ChatMessage{Sender: models.SenderUser, Text: req.Text})
	session.History = append(session.History, models.ChatEntry{Role: models.RoleUser, Text: req.Text})

	if err := sleep(ctx, uc.cfg.TypingDelay); err != nil {
		return nil, err
	}

	reply, err := uc.llmClient.Converse(ctx, session.History)
	if err != nil {
		log.Errorw(ctx, "interview turn", "error", err)
		session.Messages = append(session.Messages, models.ChatMessage{Sender: models.SenderAI, Text: noResponseText})
		uc.sessions.Touch(session)
		return session, nil
	}

	session.History = append(session.History, models.ChatEntry{Role: models.RoleModel, Text: reply})
	session.Messages = append(session.Messages, models.ChatMessage{Sender: models.SenderAI, Text: reply})

	if uc.interviewComplete(reply, session) {
		if err := uc.complete(ctx, userID, session); err != nil {
			uc.sessions.Touch(session)
			return nil, err
		}
	}
	uc.sessions.Touch(session)
	return session, nil
}

// interviewComplete matches the model's reply against the completion phrase
// list. Length gates the match so an early phrase cannot end a conversation
// that has barely started.
func (uc *onboardingUsecase) interviewComplete(reply string, session *models.OnboardingSession) bool {
	if len(session.History) <= uc.cfg.MinInterviewTurns {
		return false
	}
	normalized := normalizeForMatch(reply)
	for _, phrase := range uc.cfg.CompletionPhrases {
		if strings.Contains(normalized, normalizeForMatch(phrase)) {
			return true
		}
	}
	return false
}

func normalizeForMatch(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// complete runs the extraction step. A failure rolls the transcripts back
// and reopens the interview, so the next turn gets another attempt; the
// profile flag is only set once items are actually persisted.
func (uc *onboardingUsecase) complete(ctx context.Context, userID string, session *models.OnboardingSession) error {
	messagesLen := len(session.Messages)
	historyLen := len(session.History)
	session.Phase = models.PhaseCompletion
	session.Messages = append(session.Messages, models.ChatMessage{Sender: models.SenderAI, Text: completionText})

	if err := uc.buildDashboard(ctx, userID, session); err != nil {
		session.Phase = models.PhaseAIInterview
		session.Messages = session.Messages[:messagesLen]
		session.History = session.History[:historyLen]
		return err
	}

	if err := sleep(ctx, uc.cfg.SettleDelay); err != nil {
		return err
	}
	session.RedirectTo = "/dashboard"
	return nil
}

func (uc *onboardingUsecase) buildDashboard(ctx context.Context, userID string, session *models.OnboardingSession) error {
	business, err := uc.businessRepo.GetByID(ctx, userID, session.BusinessID)
	if err != nil {
		return fmt.Errorf("load business for extraction: %w", err)
	}

	prompt, err := llm.RenderExtractionPrompt(business, session.History)
	if err != nil {
		return err
	}
	session.History = append(session.History, models.ChatEntry{Role: models.RoleUser, Text: prompt})

	drafts, err := uc.llmClient.ExtractComplianceItems(ctx, session.History)
	if err != nil {
		return fmt.Errorf("extract compliance items: %w", err)
	}

	items := make([]*models.ComplianceItem, 0, len(drafts))
	for _, draft := range drafts {
		items = append(items, draftToItem(draft))
	}
	if _, err := uc.complianceRepo.CreateMany(ctx, userID, session.BusinessID, items); err != nil {
		return fmt.Errorf("persist compliance items: %w", err)
	}

	completed := true
	if err := uc.profileRepo.Merge(ctx, userID, models.ProfileUpdate{HasCompletedOnboarding: &completed}); err != nil {
		return fmt.Errorf("mark onboarding complete: %w", err)
	}

	log.Infow(ctx, "onboarding completed", "user_id", userID, "business_id", session.BusinessID, "items", len(items))
	return nil
}

func (uc *onboardingUsecase) sessionInPhase(userID string, phase models.OnboardingPhase) (*models.OnboardingSession, error) {
	session, ok := uc.sessions.Get(userID)
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	if session.Phase != phase {
		return nil, fmt.Errorf("%w: expected %s, got %s", models.ErrInvalidPhase, phase, session.Phase)
	}
	return session, nil
}

// draftToItem normalizes a generated draft into a persistable item. Unknown
// categories and statuses fall back to safe defaults; a missing due date
// means due now.
func draftToItem(draft models.ComplianceDraft) *models.ComplianceItem {
	item := &models.ComplianceItem{
		Title:             draft.Title,
		Description:       draft.Description,
		Category:          models.CategoryRegulatoryGuidance,
		Status:            models.StatusTodo,
		DueDate:           time.Now(),
		Frequency:         draft.Frequency,
		IssuingAuthority:  draft.IssuingAuthority,
		RelevantLaws:      draft.RelevantLaws,
		RequiredDocuments: draft.RequiredDocuments,
		Notes:             draft.Notes,
		Attachments:       draft.Attachments,
	}
	for _, category := range models.ComplianceCategories {
		if strings.EqualFold(draft.Category, string(category)) {
			item.Category = category
			break
		}
	}
	if strings.EqualFold(draft.Status, string(models.StatusUpcoming)) {
		item.Status = models.StatusUpcoming
	}
	if due, ok := parseDraftDate(draft.DueDate); ok {
		item.DueDate = due
	}
	if next, ok := parseDraftDate(draft.NextReviewDate); ok {
		item.NextReviewDate = &next
	}
	if last, ok := parseDraftDate(draft.LastCompletedDate); ok {
		item.LastCompletedDate = &last
	}
	return item
}

func parseDraftDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
