package models

import "time"

// OnboardingPhase is one step of the fixed linear interview. There is no
// skipping and no going back.
type OnboardingPhase string

const (
	PhaseInitialGreeting   OnboardingPhase = "initial_greeting"
	PhaseUserDetails       OnboardingPhase = "user_details"
	PhaseBusinessBasicInfo OnboardingPhase = "business_basic_info"
	PhaseBusinessDesc      OnboardingPhase = "business_description"
	PhaseAIInterview       OnboardingPhase = "ai_interview"
	PhaseCompletion        OnboardingPhase = "completion"
)

type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderAI   ChatSender = "ai"
)

// ChatMessage is one UI-visible transcript entry.
type ChatMessage struct {
	Sender ChatSender `json:"sender"`
	Text   string     `json:"text"`
}

type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatEntry is one entry of the AI-context transcript actually sent to the
// generative endpoint. Phase prompts and form summaries never appear here.
type ChatEntry struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// OnboardingSession holds the in-memory interview state for one user. It is
// never persisted; a reload restarts the interview from the first phase.
type OnboardingSession struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Phase      OnboardingPhase `json:"phase"`
	Messages   []ChatMessage   `json:"messages"`
	History    []ChatEntry     `json:"-"`
	BusinessID string          `json:"business_id,omitempty"`
	RedirectTo string          `json:"redirect_to,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type UserDetailsForm struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type BusinessDescriptionForm struct {
	Description string `json:"description" validate:"required"`
}

type ChatTurnRequest struct {
	Text string `json:"text" validate:"required,nonblank"`
}
