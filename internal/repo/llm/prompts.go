package llm

import (
	"fmt"
	"strings"

	"github.com/complyhq/complybot/internal/models"
	"github.com/complyhq/complybot/pkg/tmplx"
)

// interviewPromptText is the context prompt opening the AI interview. It
// embeds the full business record and the fixed interview instructions: one
// question at a time, citations allowed but no compliance advice, and an
// explicit completion sentence once enough information is gathered.
const interviewPromptText = `You are an expert AI Business Regulatory Compliance, Tax, Employee Law, OSHA Compliance, Health and Safety Compliance, Business Insurance Compliance, and State and Local Licenses and Permits Consultant.
Your overarching goal is to ask a series of detailed, thorough, and specific questions to a business owner to identify ALL applicable laws, rules, and regulations for their business, including compliance items they might be missing or unaware of. Cover every possibility, no matter how small or large the business is.

CRITICAL INTERVIEW INSTRUCTIONS:
1. Ask ONLY ONE question at a time and wait for the owner's response before asking the next one.
2. You will NOT provide compliance advice or general explanations during this interview, but you MAY cite the specific law, rule, or regulation prompting a question.
3. Your role is purely to gather information. If an answer reveals a new potential compliance area, ask a specific follow-up question.
4. Question as exhaustively as necessary to grasp the business's operations and which local, state, and federal agencies regulate it. Adapt to the owner's apparent knowledge level.
5. When you believe you have gathered sufficient information to generate a truly comprehensive list of compliance items, explicitly state: "I believe I have enough information now. Thank you for your detailed responses. I am ready to generate your compliance dashboard." ONLY state this when you are truly finished.

Begin by asking how long the business has been operating, then, given it is a {{ .Business.LegalEntity }}, follow up on governance considerations specific to that legal structure. Subsequent questions MUST be highly relevant to the provided business details and the answers you receive; do not ask generic questions the business type rules out. Ask about previous violations, with what agency, and how they were resolved.

Here is the initial information about the business:
Business Name: {{ .Business.Name }}
Business Type: {{ .Business.Type }}
Legal Entity: {{ .Business.LegalEntity }}
Location: {{ .Business.Address.Street }}, {{ .Business.Address.City }}, {{ .Business.Address.State }}, {{ .Business.Address.Zip }}, {{ .Business.Address.Country }}
Phone: {{ .Business.Phone }}
Detailed Business Description: {{ default "No detailed description provided yet." .Business.Description }}

Before you complete your line of questioning, ask if there are any other details you have not asked about that you should consider.
Based on this information, begin by asking your first question about the business's stage and legal structure.`

// extractionPromptText requests the final structured compliance list. Each
// item must be a single distinct obligation; bundling unrelated obligations
// under one entry is explicitly forbidden.
const extractionPromptText = `Based on our entire conversation and the following business details, generate a comprehensive list of regulatory compliance items.
For each item provide: title, description, category (one of {{ join ", " .Categories }}), status (TODO or UPCOMING), dueDate (ISO 8601 date or empty), nextReviewDate (ISO 8601 date or empty), frequency (e.g. "Annually", "Quarterly", "One-time"), issuingAuthority, relevantLaws (array), requiredDocuments (array), notes, attachments (array of placeholder names), lastCompletedDate (ISO 8601 date or empty).

CRITICAL INSTRUCTION FOR OUTPUT: each item must represent a single, distinct, granular compliance requirement. Do NOT group multiple distinct requirements under one broad title. Aim for 5-10 diverse and realistic items. Respond ONLY with the structured list; no conversational text.

Business Details:
Name: {{ .Business.Name }}
Type: {{ .Business.Type }}
Description: {{ .Business.Description }}
Location: {{ .Business.Address.City }}, {{ .Business.Address.State }}
Legal Entity: {{ .Business.LegalEntity }}

Chat History Summary (for context):
{{ .HistorySummary }}`

var (
	interviewPrompt  = tmplx.MustParse("interview", interviewPromptText)
	extractionPrompt = tmplx.MustParse("extraction", extractionPromptText)
)

type promptData struct {
	Business       *models.Business
	Categories     []string
	HistorySummary string
}

func RenderInterviewPrompt(business *models.Business) (string, error) {
	buf, err := interviewPrompt.Render(promptData{Business: business})
	if err != nil {
		return "", fmt.Errorf("render interview prompt: %w", err)
	}
	return buf.String(), nil
}

func RenderExtractionPrompt(business *models.Business, history []models.ChatEntry) (string, error) {
	categories := make([]string, 0, len(models.ComplianceCategories))
	for _, c := range models.ComplianceCategories {
		categories = append(categories, string(c))
	}
	buf, err := extractionPrompt.Render(promptData{
		Business:       business,
		Categories:     categories,
		HistorySummary: summarizeHistory(history),
	})
	if err != nil {
		return "", fmt.Errorf("render extraction prompt: %w", err)
	}
	return buf.String(), nil
}

func summarizeHistory(history []models.ChatEntry) string {
	lines := make([]string, 0, len(history))
	for _, entry := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", entry.Role, entry.Text))
	}
	return strings.Join(lines, "\n")
}
