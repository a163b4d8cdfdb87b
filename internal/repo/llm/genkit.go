package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"google.golang.org/genai"

	"github.com/complyhq/complybot/internal/config"
	"github.com/complyhq/complybot/internal/models"
)

// Client wraps the generative-language endpoint. Converse returns the first
// free-text candidate; ExtractComplianceItems requests schema-constrained
// structured output.
type Client interface {
	Converse(ctx context.Context, history []models.ChatEntry) (string, error)
	ExtractComplianceItems(ctx context.Context, history []models.ChatEntry) ([]models.ComplianceDraft, error)
}

// KeySource provides the endpoint key at call time. Remote flags carry the
// primary key; the env-configured key is the fallback.
type KeySource interface {
	GetString(key string) string
}

const apiKeyFlag = "gemini_api_key"

type genkitClient struct {
	cfg  *config.Config
	keys KeySource

	initOnce sync.Once
	initErr  error
	g        *genkit.Genkit
}

func NewClient(cfg *config.Config, keys KeySource) Client {
	return &genkitClient{cfg: cfg, keys: keys}
}

// instance initializes genkit on first use so the remote-flag key is
// available by the time the first generate call happens.
func (c *genkitClient) instance(ctx context.Context) (*genkit.Genkit, error) {
	c.initOnce.Do(func() {
		apiKey := c.keys.GetString(apiKeyFlag)
		if apiKey == "" {
			apiKey = c.cfg.LLM.GoogleAIAPIKey
		}
		if apiKey == "" {
			c.initErr = fmt.Errorf("no generative endpoint key configured")
			return
		}
		c.g = genkit.Init(context.WithoutCancel(ctx), genkit.WithPlugins(&googlegenai.GoogleAI{
			APIKey: apiKey,
		}))
	})
	return c.g, c.initErr
}

func (c *genkitClient) generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.cfg.LLM.Temperature),
		TopK:        genai.Ptr(c.cfg.LLM.TopK),
		TopP:        genai.Ptr(c.cfg.LLM.TopP),
	}
}

func toMessages(history []models.ChatEntry) []*ai.Message {
	messages := make([]*ai.Message, 0, len(history))
	for _, entry := range history {
		if entry.Role == models.RoleModel {
			messages = append(messages, ai.NewModelTextMessage(entry.Text))
		} else {
			messages = append(messages, ai.NewUserTextMessage(entry.Text))
		}
	}
	return messages
}

func (c *genkitClient) Converse(ctx context.Context, history []models.ChatEntry) (string, error) {
	g, err := c.instance(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.LLM.RequestTimeout)
	defer cancel()

	response, err := genkit.Generate(ctx, g,
		ai.WithMessages(toMessages(history)...),
		ai.WithModelName(c.cfg.LLM.Model),
		ai.WithConfig(c.generationConfig()),
	)
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}

	text := strings.TrimSpace(response.Text())
	if text == "" {
		log.Warnw(ctx, "model returned empty candidate list")
		return "", models.ErrNoCandidates
	}
	return text, nil
}

func (c *genkitClient) ExtractComplianceItems(ctx context.Context, history []models.ChatEntry) ([]models.ComplianceDraft, error) {
	g, err := c.instance(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.LLM.RequestTimeout)
	defer cancel()

	drafts, _, err := genkit.GenerateData[[]models.ComplianceDraft](ctx, g,
		ai.WithMessages(toMessages(history)...),
		ai.WithModelName(c.cfg.LLM.Model),
		ai.WithConfig(c.generationConfig()),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrMalformedPayload, err)
	}
	if drafts == nil || len(*drafts) == 0 {
		return nil, models.ErrNoCandidates
	}
	return *drafts, nil
}
