package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"
	"google.golang.org/genai"

	"github.com/lexihelp/lexi-server/internal/config"
	"github.com/lexihelp/lexi-server/internal/llm"
	"github.com/lexihelp/lexi-server/internal/metrics"
)

// ErrMissingAPIKey is returned when no Gemini API key is configured.
var ErrMissingAPIKey = errors.New("missing gemini api key")

// FallbackText is returned by Invoke when the model call fails.
const FallbackText = "Sorry, I couldn't process that request."

const judgeInstruction = "Read the handwritten word in this image. Reply with ONLY the word, no explanation."

// Client calls the Gemini API.
type Client struct {
	cfg       *config.Config
	metrics   *metrics.Store
	logger    *slog.Logger
	mu        sync.Mutex
	clients   map[string]*genai.Client
	apiKeys   []string
	apiKeyIdx int
}

// NewClient creates a Gemini client.
func NewClient(cfg *config.Config, metricsStore *metrics.Store, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	return &Client{
		cfg:     cfg,
		metrics: metricsStore,
		logger:  logger,
		clients: make(map[string]*genai.Client),
		apiKeys: cfg.Gemini.APIKeys,
	}, nil
}

// Invoke runs a multimodal generation and always returns usable text.
func (c *Client) Invoke(ctx context.Context, parts []llm.ContentPart, prompt string) string {
	start := time.Now()
	response, err := c.generate(ctx, parts, prompt, "")
	if err != nil {
		c.metrics.RecordError(time.Since(start))
		if c.logger != nil {
			c.logger.Error("gemini_invoke_failed", "err", err)
		}
		return FallbackText
	}

	c.metrics.RecordSuccess(time.Since(start), extractUsage(response))

	text := strings.TrimSpace(response.Text())
	if text == "" {
		return FallbackText
	}
	return text
}

// Judge asks the judge model to transcribe a handwritten word and
// compares it with the expected word. Errors propagate to the caller.
func (c *Client) Judge(ctx context.Context, image llm.ContentPart, expected string) (bool, string, error) {
	start := time.Now()
	response, err := c.generate(ctx, []llm.ContentPart{image}, judgeInstruction, "judge")
	if err != nil {
		c.metrics.RecordError(time.Since(start))
		return false, "", fmt.Errorf("judge word: %w", err)
	}

	c.metrics.RecordSuccess(time.Since(start), extractUsage(response))

	transcript := strings.TrimSpace(response.Text())
	correct := normalizeWord(transcript) == normalizeWord(expected)
	return correct, transcript, nil
}

func (c *Client) generate(
	ctx context.Context,
	parts []llm.ContentPart,
	prompt string,
	task string,
) (*genai.GenerateContentResponse, error) {
	client, err := c.selectClient(ctx)
	if err != nil {
		return nil, err
	}

	model := c.cfg.Gemini.ModelForTask(task)
	response, err := client.Models.GenerateContent(
		ctx,
		model,
		buildContents(parts, prompt),
		c.buildGenerateConfig(),
	)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return response, nil
}

func (c *Client) selectClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.apiKeys) == 0 {
		return nil, ErrMissingAPIKey
	}

	key := c.apiKeys[c.apiKeyIdx%len(c.apiKeys)]
	c.apiKeyIdx++
	if client, ok := c.clients[key]; ok {
		return client, nil
	}

	timeout := time.Duration(c.cfg.Gemini.TimeoutSeconds) * time.Second
	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(timeout),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.clients[key] = client
	return client, nil
}

func (c *Client) buildGenerateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.cfg.Gemini.Temperature)),
		MaxOutputTokens: int32(c.cfg.Gemini.MaxOutputTokens),
	}
}

func buildContents(parts []llm.ContentPart, prompt string) []*genai.Content {
	genParts := make([]*genai.Part, 0, len(parts)+1)
	for _, part := range parts {
		if part.IsText() {
			if strings.TrimSpace(part.Text) == "" {
				continue
			}
			genParts = append(genParts, genai.NewPartFromText(part.Text))
			continue
		}
		genParts = append(genParts, genai.NewPartFromBytes(part.Data, part.MIMEType))
	}
	if strings.TrimSpace(prompt) != "" {
		genParts = append(genParts, genai.NewPartFromText(prompt))
	}
	return []*genai.Content{genai.NewContentFromParts(genParts, genai.RoleUser)}
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(word)))
}

func extractUsage(response *genai.GenerateContentResponse) llm.Usage {
	if response == nil || response.UsageMetadata == nil {
		return llm.Usage{}
	}
	usage := response.UsageMetadata
	return llm.Usage{
		InputTokens:  int(usage.PromptTokenCount),
		OutputTokens: int(usage.CandidatesTokenCount),
		TotalTokens:  int(usage.TotalTokenCount),
	}
}
