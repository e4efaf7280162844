package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"workspace-service/internal/model/apperr"
)

type Config struct {
	BaseURL        string `env:"GROQ_BASE_URL" env-default:"https://api.groq.com/openai/v1"`
	APIKey         string `env:"GROQ_API_KEY"`
	Model          string `env:"GROQ_MODEL" env-default:"llama3-70b-8192"`
	TimeoutSeconds int    `env:"GROQ_TIMEOUT_SECONDS" env-default:"60"`
}

// Client ходит в chat-completions совместимый эндпоинт (Groq).
// Температура 0.3 — правки должны быть предсказуемыми.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// WithModel возвращает копию клиента с другой моделью (выбор модели в запросе чата).
func (c *Client) WithModel(model string) *Client {
	if model == "" {
		return c
	}
	clone := *c
	clone.cfg.Model = model
	return &clone
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, systemPrompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "system", Content: systemPrompt}},
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", apperr.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation returned status %d: %w",
			resp.StatusCode, apperr.ErrUpstreamUnavailable)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", apperr.ErrInvalidEditResult)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices: %w", apperr.ErrInvalidEditResult)
	}
	return parsed.Choices[0].Message.Content, nil
}

const editPromptTemplate = `You are helping edit a document. The user wants to make changes.

DOCUMENT: %s
CURRENT CONTENT:
%s

USER REQUEST: "%s"

Based on their request, provide the improved/edited version of the document.
Make the changes they asked for while keeping the document's original purpose and style.

Return ONLY the updated document content - no explanations or prefixes.`

// GenerateEdit реализует service.EditGenerator.
func (c *Client) GenerateEdit(ctx context.Context, currentContent, instruction string) (string, error) {
	prompt := fmt.Sprintf(editPromptTemplate, "", currentContent, instruction)
	result, err := c.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	result = strings.TrimSpace(result)
	if result == "" {
		return "", fmt.Errorf("generation returned empty edit: %w", apperr.ErrInvalidEditResult)
	}
	return result, nil
}

const routePromptTemplate = `You are a smart assistant. Analyze this query and determine the best action.

QUERY: "%s"
%s

Choose ONE action:
- SEARCH: Find specific information within documents
- VIEW: Show raw file content or specific sections
- EDIT: Modify, improve, or rewrite content
- ANALYZE: Answer questions about document content, summarize, explain
- CHAT: General conversation, greetings, unclear requests

For document questions like "what is this about?", "tell me about...", use ANALYZE.
For finding specific items use SEARCH.
For modifications use EDIT.

Respond with only: SEARCH, VIEW, EDIT, ANALYZE, or CHAT`

func (c *Client) RouteIntent(ctx context.Context, query, contextInfo string) (string, error) {
	result, err := c.complete(ctx, fmt.Sprintf(routePromptTemplate, query, contextInfo))
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.TrimSpace(result)), nil
}

const analyzePromptTemplate = `You are a helpful assistant analyzing a document. Be conversational, concise, and direct.

DOCUMENT: %s
CONTENT:
%s

USER QUESTION: "%s"
%s

Answer their question naturally. Keep it conversational, concise and direct.`

func (c *Client) Analyze(ctx context.Context, filename, content, query, contextInfo string) (string, error) {
	return c.complete(ctx, fmt.Sprintf(analyzePromptTemplate, filename, content, query, contextInfo))
}

const chatPromptTemplate = `You are a helpful workspace assistant. Respond naturally and conversationally.

%s

User: %s

Keep your response friendly, concise, and helpful. If they're asking about files or
documents, let them know what's available in their workspace.`

func (c *Client) ChatReply(ctx context.Context, query, contextInfo string) (string, error) {
	return c.complete(ctx, fmt.Sprintf(chatPromptTemplate, contextInfo, query))
}
