package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/edgarintel/pipeline/internal/logger"
	"github.com/edgarintel/pipeline/internal/trace"
)

// OpenAI is the go-openai-backed TextAnalyzer. Retry/backoff is grounded on
// the adamtc007-KYC-DSL embedder's attempt loop, generalized from
// embeddings to chat completions; request/response logging follows the
// teacher's internal/llm/openai.OpenAIDecider.
type OpenAI struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	maxRetries  int
	retryDelay  time.Duration
}

// NewOpenAI constructs an OpenAI-backed analyzer. apiKey must be non-empty;
// callers should fall back to Noop when it's not configured (spec.md §6.5).
func NewOpenAI(apiKey, model string, maxTokens int, temperature float64, maxRetries int) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &OpenAI{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
		maxRetries:  maxRetries,
		retryDelay:  2 * time.Second,
	}
}

// Analyze sends prompt as a single user message and returns the raw
// response content, retrying transient failures up to maxRetries times.
func (o *OpenAI) Analyze(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "analyzer-openai-analyze")
	defer span.End()

	var lastErr error
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug(ctx, "analyzer: retrying OpenAI call", "attempt", attempt, "max_retries", o.maxRetries)
			time.Sleep(o.retryDelay)
		}

		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: "You extract structured data from SEC filings. Respond ONLY with compact JSON."},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: o.temperature,
			MaxTokens:   o.maxTokens,
		})
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("analyzer: empty choices from OpenAI")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}

	logger.ErrorWithErr(ctx, "analyzer: OpenAI call failed after retries", lastErr, "max_retries", o.maxRetries)
	return "", fmt.Errorf("analyzer: failed after %d attempts: %w", o.maxRetries+1, lastErr)
}

func (o *OpenAI) ExtractOwnership(ctx context.Context, html string) (OwnershipResponse, error) {
	prompt := fmt.Sprintf(`Extract beneficial ownership records from this filing excerpt as JSON
{"records":[{"owner_name":"","owner_type":"person|company","shares":0,"percentage":0,"raw_text":""}],"confidence":0.0}.
Excerpt:
%s`, truncatePrompt(html))

	raw, err := o.Analyze(ctx, prompt)
	if err != nil {
		return OwnershipResponse{}, err
	}

	var parsed struct {
		Records []struct {
			OwnerName  string  `json:"owner_name"`
			OwnerType  string  `json:"owner_type"`
			Shares     float64 `json:"shares"`
			Percentage float64 `json:"percentage"`
			RawText    string  `json:"raw_text"`
		} `json:"records"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return OwnershipResponse{}, fmt.Errorf("analyzer: malformed ownership response: %w", err)
	}

	out := OwnershipResponse{Confidence: parsed.Confidence}
	for _, r := range parsed.Records {
		out.Records = append(out.Records, OwnershipRecordDTO{
			OwnerName:  r.OwnerName,
			OwnerType:  r.OwnerType,
			Shares:     r.Shares,
			Percentage: r.Percentage,
			RawText:    r.RawText,
		})
	}
	return out, nil
}

func (o *OpenAI) ExtractSubsidiary(ctx context.Context, html string) (SubsidiaryResponse, error) {
	prompt := fmt.Sprintf(`Extract subsidiary entries from this Exhibit 21 excerpt as JSON
{"records":[{"name":"","jurisdiction":"","is_wholly_owned":false,"raw_text":""}],"confidence":0.0}.
Excerpt:
%s`, truncatePrompt(html))

	raw, err := o.Analyze(ctx, prompt)
	if err != nil {
		return SubsidiaryResponse{}, err
	}

	var parsed struct {
		Records []struct {
			Name          string `json:"name"`
			Jurisdiction  string `json:"jurisdiction"`
			IsWhollyOwned bool   `json:"is_wholly_owned"`
			RawText       string `json:"raw_text"`
		} `json:"records"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return SubsidiaryResponse{}, fmt.Errorf("analyzer: malformed subsidiary response: %w", err)
	}

	out := SubsidiaryResponse{Confidence: parsed.Confidence}
	for _, r := range parsed.Records {
		out.Records = append(out.Records, SubsidiaryRecordDTO{
			Name:          r.Name,
			Jurisdiction:  r.Jurisdiction,
			IsWhollyOwned: r.IsWhollyOwned,
			RawText:       r.RawText,
		})
	}
	return out, nil
}

func (o *OpenAI) ExtractOfficer(ctx context.Context, html string) (OfficerResponse, error) {
	prompt := fmt.Sprintf(`Extract officer and director records from this proxy-statement excerpt as JSON
{"records":[{"name":"","title":"","age":0,"is_officer":false,"is_director":false,"is_executive":false,"raw_text":""}],"confidence":0.0}.
Excerpt:
%s`, truncatePrompt(html))

	raw, err := o.Analyze(ctx, prompt)
	if err != nil {
		return OfficerResponse{}, err
	}

	var parsed struct {
		Records []struct {
			Name        string `json:"name"`
			Title       string `json:"title"`
			Age         int    `json:"age"`
			IsOfficer   bool   `json:"is_officer"`
			IsDirector  bool   `json:"is_director"`
			IsExecutive bool   `json:"is_executive"`
			RawText     string `json:"raw_text"`
		} `json:"records"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return OfficerResponse{}, fmt.Errorf("analyzer: malformed officer response: %w", err)
	}

	out := OfficerResponse{Confidence: parsed.Confidence}
	for _, r := range parsed.Records {
		out.Records = append(out.Records, OfficerRecordDTO{
			Name:        r.Name,
			Title:       r.Title,
			Age:         r.Age,
			IsOfficer:   r.IsOfficer,
			IsDirector:  r.IsDirector,
			IsExecutive: r.IsExecutive,
			RawText:     r.RawText,
		})
	}
	return out, nil
}

func (o *OpenAI) ExtractEvent(ctx context.Context, itemText string) (EventResponse, error) {
	prompt := fmt.Sprintf(`Summarize this 8-K item text as JSON
{"summary":"","agreement_type":"","parties":[],"key_terms":[],"forward_looking":"","market_implications":"","confidence":0.0}.
Item text:
%s`, truncatePrompt(itemText))

	raw, err := o.Analyze(ctx, prompt)
	if err != nil {
		return EventResponse{}, err
	}

	var parsed EventResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return EventResponse{}, fmt.Errorf("analyzer: malformed event response: %w", err)
	}
	return parsed, nil
}

func truncatePrompt(s string) string {
	const maxChars = 8000
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars])
}
