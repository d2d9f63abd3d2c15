package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"

	"mobilia/internal"
	"mobilia/internal/config"
)

// Draft is the wire shape exchanged with the model: the subset of a
// product record the model may correct or fill in.
type Draft struct {
	Name         string `json:"name"`
	Code         string `json:"code,omitempty"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

type draftBatch struct {
	Products []Draft `json:"products"`
}

const systemPrompt = "You clean up furniture catalog entries. Fix casing and obvious typos in names, " +
	"fill category and manufacturer only when clearly implied by the text, and never invent codes or prices. " +
	"Return ONLY JSON of the form {\"products\":[...]} with the same number of entries in the same order."

// Enricher batches product drafts through a chat model. It is strictly
// optional: a missing API key or any call failure leaves the input
// untouched.
type Enricher struct {
	client  *openai.Client
	cfg     config.Config
	limiter *RateLimiter
	log     *zap.Logger
}

func NewEnricher(cfg config.Config, log *zap.Logger) *Enricher {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Enricher{
		cfg:     cfg,
		limiter: NewRateLimiter(time.Duration(cfg.EnrichBatchDelayMs) * time.Millisecond),
		log:     log,
	}
	if cfg.OpenAIAPIKey != "" {
		client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		e.client = &client
	}
	return e
}

func (e *Enricher) Enabled() bool {
	return e.client != nil
}

// EnrichAll runs products through the model in fixed-size batches with a
// delay between batches. A failed batch passes through unmodified; the
// pipeline never blocks on enrichment.
func (e *Enricher) EnrichAll(ctx context.Context, products []internal.ProductRecord) []internal.ProductRecord {
	if !e.Enabled() || len(products) == 0 {
		return products
	}

	batchSize := e.cfg.EnrichBatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	out := make([]internal.ProductRecord, len(products))
	copy(out, products)

	for start := 0; start < len(out); start += batchSize {
		end := start + batchSize
		if end > len(out) {
			end = len(out)
		}
		if start > 0 {
			e.limiter.WaitTurn()
		}

		drafts, err := e.enrichBatch(ctx, out[start:end])
		if err != nil {
			e.log.Warn("enrichment batch failed, passing items through",
				zap.Int("start", start), zap.Int("size", end-start), zap.Error(err))
			continue
		}
		for i, draft := range drafts {
			applyDraft(&out[start+i], draft)
		}
	}

	return out
}

func (e *Enricher) enrichBatch(ctx context.Context, batch []internal.ProductRecord) ([]Draft, error) {
	drafts := make([]Draft, len(batch))
	for i, p := range batch {
		drafts[i] = Draft{
			Name:         p.Name,
			Code:         p.Code,
			Description:  p.Description,
			Category:     p.Category,
			Manufacturer: p.Manufacturer,
		}
	}
	payload, err := json.Marshal(draftBatch{Products: drafts})
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.EnrichTimeoutMs)*time.Millisecond)
	defer cancel()

	chat, err := e.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(string(payload)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
		Model: e.cfg.OpenAIModel,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, errors.New("openai: empty choices")
	}

	var response draftBatch
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &response); err != nil {
		return nil, fmt.Errorf("unmarshal model output: %w", err)
	}
	if len(response.Products) != len(batch) {
		return nil, fmt.Errorf("model returned %d entries for a batch of %d", len(response.Products), len(batch))
	}
	return response.Products, nil
}

// applyDraft copies model output back, keeping the original value wherever
// the model blanked a field.
func applyDraft(p *internal.ProductRecord, d Draft) {
	if d.Name != "" {
		p.Name = d.Name
	}
	if d.Description != "" {
		p.Description = d.Description
	}
	if d.Category != "" {
		p.Category = d.Category
	}
	if d.Manufacturer != "" {
		p.Manufacturer = d.Manufacturer
	}
}
