// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package aigen drafts tips from video URLs using an AI model. Drafts are
// never published directly; they prefill the admin form for review.
package aigen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/olegiv/tipstack/internal/model"
)

// Draft size limits enforced on model output before it reaches the form.
const (
	maxTitleLength       = 120
	maxDescriptionLength = 2000
	maxSteps             = 20
	maxTags              = 10
)

// completer abstracts the chat completion call for testing.
type completer interface {
	complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator drafts tips from video URLs.
type Generator struct {
	completer completer
}

// New creates a Generator backed by the OpenAI API.
func New(apiKey string) *Generator {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Generator{completer: &openaiCompleter{client: client}}
}

// openaiCompleter calls the OpenAI chat completions API.
type openaiCompleter struct {
	client openai.Client
}

func (c *openaiCompleter) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4oMini,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// generatedTip is the JSON shape the model is asked to produce.
type generatedTip struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	Tags        []string `json:"tags"`
}

const systemPrompt = `You are an editor for a life-hack tips site. Given a video URL, write a tip that captures the hack the video demonstrates.

You must respond with a valid JSON object (no markdown code fences, no extra text) with exactly these fields:

{
  "title": "A short, practical title (under 100 characters)",
  "description": "One or two paragraphs explaining what the hack does and when to use it (under 1500 characters)",
  "steps": ["First step", "Second step", "..."],
  "tags": ["lowercase", "tags"]
}

Important rules:
- 2 to 10 steps, each a single imperative sentence
- 3 to 8 lowercase tags, no # prefix
- Plain text only, no HTML or markdown
- Respond ONLY with the JSON object, no other text`

// GenerateFromVideo drafts a tip for the given video URL.
func (g *Generator) GenerateFromVideo(ctx context.Context, videoURL string) (model.TipInput, error) {
	userPrompt := fmt.Sprintf("Video URL: %s\n\nDraft a tip for this video.", videoURL)

	response, err := g.completer.complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return model.TipInput{}, err
	}

	draft, err := parseGeneratedTip(response)
	if err != nil {
		return model.TipInput{}, err
	}

	input := model.TipInput{
		Title:       draft.Title,
		Description: draft.Description,
		VideoURL:    videoURL,
		Tags:        draft.Tags,
	}
	for i, step := range draft.Steps {
		input.Steps = append(input.Steps, model.TipStep{StepNumber: i + 1, Description: step})
	}
	return input, nil
}

// parseGeneratedTip extracts and validates the JSON from the model response.
// Models sometimes wrap JSON in code fences or prose despite instructions,
// so parsing falls back to the outermost brace window.
func parseGeneratedTip(response string) (*generatedTip, error) {
	draft := &generatedTip{}
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	if err := json.Unmarshal([]byte(cleaned), draft); err != nil {
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start >= 0 && end > start {
			if err2 := json.Unmarshal([]byte(response[start:end+1]), draft); err2 != nil {
				return nil, fmt.Errorf("could not parse JSON from response: %w (original: %w)", err2, err)
			}
		} else {
			return nil, fmt.Errorf("no JSON found in response: %w", err)
		}
	}

	return draft, validateDraft(draft)
}

func validateDraft(draft *generatedTip) error {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)

	if draft.Title == "" || draft.Description == "" {
		return fmt.Errorf("incomplete draft: title and description are required")
	}
	draft.Title = truncateRunes(draft.Title, maxTitleLength)
	draft.Description = truncateRunes(draft.Description, maxDescriptionLength)

	var steps []string
	for _, s := range draft.Steps {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	if len(steps) == 0 {
		return fmt.Errorf("incomplete draft: at least one step is required")
	}
	if len(steps) > maxSteps {
		steps = steps[:maxSteps]
	}
	draft.Steps = steps

	var tags []string
	for _, t := range draft.Tags {
		t = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(t, "#")))
		if t != "" {
			tags = append(tags, t)
		}
		if len(tags) == maxTags {
			break
		}
	}
	draft.Tags = tags

	return nil
}

// truncateRunes caps s at max runes so a cut never splits a multi-byte
// character.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
