// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package aigen

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) complete(_ context.Context, _, _ string) (string, error) {
	return f.response, f.err
}

const validResponse = `{"title":"Sharpen scissors with foil","description":"Fold aluminum foil and cut through it a few times.","steps":["Fold a sheet of foil into six layers","Cut through the folded foil ten times"],"tags":["kitchen","scissors"]}`

func TestGenerateFromVideo(t *testing.T) {
	g := &Generator{completer: &fakeCompleter{response: validResponse}}

	draft, err := g.GenerateFromVideo(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("GenerateFromVideo: %v", err)
	}
	if draft.Title != "Sharpen scissors with foil" {
		t.Errorf("Title = %q", draft.Title)
	}
	if draft.VideoURL != "https://youtu.be/abc" {
		t.Errorf("VideoURL = %q, want the input URL carried over", draft.VideoURL)
	}
	if len(draft.Steps) != 2 || draft.Steps[0].StepNumber != 1 || draft.Steps[1].StepNumber != 2 {
		t.Errorf("Steps = %+v", draft.Steps)
	}
}

func TestGenerateFromVideo_CompleterError(t *testing.T) {
	g := &Generator{completer: &fakeCompleter{err: errors.New("rate limited")}}

	if _, err := g.GenerateFromVideo(context.Background(), "https://youtu.be/abc"); err == nil {
		t.Error("expected error")
	}
}

func TestParseGeneratedTip_CodeFences(t *testing.T) {
	draft, err := parseGeneratedTip("```json\n" + validResponse + "\n```")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if draft.Title == "" {
		t.Error("title lost in fence stripping")
	}
}

func TestParseGeneratedTip_ProseWrapped(t *testing.T) {
	draft, err := parseGeneratedTip("Here is your tip:\n" + validResponse + "\nLet me know if you need changes.")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if draft.Title != "Sharpen scissors with foil" {
		t.Errorf("Title = %q", draft.Title)
	}
}

func TestParseGeneratedTip_NoJSON(t *testing.T) {
	if _, err := parseGeneratedTip("I cannot access video content."); err == nil {
		t.Error("expected error for non-JSON response")
	}
}

func TestParseGeneratedTip_MissingSteps(t *testing.T) {
	if _, err := parseGeneratedTip(`{"title":"T","description":"D","steps":[],"tags":[]}`); err == nil {
		t.Error("expected error for draft without steps")
	}
}

func TestValidateDraft_Limits(t *testing.T) {
	draft := &generatedTip{
		Title:       strings.Repeat("a", 300),
		Description: strings.Repeat("b", 5000),
		Steps:       make([]string, 0, 30),
		Tags:        make([]string, 0, 20),
	}
	for i := 0; i < 30; i++ {
		draft.Steps = append(draft.Steps, "step")
	}
	for i := 0; i < 20; i++ {
		draft.Tags = append(draft.Tags, "#Tag")
	}

	if err := validateDraft(draft); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(draft.Title) != maxTitleLength {
		t.Errorf("title length = %d", len(draft.Title))
	}
	if len(draft.Description) != maxDescriptionLength {
		t.Errorf("description length = %d", len(draft.Description))
	}
	if len(draft.Steps) != maxSteps {
		t.Errorf("steps = %d", len(draft.Steps))
	}
	if len(draft.Tags) != maxTags {
		t.Errorf("tags = %d", len(draft.Tags))
	}
	if draft.Tags[0] != "tag" {
		t.Errorf("tag = %q, want lowercased without #", draft.Tags[0])
	}
}

func TestValidateDraft_TruncatesOnRuneBoundary(t *testing.T) {
	draft := &generatedTip{
		Title:       strings.Repeat("é", 300),
		Description: strings.Repeat("日", 5000),
		Steps:       []string{"step"},
	}

	if err := validateDraft(draft); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !utf8.ValidString(draft.Title) {
		t.Error("title truncation produced invalid UTF-8")
	}
	if got := utf8.RuneCountInString(draft.Title); got != maxTitleLength {
		t.Errorf("title runes = %d, want %d", got, maxTitleLength)
	}
	if !utf8.ValidString(draft.Description) {
		t.Error("description truncation produced invalid UTF-8")
	}
	if got := utf8.RuneCountInString(draft.Description); got != maxDescriptionLength {
		t.Errorf("description runes = %d, want %d", got, maxDescriptionLength)
	}
}
