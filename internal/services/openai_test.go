package services

import (
	"context"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sightreel/sightreel/internal/models"
)

// fakeChatCompleter replays canned responses and records every request.
type fakeChatCompleter struct {
	responses []string
	requests  []openai.ChatCompletionRequest
}

func (f *fakeChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	idx := len(f.requests) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.responses[idx]}},
		},
	}, nil
}

func wordsOfLength(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestGenerateScriptInBand(t *testing.T) {
	fake := &fakeChatCompleter{responses: []string{wordsOfLength(90)}}
	svc := &OpenAIService{client: fake}

	script, err := svc.GenerateScript(context.Background(), "Fun Facts", models.VideoLengthShort)
	if err != nil {
		t.Fatalf("GenerateScript failed: %v", err)
	}

	if len(fake.requests) != 1 {
		t.Errorf("expected 1 request for in-band script, got %d", len(fake.requests))
	}
	if CountWords(script) != 90 {
		t.Errorf("expected 90 words, got %d", CountWords(script))
	}
	if fake.requests[0].MaxTokens != 400 {
		t.Errorf("expected 400 max tokens for short video, got %d", fake.requests[0].MaxTokens)
	}
	if fake.requests[0].Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", fake.requests[0].Temperature)
	}
}

func TestGenerateScriptTooLongRetriesOnce(t *testing.T) {
	// 111 words is one over the short video's 90+20 ceiling.
	fake := &fakeChatCompleter{responses: []string{wordsOfLength(111), wordsOfLength(95)}}
	svc := &OpenAIService{client: fake}

	script, err := svc.GenerateScript(context.Background(), "anything", models.VideoLengthShort)
	if err != nil {
		t.Fatalf("GenerateScript failed: %v", err)
	}

	if len(fake.requests) != 2 {
		t.Fatalf("expected exactly 2 requests (initial + retry), got %d", len(fake.requests))
	}
	if CountWords(script) != 95 {
		t.Errorf("expected retry script (95 words), got %d words", CountWords(script))
	}

	retry := fake.requests[1]
	if retry.Temperature != 0.5 {
		t.Errorf("retry temperature = %v, want 0.5", retry.Temperature)
	}
	if retry.MaxTokens != 300 {
		t.Errorf("retry max tokens = %d, want 300 for short video", retry.MaxTokens)
	}
}

func TestGenerateScriptRetryStillLongIsAccepted(t *testing.T) {
	fake := &fakeChatCompleter{responses: []string{wordsOfLength(250), wordsOfLength(230)}}
	svc := &OpenAIService{client: fake}

	script, err := svc.GenerateScript(context.Background(), "anything", models.VideoLengthLong)
	if err != nil {
		t.Fatalf("GenerateScript failed: %v", err)
	}

	// Only one retry ever happens; the still-too-long output is kept whole.
	if len(fake.requests) != 2 {
		t.Errorf("expected 2 requests, got %d", len(fake.requests))
	}
	if CountWords(script) != 230 {
		t.Errorf("expected full 230-word retry script, got %d words", CountWords(script))
	}
}

func TestGenerateScriptTooShortNeverRetries(t *testing.T) {
	fake := &fakeChatCompleter{responses: []string{wordsOfLength(40)}}
	svc := &OpenAIService{client: fake}

	script, err := svc.GenerateScript(context.Background(), "anything", models.VideoLengthShort)
	if err != nil {
		t.Fatalf("GenerateScript failed: %v", err)
	}

	if len(fake.requests) != 1 {
		t.Errorf("short scripts must not trigger regeneration, got %d requests", len(fake.requests))
	}
	if CountWords(script) != 40 {
		t.Errorf("expected 40-word script returned as-is, got %d", CountWords(script))
	}
}

func TestScriptSystemPromptTemplateMatch(t *testing.T) {
	prompt := scriptSystemPrompt("fun facts")
	if !strings.Contains(prompt, "5–7 surprising fun facts") {
		t.Errorf("case-insensitive topic should select the Fun Facts template")
	}
	if !strings.Contains(prompt, "DO NOT use screenplay format") {
		t.Errorf("template prompts must carry the strict style rules")
	}

	if got := scriptSystemPrompt("the fall of rome"); got != defaultScriptPrompt {
		t.Errorf("unmatched topic should use the default prompt")
	}
}

func TestCountWords(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"  two   words  ", 2},
		{"line\nbreaks\tand spaces", 4},
	}

	for _, tc := range cases {
		if got := CountWords(tc.text); got != tc.want {
			t.Errorf("CountWords(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestTargetWordCount(t *testing.T) {
	if got := TargetWordCount(models.VideoLengthShort); got != 90 {
		t.Errorf("short target = %d, want 90", got)
	}
	if got := TargetWordCount(models.VideoLengthLong); got != 180 {
		t.Errorf("long target = %d, want 180", got)
	}
}
