package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sightreel/sightreel/internal/models"
)

// chatCompleter is the slice of the OpenAI client the service needs.
// *openai.Client satisfies it; tests substitute a fake.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIService struct {
	client chatCompleter
}

func NewOpenAIService(apiKey string) *OpenAIService {
	return &OpenAIService{
		client: openai.NewClient(apiKey),
	}
}

// Target word counts per video length, with the accepted band of ±20.
const (
	shortScriptWords = 90
	longScriptWords  = 180
	wordCountBand    = 20
)

// scriptTemplates maps well-known topics (matched case-insensitively)
// to tailored narration instructions. Topics outside this set use
// defaultScriptPrompt.
var scriptTemplates = map[string]string{
	"True stories":        "Write a single detailed narration script about the given topic. Focus on ONE coherent story with a clear beginning, middle, and end. Elaborate on the emotions, setting, and events to make it immersive. Do not list multiple short stories — focus on one. Keep sentences clear and natural, suitable for voiceover. Write the story about famous, historical figures, past or present, that made an impact on the world.",
	"Bedtime stories":     "Write a calming and imaginative bedtime story suitable for children. Use gentle language, magical or whimsical settings, and end with a peaceful resolution. Keep the tone soothing and relaxing.",
	"What If?":            "Write a narration script that explores a single intriguing 'what if' scenario in detail. Explain the consequences step by step, mix in speculation and logical reasoning, and keep it engaging as if explaining to a curious audience.",
	"Spooky stories":      "Write a scary narration script that tells one eerie story with suspense, atmosphere, and twists. Use vivid, chilling descriptions to create tension, but keep it suitable for general YouTube audiences.",
	"Motivational":        "Write a motivational narration script that inspires the audience. Use a strong, uplifting tone, include rhetorical questions, relatable struggles, and powerful takeaways that encourage action and positivity.",
	"Urban Legends":       "Write a narration script about a famous urban legend. Explain the story in detail, its origins, and why it became popular. Build suspense while telling the legend as if narrating to an intrigued audience.",
	"Fun Facts":           "Write a narration script that lists 5–7 surprising fun facts about the topic. Each fact should be explained in one or two sentences, with engaging transitions between them.",
	"Educational":         "Write an educational narration script that explains the topic clearly and simply. Use analogies, examples, and engaging storytelling to make learning fun and easy to follow.",
	"Sci-fi":              "Cool sci fi story. Can also talk about what ifs. Describe the scenario immersively.",
	"Life pro tips":       "Write a narration script that shares 5–7 practical life tips. Each tip should be explained briefly but clearly, showing how it helps in real life. Keep the tone conversational and helpful.",
	"Interesting History": "Write a narration script about one fascinating historical event. Describe the context, key figures, dramatic moments, and its impact on the world, using storytelling to make it vivid and engaging.",
}

const baseStrictRule = `
IMPORTANT: You MUST follow the word count EXACTLY.
This rule overrides creativity, storytelling, and style.
Count every word carefully. CRITICAL STYLE RULES:
- DO NOT use screenplay format.
- DO NOT include [FADE IN], [CUT TO], [DISSOLVE TO], or any bracketed stage directions.
- DO NOT write camera movements or scene transitions.
- DO NOT use NARRATOR (V.O).
- Write as a natural spoken narration, like a YouTube storyteller.
- No brackets, no labels, no scene headings, no screenplay cues.
This rule overrides creativity, formatting, and style.
`

const defaultScriptPrompt = "You are a script writer for educational, interesting videos. Write engaging narration scripts. \n\nTone: engaging, conversational, and energetic, as if speaking directly to an audience on YouTube. Make it feel like natural storytelling, flowing from one point to the next. The script MUST follow the word count EXACTLY. This rule is more important than creativity or storytelling."

const safetyRule = "\n\nIMPORTANT: Create content that is safe for all audiences. Avoid any content involving violence, adult themes, hate speech, or controversial topics. Keep the content educational, entertaining, and family-friendly."

// TargetWordCount returns the word budget for a video length.
func TargetWordCount(length models.VideoLength) int {
	if length == models.VideoLengthShort {
		return shortScriptWords
	}
	return longScriptWords
}

// CountWords counts whitespace-separated words after trimming.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// scriptSystemPrompt picks the topic template (case-insensitive match)
// or falls back to the generic narration prompt.
func scriptSystemPrompt(topic string) string {
	for key, template := range scriptTemplates {
		if strings.EqualFold(key, topic) {
			log.Printf("[OpenAI script] Using template: %s", key)
			return template + "\n\n" + baseStrictRule
		}
	}
	return defaultScriptPrompt
}

// GenerateScript produces narration text targeting the length's word
// budget. Scripts over target+20 words trigger exactly one stricter,
// lower-temperature retry; the retry's output is accepted even when
// still over budget (no truncation, to preserve narrative flow).
// Too-short scripts are never regenerated.
func (s *OpenAIService) GenerateScript(ctx context.Context, topic string, length models.VideoLength) (string, error) {
	target := TargetWordCount(length)
	isShort := length == models.VideoLengthShort

	videoDuration := "90-second"
	maxTokens := 600
	if isShort {
		videoDuration = "45-second"
		maxTokens = 400
	}

	systemPrompt := scriptSystemPrompt(topic)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt + safetyRule,
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(
					"Write a narration script about %s, for a %s video. The script must be EXACTLY %d words (±10 words maximum). Count your words carefully and ensure the final script is between %d and %d words. Ensure the content is family-friendly and safe for all audiences.",
					topic, videoDuration, target, target-10, target+10,
				),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("script generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("script generation returned no choices")
	}

	script := resp.Choices[0].Message.Content
	words := CountWords(script)
	maxWords := target + wordCountBand

	log.Printf("[OpenAI script] Word count: %d (target: %d, range: %d-%d)",
		words, target, target-wordCountBand, maxWords)

	if words <= maxWords {
		return script, nil
	}

	// One retry with a stricter prompt, lower temperature, and a tighter
	// token budget. Too-short scripts never reach this path.
	log.Printf("[OpenAI script] Script too long (%d words), regenerating with stricter word limit...", words)

	retryTokens := 500
	if isShort {
		retryTokens = 300
	}

	retryResp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt + "\n\nCRITICAL: You must write scripts that are EXACTLY the specified word count. Count every word carefully.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(
					"Write a narration script about %s, for a %s video. The script must be EXACTLY %d words (±5 words maximum). This is a strict requirement - count your words and ensure the final script is between %d and %d words.",
					topic, videoDuration, target, target-wordCountBand, maxWords,
				),
			},
		},
		MaxTokens:   retryTokens,
		Temperature: 0.5,
	})
	if err != nil {
		return "", fmt.Errorf("script regeneration failed: %w", err)
	}
	if len(retryResp.Choices) == 0 {
		return "", fmt.Errorf("script regeneration returned no choices")
	}

	script = retryResp.Choices[0].Message.Content
	if retryWords := CountWords(script); retryWords > maxWords {
		log.Printf("[OpenAI script] Script still too long after retry (%d words), keeping full script to preserve content flow", retryWords)
	}

	return script, nil
}

// RewriteVisualPrompt turns scene narration into a literal, drawable
// image prompt, stripping abstract or emotional content the image
// provider cannot render.
func (s *OpenAIService) RewriteVisualPrompt(ctx context.Context, narration string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "Rewrite the user's narration into a highly detailed, VISUAL image prompt. Focus ONLY on what can be drawn. Remove abstract ideas, emotions, metaphors, or backstory unless visually representable. Make it suitable for Stable Diffusion. Include: characters, setting, lighting, location, camera angle, atmosphere. Keep it literal and visual.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: narration,
			},
		},
		MaxTokens:   150,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("visual prompt rewrite failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("visual prompt rewrite returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
