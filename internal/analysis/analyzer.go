// Package analysis wraps the Anthropic Messages API for the structured
// critical-thinking analysis and the grounded follow-up chat. Both calls
// are thin pass-throughs around the extraction artifact; all extraction
// logic lives upstream in the extractor package.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"sift/internal/config"
	"sift/internal/extractor"
)

const (
	analysisMaxTokens = 4096
	chatMaxTokens     = 1024

	// chatContentLimit caps the grounding content embedded in the chat
	// system prompt.
	chatContentLimit = 10000
)

const analysisSystemPrompt = `You are a world-class critical thinking expert. Analyze the following content and return a structured JSON assessment.

Your analysis must include:
1. A concise summary (2-3 sentences)
2. Speaker/author reliability assessment with a score 0-100, an assessment paragraph, and key factors
3. Logical fallacies found — for each: name, explanation of why it's a fallacy, direct quote, severity (high/medium/low)
4. Rhetorical tricks used — for each: name, explanation, direct quote
5. Overall credibility score 0-100 with explanation
6. Key takeaways (3-5 bullet points of what's actually true/useful)
7. "How to avoid" — pairs of { mistake, advice } teaching the reader how to spot these issues

Be thorough but fair. Not all content is misleading — if the content is well-reasoned, say so. Score honestly.

Return ONLY valid JSON matching this exact schema (no markdown, no code fences):
{
  "summary": "string",
  "speakerReliability": { "score": number, "assessment": "string", "factors": ["string"] },
  "fallacies": [{ "name": "string", "explanation": "string", "quote": "string", "severity": "high|medium|low" }],
  "rhetoricalTricks": [{ "name": "string", "explanation": "string", "quote": "string" }],
  "credibilityScore": number,
  "credibilityExplanation": "string",
  "keyTakeaways": ["string"],
  "howToAvoid": [{ "mistake": "string", "advice": "string" }]
}`

// Analyzer holds the Anthropic client and model selection.
type Analyzer struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnalyzer creates an Analyzer from the application configuration.
func NewAnalyzer(appConfig *config.AppConfig) *Analyzer {
	return &Analyzer{
		client: anthropic.NewClient(option.WithAPIKey(appConfig.AnthropicAPIKey)),
		model:  anthropic.Model(appConfig.AnthropicModel),
	}
}

// Analyze runs one analysis call over the extraction artifact and coerces
// the model output to a ContentAnalysis.
func (a *Analyzer) Analyze(ctx context.Context, content *extractor.ContentExtraction) (*ContentAnalysis, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: analysisMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: analysisSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildAnalysisMessage(content))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		}
	}

	result, err := CoerceAnalysis(text.String())
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BuildAnalysisMessage renders the artifact as the user turn of the
// analysis call.
func BuildAnalysisMessage(content *extractor.ContentExtraction) string {
	contentType := "Article"
	if content.ContentType == extractor.ContentTypeYouTube {
		contentType = "YouTube Video Transcript"
	}

	lines := []string{
		"Content Type: " + contentType,
		"Title: " + content.Title,
	}
	if content.Author != "" {
		lines = append(lines, "Author/Speaker: "+content.Author)
	}
	lines = append(lines, "\n--- CONTENT ---\n"+content.Text)
	return strings.Join(lines, "\n")
}

// CoerceAnalysis parses the model output into a ContentAnalysis. Direct
// unmarshal is tried first; if the model wrapped the JSON in prose or code
// fences, the outermost object is extracted and parsed instead.
func CoerceAnalysis(text string) (*ContentAnalysis, error) {
	var result ContentAnalysis
	if err := json.Unmarshal([]byte(text), &result); err == nil {
		return &result, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("failed to parse analysis response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	return &result, nil
}

// BuildChatSystemPrompt embeds the extraction artifact as the grounding
// context of the chat call, capped at chatContentLimit characters.
func BuildChatSystemPrompt(content *extractor.ContentExtraction) string {
	contentType := "Article"
	if content.ContentType == extractor.ContentTypeYouTube {
		contentType = "YouTube Video"
	}

	text := content.Text
	if runes := []rune(text); len(runes) > chatContentLimit {
		text = string(runes[:chatContentLimit])
	}

	var b strings.Builder
	b.WriteString("You are a Socratic critical thinking co-pilot. The user has just analyzed the following content and may have follow-up questions.\n\n")
	b.WriteString("Content Type: " + contentType + "\n")
	b.WriteString("Title: " + content.Title + "\n")
	if content.Author != "" {
		b.WriteString("Author/Speaker: " + content.Author + "\n")
	}
	b.WriteString("\n--- CONTENT ---\n")
	b.WriteString(text)
	b.WriteString("\n--- END CONTENT ---\n\n")
	b.WriteString(`Guidelines:
- Help the user think critically about this content
- When they ask questions, guide them to reason through the answer rather than just giving it
- Point out nuances, counterarguments, and things they might be missing
- If they ask about claims, help them evaluate evidence quality
- Be concise and conversational — this is a chat, not an essay
- Use specific quotes from the content when relevant`)
	return b.String()
}

// ChatStream relays the model's answer token by token through onText. The
// relay stops when ctx is cancelled; cancellation never affects extraction
// state, which completed before the chat began.
func (a *Analyzer) ChatStream(ctx context.Context, content *extractor.ContentExtraction, messages []ChatMessage, onText func(string) error) error {
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: chatMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: BuildChatSystemPrompt(content)}},
		Messages:  buildChatTurns(messages),
	}

	stream := a.client.Messages.NewStreaming(ctx, params)
	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if err := onText(delta.Text); err != nil {
					return err
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("chat stream failed: %w", err)
	}
	return nil
}

func buildChatTurns(messages []ChatMessage) []anthropic.MessageParam {
	turns := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		if m.Role == "assistant" {
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			continue
		}
		turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}
	return turns
}
