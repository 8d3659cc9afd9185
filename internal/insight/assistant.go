package insight

import (
	"context"
	"fmt"
	"strings"

	"demo-trade-bot-go/internal/config"
	"demo-trade-bot-go/internal/i18n"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Assistant answers dashboard chat questions. Common questions are answered
// from the canned localized tables; everything else falls through to an
// OpenAI-compatible chat-completions API. The core only depends on "prompt
// in, text out": any transport failure degrades to the localized fallback
// answer instead of an error.
type Assistant struct {
	client  *resty.Client
	apiKey  string
	model   string
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewAssistant creates an assistant from the insight configuration.
func NewAssistant(cfg *config.Insight, logger *zap.Logger) *Assistant {
	client := resty.New().SetBaseURL(cfg.BaseURL)
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Assistant{
		client:  client,
		apiKey:  cfg.ApiKey,
		model:   cfg.Model,
		limiter: limiter,
		logger:  logger.Named("insight"),
	}
}

// Answer resolves a chat prompt to localized text. It never returns an
// error; worst case the caller gets the fallback string for the language.
func (a *Assistant) Answer(ctx context.Context, lang i18n.Language, prompt string) string {
	if key := cannedKey(prompt); key != "" {
		return i18n.T(lang, key)
	}

	answer, err := a.generate(ctx, lang, prompt)
	if err != nil {
		a.logger.Warn("Insight generation failed, using fallback", zap.Error(err))
		return i18n.T(lang, "fallback")
	}
	return answer
}

// cannedKey routes a prompt to one of the canned answer keys, or "" when no
// topic matches.
func cannedKey(prompt string) string {
	p := strings.ToLower(prompt)
	switch {
	case containsAny(p, "withdraw", "payout", "вывод", "вывести", "auszahl", "abheb", "wypłac", "retrag", "изтегл", "podign"):
		return "withdraw"
	case containsAny(p, "bot", "бот", "robot"):
		return "bots"
	case containsAny(p, "limit", "лимит", "expire", "6 hour", "zeitlimit", "czas"):
		return "limit"
	case containsAny(p, "hello", "привет", "здравствуй", "hallo", "witaj", "zdravo", "bună", "здравей"):
		return "greeting"
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are the support assistant of a demo AI trading dashboard. " +
	"Answer briefly. The demo account has a fixed starting balance, three " +
	"selectable trading bots and a 6-hour trading time limit; withdrawals and " +
	"real accounts are handled by the user's personal manager. Answer in the " +
	"language of the user's question."

// generate calls the chat-completions endpoint, rate limited.
func (a *Assistant) generate(ctx context.Context, lang i18n.Language, prompt string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	body := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("[%s] %s", lang, prompt)},
		},
	}

	var result chatResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+a.apiKey).
		SetBody(body).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("chat completion request failed with status %s: %s", resp.Status(), resp.String())
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
