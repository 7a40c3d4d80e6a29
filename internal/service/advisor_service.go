package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"scalp-radar/internal/domain"
)

const advisorSystemPrompt = "You are a trading assistant for an SPX options scalping radar. " +
	"You explain the current market stance, signals and alerts in plain language. " +
	"You never give financial advice and you keep answers under 120 words."

// AdvisorService wraps the model behind a single completion function so tests
// can stub it. Without an API key the service stays disabled and every call
// returns an error.
type AdvisorService struct {
	model      string
	maxHistory int
	complete   func(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error)

	mu      sync.Mutex
	history []openai.ChatCompletionMessageParamUnion
}

func NewAdvisorService(apiKey, model string, maxHistory int) *AdvisorService {
	s := &AdvisorService{model: model, maxHistory: maxHistory}
	if apiKey == "" {
		return s
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	s.complete = func(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
		resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    openai.ChatModel(model),
			Messages: messages,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty completion")
		}
		return resp.Choices[0].Message.Content, nil
	}
	return s
}

func (s *AdvisorService) Enabled() bool { return s.complete != nil }

// Explain produces a one-shot narration of the current engine state. It does
// not touch the conversation history.
func (s *AdvisorService) Explain(ctx context.Context, stance domain.Stance, score domain.SignalScore, sig *domain.TradeSignal) (string, error) {
	if s.complete == nil {
		return "", fmt.Errorf("advisor is disabled")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Regime: %s (bias %.2f, inside cloud: %v)\n", stance.Director.Regime, stance.Director.BiasScore, stance.Director.InsideCloud)
	if stance.Trap.Active {
		fmt.Fprintf(&b, "Trap mode: %s, %d bars remaining\n", stance.Trap.Type, stance.Trap.BarsRemaining)
	}
	fmt.Fprintf(&b, "Score: bullish %.1f vs bearish %.1f, direction %s (%s)\n", score.Bullish, score.Bearish, score.Direction, score.Strength)
	if score.Reason != "" {
		fmt.Fprintf(&b, "Drivers: %s\n", score.Reason)
	}
	if sig != nil {
		fmt.Fprintf(&b, "Tracked: %s %g strike, premium %.2f, targets %.2f/%.2f/%.2f, stop %.2f\n",
			sig.Type, sig.StrikePrice, sig.EstimatedPremium, sig.ProfitTarget1, sig.ProfitTarget2, sig.ProfitTarget3, sig.StopLoss)
	}

	return s.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(advisorSystemPrompt),
		openai.UserMessage("Explain this radar state to a scalper:\n" + b.String()),
	})
}

// Ask continues the rolling conversation, trimmed to the configured depth.
func (s *AdvisorService) Ask(ctx context.Context, question string) (string, error) {
	if s.complete == nil {
		return "", fmt.Errorf("advisor is disabled")
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("empty question")
	}

	s.mu.Lock()
	s.history = append(s.history, openai.UserMessage(question))
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(s.history)+1)
	messages = append(messages, openai.SystemMessage(advisorSystemPrompt))
	messages = append(messages, s.history...)
	s.mu.Unlock()

	answer, err := s.complete(ctx, messages)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.history = append(s.history, openai.AssistantMessage(answer))
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
	s.mu.Unlock()
	return answer, nil
}
