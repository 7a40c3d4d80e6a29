package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"scalp-radar/internal/domain"
)

// FormatQuote renders the index quote as a single line.
func FormatQuote(q *domain.Quote) string {
	if q == nil {
		return SubtextStyle.Render("no quote")
	}
	return fmt.Sprintf("%-6s %10.2f  %s",
		q.Symbol,
		q.Mark,
		SubtextStyle.Render(q.Timestamp.Format("15:04:05")),
	)
}

// FormatRegime renders a regime label in its color.
func FormatRegime(regime domain.DirectorRegime) string {
	switch regime {
	case domain.RegimeTrendUp:
		return TrendUpStyle.Render(string(regime))
	case domain.RegimeTrendDown:
		return TrendDownStyle.Render(string(regime))
	default:
		return ChopStyle.Render(string(regime))
	}
}

// FormatAlert renders a director alert as a single line.
func FormatAlert(a domain.ScalpAlert) string {
	dirStyle := FlatStyle
	switch a.Direction {
	case domain.DirectionCall:
		dirStyle = CallStyle
	case domain.DirectionPut:
		dirStyle = PutStyle
	}

	confStyle := ConfidenceLowStyle
	if a.Confidence >= 0.75 {
		confStyle = ConfidenceHighStyle
	} else if a.Confidence >= 0.6 {
		confStyle = ConfidenceMedStyle
	}

	push := SubtextStyle.Render("quiet")
	if a.ShouldPush {
		push = WarnStyle.Render("PUSH")
	}

	return fmt.Sprintf("%s %s %s %s  %s",
		a.Timestamp.Format(time.RFC822),
		dirStyle.Render(fmt.Sprintf("%-4s", a.Direction)),
		confStyle.Render(fmt.Sprintf("%3.0f%%", a.Confidence*100)),
		push,
		a.Explanation,
	)
}

// FormatTradeSignal renders the tracked recommendation as a single line.
func FormatTradeSignal(sig *domain.TradeSignal, state domain.LifecycleState) string {
	if sig == nil {
		return SubtextStyle.Render("no active recommendation")
	}

	dirStyle := FlatStyle
	switch sig.Type {
	case domain.DirectionCall:
		dirStyle = CallStyle
	case domain.DirectionPut:
		dirStyle = PutStyle
	}

	return fmt.Sprintf("%s %s %g  premium ~%.2f  stop %.2f  [%s]",
		sig.Strength,
		dirStyle.Render(string(sig.Type)),
		sig.StrikePrice,
		sig.EstimatedPremium,
		sig.StopLoss,
		state,
	)
}

// RenderBiasGauge renders the director bias as a centered bar, negative to
// the left and positive to the right of a fixed midpoint.
func RenderBiasGauge(bias, maxBias float64, halfWidth int) string {
	if halfWidth <= 0 {
		halfWidth = 12
	}
	if maxBias <= 0 {
		maxBias = 6
	}

	magnitude := bias
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude > maxBias {
		magnitude = maxBias
	}
	filled := int(magnitude / maxBias * float64(halfWidth))

	left := strings.Repeat(" ", halfWidth)
	right := strings.Repeat(" ", halfWidth)
	if bias < 0 {
		left = strings.Repeat(" ", halfWidth-filled) + BiasNegativeStyle.Render(strings.Repeat("█", filled))
	} else if bias > 0 {
		right = BiasPositiveStyle.Render(strings.Repeat("█", filled)) + strings.Repeat(" ", halfWidth-filled)
	}

	return fmt.Sprintf("[%s|%s] %+.1f", left, right, bias)
}

// RenderScoreBars renders bullish/bearish score bars stacked.
func RenderScoreBars(score domain.SignalScore, barWidth int) string {
	if barWidth <= 0 {
		barWidth = 20
	}
	maxScore := score.Bullish
	if score.Bearish > maxScore {
		maxScore = score.Bearish
	}
	if maxScore <= 0 {
		maxScore = 1
	}

	bull := int(score.Bullish / maxScore * float64(barWidth))
	bear := int(score.Bearish / maxScore * float64(barWidth))

	lines := []string{
		fmt.Sprintf("Bull %5.1f %s", score.Bullish, BiasPositiveStyle.Render(strings.Repeat("█", bull))),
		fmt.Sprintf("Bear %5.1f %s", score.Bearish, BiasNegativeStyle.Render(strings.Repeat("█", bear))),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
