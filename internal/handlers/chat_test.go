package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssistantAnswerDegradesToEmptyWhenUnconfigured(t *testing.T) {
	// No GEMINI_API_KEY means no client; the chat endpoint must still
	// answer 200 with an empty string instead of surfacing the failure
	answer := assistantAnswer(context.Background(), "How much CO2 did the fleet emit?", "Total CO2 emitted: 0.00 kg")
	assert.Equal(t, "", answer)
}
