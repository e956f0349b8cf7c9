package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"google.golang.org/genai"
)

const assistantSystemPrompt = `You are the GreenFleet dashboard assistant. You answer questions
about the fleet's shipments, fuel usage, CO2 emissions and driver eco scores using only the
fleet data provided with each question. Keep answers short and factual. If the data does not
contain the answer, say so rather than guessing.`

var assistantClient *genai.Client

// InitAssistant initializes the Gemini client for the dashboard chat
func InitAssistant() error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set. Dashboard chat will be disabled.")
		return nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return fmt.Errorf("error initializing gemini client: %v", err)
	}

	assistantClient = client
	log.Println("Gemini assistant initialized successfully")
	return nil
}

func assistantModel() string {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return model
}

// AskAssistant answers a dashboard question against a serialized fleet summary.
// fleetData is prepared by the caller from the emissions aggregates.
func AskAssistant(ctx context.Context, question, fleetData string) (string, error) {
	if assistantClient == nil {
		return "", fmt.Errorf("assistant not configured")
	}

	prompt := fmt.Sprintf("Fleet data:\n%s\n\nQuestion: %s", fleetData, question)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(assistantSystemPrompt, genai.RoleUser),
	}

	resp, err := assistantClient.Models.GenerateContent(ctx, assistantModel(), contents, config)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %v", err)
	}

	answer := resp.Text()
	if answer == "" {
		return "", fmt.Errorf("assistant returned an empty response")
	}
	return answer, nil
}
