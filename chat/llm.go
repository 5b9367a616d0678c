package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const TierLLM = "llm"

const llmSystemInstruction = `
You are a helpful sales assistant at a car dealership. You answer questions about exactly one vehicle, described below.
Only use the facts provided. If the answer is not in the facts, say so briefly and suggest contacting the dealership.
Keep answers under 120 words. You may emphasise key figures with **double asterisks**. Do not use any other markdown.
`

// ContentGenerator is the slice of the genai client the LLM tier uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// LLMResponder asks a Gemini model grounded on the vehicle listing.
type LLMResponder struct {
	Models ContentGenerator
	Model  string
}

// NewLLMResponder builds a responder backed by the Gemini API.
func NewLLMResponder(ctx context.Context, apiKey, model string) (*LLMResponder, error) {
	if apiKey == "" {
		return nil, errors.New("chat: gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &LLMResponder{Models: client.Models, Model: model}, nil
}

func (*LLMResponder) Name() string { return TierLLM }

func (r *LLMResponder) Respond(ctx context.Context, q Query) (Reply, error) {
	var contents []*genai.Content
	for _, m := range lastMessages(q.History, 6) {
		role := genai.RoleUser
		if m.FromAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.Role(role)))
	}
	contents = append(contents, genai.NewContentFromText(q.Text, genai.RoleUser))

	result, err := r.Models.GenerateContent(ctx, r.Model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: llmSystemInstruction + vehicleFacts(q.Vehicle)}}},
	})
	if err != nil {
		return Reply{}, err
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return Reply{}, ErrEmptyAnswer
	}
	return Reply{Text: text, Tier: TierLLM}, nil
}

func vehicleFacts(v Vehicle) string {
	return fmt.Sprintf("Vehicle: %s\nPrice: %s\nEngine: %s\nBody style: %s\nSeats: %d\nFeatures: %s\n",
		v.Name, v.PriceDisplay, v.EngineType, v.BodyStyle, v.SeatCount, strings.Join(v.Features, ", "))
}

func lastMessages(history []Message, n int) []Message {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
