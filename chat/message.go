// Package chat simulates a per-vehicle assistant conversation. Replies come
// from a chain of responders, ending in a keyword tier that always answers.
package chat

import (
	"fmt"
	"strings"
	"time"
)

// Vehicle is the subset of a recommendation the assistant talks about.
type Vehicle struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PriceDisplay string   `json:"price_display"`
	EngineType   string   `json:"engine_type"`
	BodyStyle    string   `json:"body_style"`
	SeatCount    int      `json:"seat_count"`
	Features     []string `json:"features"`
}

// Message is one chat turn. Tier names the responder that produced an
// assistant reply.
type Message struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	HTML          string    `json:"html"`
	FromAssistant bool      `json:"from_assistant"`
	BulletList    bool      `json:"bullet_list,omitempty"`
	Notice        string    `json:"notice,omitempty"`
	Tier          string    `json:"tier,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type QuickReply struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func Greeting(v Vehicle) string {
	return fmt.Sprintf("Hello! I'm your AI assistant for the %s. What would you like to know about this vehicle?", v.Name)
}

// FactSheet is the bullet summary posted after the greeting.
func FactSheet(v Vehicle) string {
	lines := []string{
		"• Price: " + v.PriceDisplay,
		"• Engine: " + v.EngineType,
		"• Body Style: " + v.BodyStyle,
		fmt.Sprintf("• Seats: %d", v.SeatCount),
	}
	return strings.Join(lines, "\n")
}

func quickReplies(texts ...string) []QuickReply {
	out := make([]QuickReply, len(texts))
	for i, t := range texts {
		out[i] = QuickReply{ID: fmt.Sprintf("qr-%d", i+1), Text: t}
	}
	return out
}

// DefaultQuickReplies are offered when a conversation starts and whenever the
// last question did not match a more specific set.
func DefaultQuickReplies() []QuickReply {
	return quickReplies("Tell me about features", "How can I test drive?", "Financing options")
}

// QuickRepliesFor picks follow-up suggestions from the user's last message.
func QuickRepliesFor(text string) []QuickReply {
	q := strings.ToLower(text)
	switch {
	case containsAny(q, "price", "cost"):
		return quickReplies("Financing options", "Any current promotions?", "Compare with other models")
	case containsAny(q, "engine", "power"):
		return quickReplies("Fuel efficiency?", "Performance specs", "Maintenance costs")
	case strings.Contains(q, "test drive"):
		return quickReplies("Schedule for tomorrow", "Which location?", "Documents needed?")
	}
	return DefaultQuickReplies()
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
