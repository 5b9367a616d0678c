package chat

import (
	"context"
	"fmt"
	"strings"
)

const TierKeyword = "keyword"

// KeywordResponder answers from the vehicle listing alone. It never fails.
type KeywordResponder struct{}

func (KeywordResponder) Name() string { return TierKeyword }

func (KeywordResponder) Respond(_ context.Context, q Query) (Reply, error) {
	return Reply{Text: KeywordAnswer(q.Vehicle, q.Text), Tier: TierKeyword}, nil
}

// KeywordAnswer matches topics in a fixed order; the first hit wins.
func KeywordAnswer(v Vehicle, text string) string {
	q := strings.ToLower(text)
	switch {
	case containsAny(q, "price", "cost", "how much"):
		return fmt.Sprintf("The %s is priced at %s. Would you like to know about our financing options?", v.Name, v.PriceDisplay)
	case containsAny(q, "engine", "power", "fuel"):
		return fmt.Sprintf("The %s features a %s engine, designed for optimal performance and efficiency.", v.Name, v.EngineType)
	case containsAny(q, "features", "what does it have"):
		return featureAnswer(v)
	case containsAny(q, "body", "style", "type"):
		return fmt.Sprintf("This is a %s vehicle, offering a balance of style and practicality.", v.BodyStyle)
	case containsAny(q, "seats", "seating", "passengers"):
		return fmt.Sprintf("The %s comfortably seats %d passengers.", v.Name, v.SeatCount)
	case containsAny(q, "test drive", "try"):
		return "You can schedule a test drive by visiting our dealership or booking online. Would you like me to help you schedule one?"
	case strings.Contains(q, "thank"):
		return "You're welcome! Is there anything else you'd like to know about this vehicle?"
	}
	return fmt.Sprintf("I'd be happy to tell you more about the %s. You can ask about its features, pricing, engine specifications, or anything else you'd like to know.", v.Name)
}

func featureAnswer(v Vehicle) string {
	if len(v.Features) == 0 {
		return fmt.Sprintf("The %s comes well equipped. Ask me about a specific feature and I'll check it for you.", v.Name)
	}
	shown := v.Features
	if len(shown) > 3 {
		shown = shown[:3]
	}
	answer := fmt.Sprintf("The %s comes with %s", v.Name, strings.Join(shown, ", "))
	if len(v.Features) > 3 {
		answer += " and more!"
	} else {
		answer += "."
	}
	return answer
}
