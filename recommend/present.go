package recommend

import (
	"cmp"
	"net/url"
	"slices"
)

const (
	NoMatchesMessage = "We couldn't find any vehicles that match your preferences. Try adjusting your criteria."
	FallbackNotice   = "We couldn't reach our recommendation service, so here are some popular picks instead."
	BackHref         = "/"
)

type ActionKind string

const (
	ActionDetails ActionKind = "details"
	ActionChat    ActionKind = "chat"
)

type Action struct {
	Kind   ActionKind `json:"kind"`
	Label  string     `json:"label"`
	Method string     `json:"method"`
	Href   string     `json:"href"`
}

type Card struct {
	Result
	Rank    int      `json:"rank"`
	Actions []Action `json:"actions"`
}

// View is the results page model. Exactly one of Cards or Message is populated.
type View struct {
	Cards        []Card `json:"cards"`
	Empty        bool   `json:"empty"`
	Message      string `json:"message,omitempty"`
	BackHref     string `json:"back_href,omitempty"`
	FallbackUsed bool   `json:"fallback_used"`
	Notice       string `json:"notice,omitempty"`
}

// Present orders results by match score, highest first. Ties keep their input
// order. An empty input yields the "no matches" view.
func Present(results []Result) View {
	if len(results) == 0 {
		return View{Cards: []Card{}, Empty: true, Message: NoMatchesMessage, BackHref: BackHref}
	}

	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b Result) int {
		return cmp.Compare(b.MatchScore, a.MatchScore)
	})

	cards := make([]Card, len(sorted))
	for i, r := range sorted {
		cards[i] = Card{Result: r, Rank: i + 1, Actions: actionsFor(r)}
	}
	return View{Cards: cards}
}

// PresentFallback renders the built-in list with the degradation notice.
func PresentFallback() View {
	v := Present(Fallback())
	v.FallbackUsed = true
	v.Notice = FallbackNotice
	return v
}

func actionsFor(r Result) []Action {
	id := url.PathEscape(r.ID)
	return []Action{
		{Kind: ActionDetails, Label: "View Details", Method: "GET", Href: "/vehicles/" + id},
		{Kind: ActionChat, Label: "Chat with AI", Method: "POST", Href: "/api/v1/chat/open?vehicle_id=" + url.QueryEscape(r.ID)},
	}
}

// Find returns the result with the given id.
func Find(results []Result, id string) (Result, bool) {
	for _, r := range results {
		if r.ID == id {
			return r, true
		}
	}
	return Result{}, false
}
