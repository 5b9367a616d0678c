package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"car-advisor/internal/logger"
)

// Query is one user question in the context of the open vehicle. History
// holds the earlier turns and never includes Text itself.
type Query struct {
	Text    string
	Vehicle Vehicle
	History []Message
}

// Reply is a generated assistant answer.
type Reply struct {
	Text string
	Tier string
	// QuickReplies overrides the keyword-derived suggestions when non-empty.
	QuickReplies []QuickReply
	Degraded     bool
	Notice       string
}

type Responder interface {
	Name() string
	Respond(ctx context.Context, q Query) (Reply, error)
}

// DegradedNotice accompanies replies produced after a higher tier failed.
const DegradedNotice = "Our vehicle expert is unavailable right now, so this answer is based on the listing details."

var ErrNoResponder = errors.New("chat: no responder produced a reply")

// Chain asks each responder in order and returns the first answer.
type Chain []Responder

func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, r := range c {
		names[i] = r.Name()
	}
	return strings.Join(names, ">")
}

func (c Chain) Respond(ctx context.Context, q Query) (Reply, error) {
	var failed []string
	for _, r := range c {
		reply, err := r.Respond(ctx, q)
		if err != nil {
			failed = append(failed, r.Name())
			logger.WarnWithFields("chat responder failed", logger.Fields{
				"tier":       r.Name(),
				"vehicle_id": q.Vehicle.ID,
				"error":      err.Error(),
			})
			continue
		}
		if len(failed) > 0 {
			reply.Degraded = true
			if reply.Notice == "" {
				reply.Notice = DegradedNotice
			}
		}
		return reply, nil
	}
	if len(failed) == 0 {
		return Reply{}, ErrNoResponder
	}
	return Reply{}, fmt.Errorf("%w: %s failed", ErrNoResponder, strings.Join(failed, ", "))
}

const TierRemote = "remote"

// CarInfoRequest is the body of the vehicle Q&A call.
type CarInfoRequest struct {
	Query     string `json:"query"`
	ModelName string `json:"model_name"`
}

type CarInfoResponse struct {
	UserAnswer string      `json:"user_answer"`
	OfferTypes *OfferTypes `json:"offer_types,omitempty"`
}

type OfferTypes struct {
	Leasing *Offer `json:"leasing,omitempty"`
	Buying  *Offer `json:"buying,omitempty"`
}

type Offer struct {
	Description string `json:"description"`
}

// CarInfoFetcher performs the remote Q&A round trip.
type CarInfoFetcher interface {
	CarInfo(ctx context.Context, req CarInfoRequest) (*CarInfoResponse, error)
}

var ErrEmptyAnswer = errors.New("chat: remote answer is empty")

// RemoteResponder asks the external vehicle expert.
type RemoteResponder struct {
	Fetcher CarInfoFetcher
}

func (RemoteResponder) Name() string { return TierRemote }

func (r RemoteResponder) Respond(ctx context.Context, q Query) (Reply, error) {
	resp, err := r.Fetcher.CarInfo(ctx, CarInfoRequest{Query: q.Text, ModelName: q.Vehicle.Name})
	if err != nil {
		return Reply{}, err
	}
	if resp == nil || strings.TrimSpace(resp.UserAnswer) == "" {
		return Reply{}, ErrEmptyAnswer
	}
	return Reply{Text: FormatRemoteAnswer(resp), Tier: TierRemote}, nil
}

// FormatRemoteAnswer appends the offer sections that are present.
func FormatRemoteAnswer(resp *CarInfoResponse) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(resp.UserAnswer))
	if ot := resp.OfferTypes; ot != nil {
		if ot.Leasing != nil && strings.TrimSpace(ot.Leasing.Description) != "" {
			b.WriteString("\n\n**Leasing Option:**\n")
			b.WriteString(strings.TrimSpace(ot.Leasing.Description))
		}
		if ot.Buying != nil && strings.TrimSpace(ot.Buying.Description) != "" {
			b.WriteString("\n\n**Buying Option:**\n")
			b.WriteString(strings.TrimSpace(ot.Buying.Description))
		}
	}
	return b.String()
}
