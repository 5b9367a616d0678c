package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

var errUnreachable = errors.New("dial tcp: connection refused")

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []CarInfoRequest
	resp    *CarInfoResponse
	err     error
	release chan struct{}
}

func (f *fakeFetcher) CarInfo(ctx context.Context, req CarInfoRequest) (*CarInfoResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.resp, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func sedan() Vehicle {
	return Vehicle{
		ID:           "c300",
		Name:         "Mercedes-Benz C300",
		PriceDisplay: "AED 189,000",
		EngineType:   "Petrol",
		BodyStyle:    "Sedan",
		SeatCount:    5,
		Features:     []string{"navigation", "sunroof", "bluetooth", "rear camera"},
	}
}

func suv() Vehicle {
	return Vehicle{ID: "gle", Name: "Mercedes-Benz GLE", PriceDisplay: "AED 345,000", EngineType: "Hybrid", BodyStyle: "SUV", SeatCount: 7}
}

func newSim(f *fakeFetcher) *Simulator {
	return NewSimulator(Chain{RemoteResponder{Fetcher: f}, KeywordResponder{}}, WithReplyTimeout(time.Second))
}

func TestOpenSeedsGreetingThenFactSheet(t *testing.T) {
	sim := newSim(&fakeFetcher{})
	sess, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)

	require.Len(t, sess.Messages, 2)
	assert.Equal(t, StateActive, sess.State)
	assert.Equal(t, Greeting(sedan()), sess.Messages[0].Content)
	assert.True(t, sess.Messages[1].BulletList)
	assert.Equal(t, "• Price: AED 189,000\n• Engine: Petrol\n• Body Style: Sedan\n• Seats: 5", sess.Messages[1].Content)
	assert.True(t, sess.Messages[1].Timestamp.After(sess.Messages[0].Timestamp))
	assert.Equal(t, DefaultQuickReplies(), sess.QuickReplies)
}

func TestOpenAnotherVehicleDiscardsPreviousConversation(t *testing.T) {
	sim := newSim(&fakeFetcher{err: errUnreachable})
	_, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)
	_, err = sim.Send(context.Background(), "price?")
	require.NoError(t, err)

	sess, err := sim.Open(context.Background(), suv())
	require.NoError(t, err)

	require.Len(t, sess.Messages, 2)
	for _, m := range sess.Messages {
		assert.NotContains(t, m.Content, "C300")
	}
	assert.Contains(t, sess.Messages[0].Content, "GLE")
	assert.Equal(t, "gle", sess.Vehicle.ID)
}

func TestSendRejectsBlankInputWithoutCallingOut(t *testing.T) {
	f := &fakeFetcher{resp: &CarInfoResponse{UserAnswer: "ok"}}
	sim := newSim(f)
	_, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := sim.Send(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Zero(t, f.callCount())
	assert.Len(t, sim.Snapshot().Messages, 2)
}

func TestSendWithoutSession(t *testing.T) {
	sim := newSim(&fakeFetcher{})
	_, err := sim.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSendFallsBackToKeywordsWhenRemoteFails(t *testing.T) {
	f := &fakeFetcher{err: errUnreachable}
	sim := newSim(f)
	_, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)

	msg, err := sim.Send(context.Background(), "How much does it cost?")
	require.NoError(t, err)

	assert.True(t, msg.FromAssistant)
	assert.Contains(t, msg.Content, "AED 189,000")
	assert.Equal(t, DegradedNotice, msg.Notice)
	assert.Equal(t, []CarInfoRequest{{Query: "How much does it cost?", ModelName: "Mercedes-Benz C300"}}, f.calls)

	sess := sim.Snapshot()
	require.Len(t, sess.Messages, 4)
	assert.False(t, sess.Messages[2].FromAssistant)
	assert.Equal(t, "Financing options", sess.QuickReplies[0].Text)
	assert.False(t, sess.Pending)
}

func TestSendFormatsRemoteAnswer(t *testing.T) {
	f := &fakeFetcher{resp: &CarInfoResponse{
		UserAnswer: "The C300 has **255 hp**.",
		OfferTypes: &OfferTypes{Leasing: &Offer{Description: "From AED 2,999/month"}},
	}}
	sim := newSim(f)
	_, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)

	msg, err := sim.Send(context.Background(), "engine power?")
	require.NoError(t, err)

	assert.Equal(t, "The C300 has **255 hp**.\n\n**Leasing Option:**\nFrom AED 2,999/month", msg.Content)
	assert.NotContains(t, msg.Content, "Buying Option")
	assert.Contains(t, msg.HTML, "<strong>255 hp</strong>")
	assert.Empty(t, msg.Notice)
	assert.Equal(t, "Fuel efficiency?", sim.Snapshot().QuickReplies[0].Text)
}

func TestTestDriveQuickRepliesDifferFromDefaults(t *testing.T) {
	sim := newSim(&fakeFetcher{err: errUnreachable})
	_, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)

	_, err = sim.Send(context.Background(), "Can I book a test drive?")
	require.NoError(t, err)

	got := sim.Snapshot().QuickReplies
	assert.NotEqual(t, DefaultQuickReplies(), got)
	assert.Equal(t, "Schedule for tomorrow", got[0].Text)

	_, err = sim.Send(context.Background(), "nice colour")
	require.NoError(t, err)
	assert.Equal(t, DefaultQuickReplies(), sim.Snapshot().QuickReplies)
}

func TestLateReplyForClosedConversationIsDropped(t *testing.T) {
	f := &fakeFetcher{resp: &CarInfoResponse{UserAnswer: "late answer"}, release: make(chan struct{})}
	sim := newSim(f)
	_, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := sim.Send(context.Background(), "tell me more")
		done <- err
	}()
	require.Eventually(t, func() bool { return f.callCount() == 1 }, time.Second, 5*time.Millisecond)

	_, err = sim.Open(context.Background(), suv())
	require.NoError(t, err)
	close(f.release)

	assert.ErrorIs(t, <-done, ErrStaleReply)
	for _, m := range sim.Snapshot().Messages {
		assert.NotEqual(t, "late answer", m.Content)
	}
}

func TestSecondSendWhileReplyPending(t *testing.T) {
	f := &fakeFetcher{resp: &CarInfoResponse{UserAnswer: "answer"}, release: make(chan struct{})}
	sim := newSim(f)
	_, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := sim.Send(context.Background(), "first")
		done <- err
	}()
	require.Eventually(t, func() bool { return sim.Snapshot().Pending }, time.Second, 5*time.Millisecond)

	_, err = sim.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrReplyPending)

	close(f.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.callCount())
	assert.Len(t, sim.Snapshot().Messages, 4)
}

func TestCloseReturnsToIdle(t *testing.T) {
	sim := newSim(&fakeFetcher{})
	_, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)

	sim.Close()
	sess := sim.Snapshot()
	assert.Equal(t, StateIdle, sess.State)
	assert.Nil(t, sess.Vehicle)
	assert.Empty(t, sess.Messages)
}

func TestFactSheetWaitsForTypingDelay(t *testing.T) {
	sim := NewSimulator(KeywordResponder{}, WithTypingDelay(20*time.Millisecond))
	start := time.Now()
	sess, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Len(t, sess.Messages, 2)
}

func TestSendRefusedUntilFactSheetPosted(t *testing.T) {
	sim := NewSimulator(KeywordResponder{}, WithTypingDelay(200*time.Millisecond))

	opened := make(chan Session, 1)
	go func() {
		sess, err := sim.Open(context.Background(), sedan())
		assert.NoError(t, err)
		opened <- sess
	}()
	require.Eventually(t, func() bool { return len(sim.Snapshot().Messages) == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, sim.Snapshot().Pending)

	_, err := sim.Send(context.Background(), "schedule a test drive")
	assert.ErrorIs(t, err, ErrReplyPending)

	sess := <-opened
	require.Len(t, sess.Messages, 2)
	assert.True(t, sess.Messages[1].BulletList)
	assert.False(t, sess.Pending)

	_, err = sim.Send(context.Background(), "schedule a test drive")
	require.NoError(t, err)
	after := sim.Snapshot()
	require.Len(t, after.Messages, 4)
	assert.Equal(t, "schedule a test drive", after.Messages[2].Content)
	assert.Equal(t, QuickRepliesFor("schedule a test drive"), after.QuickReplies)
}

type capturingGenerator struct {
	contents []*genai.Content
}

func (g *capturingGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.contents = contents
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: genai.NewContentFromText("It has a **2.0L** turbo engine.", genai.RoleModel),
	}}}, nil
}

func TestLLMTierSendsQuestionOnce(t *testing.T) {
	gen := &capturingGenerator{}
	sim := NewSimulator(&LLMResponder{Models: gen, Model: "gemini-test"})
	_, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)

	msg, err := sim.Send(context.Background(), "What engine does it have?")
	require.NoError(t, err)
	assert.Equal(t, TierLLM, msg.Tier)

	require.Len(t, gen.contents, 3)
	asked := 0
	for _, c := range gen.contents {
		for _, p := range c.Parts {
			if p.Text == "What engine does it have?" {
				asked++
			}
		}
	}
	assert.Equal(t, 1, asked)
	last := gen.contents[len(gen.contents)-1]
	assert.Equal(t, genai.RoleUser, last.Role)
	assert.Equal(t, "What engine does it have?", last.Parts[0].Text)
}

func TestTimestampsStrictlyIncreaseUnderFrozenClock(t *testing.T) {
	frozen := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sim := NewSimulator(KeywordResponder{}, WithClock(func() time.Time { return frozen }))
	_, err := sim.Open(context.Background(), sedan())
	require.NoError(t, err)
	_, err = sim.Send(context.Background(), "thanks")
	require.NoError(t, err)

	msgs := sim.Snapshot().Messages
	for i := 1; i < len(msgs); i++ {
		assert.True(t, msgs[i].Timestamp.After(msgs[i-1].Timestamp))
	}
}

func TestChainWithoutAnswer(t *testing.T) {
	_, err := Chain{RemoteResponder{Fetcher: &fakeFetcher{err: errUnreachable}}}.Respond(context.Background(), Query{Text: "x"})
	assert.ErrorIs(t, err, ErrNoResponder)

	sim := NewSimulator(Chain{RemoteResponder{Fetcher: &fakeFetcher{err: errUnreachable}}})
	_, err = sim.Open(context.Background(), sedan())
	require.NoError(t, err)
	msg, err := sim.Send(context.Background(), "hi")
	assert.Error(t, err)
	assert.Equal(t, FailedReplyText, msg.Content)
	assert.False(t, sim.Snapshot().Pending)
}

func TestRemoteEmptyAnswerFallsThrough(t *testing.T) {
	reply, err := Chain{RemoteResponder{Fetcher: &fakeFetcher{resp: &CarInfoResponse{UserAnswer: "  "}}}, KeywordResponder{}}.
		Respond(context.Background(), Query{Text: "thank you", Vehicle: sedan()})
	require.NoError(t, err)
	assert.Equal(t, TierKeyword, reply.Tier)
	assert.True(t, reply.Degraded)
}

func TestKeywordAnswers(t *testing.T) {
	v := sedan()
	testCases := []struct {
		text string
		want string
	}{
		{"What's the PRICE?", "The Mercedes-Benz C300 is priced at AED 189,000. Would you like to know about our financing options?"},
		{"how's the fuel economy", "The Mercedes-Benz C300 features a Petrol engine, designed for optimal performance and efficiency."},
		{"what does it have", "The Mercedes-Benz C300 comes with navigation, sunroof, bluetooth and more!"},
		{"body shape", "This is a Sedan vehicle, offering a balance of style and practicality."},
		{"how many passengers", "The Mercedes-Benz C300 comfortably seats 5 passengers."},
		{"can I try it", "You can schedule a test drive by visiting our dealership or booking online. Would you like me to help you schedule one?"},
		{"Thanks!", "You're welcome! Is there anything else you'd like to know about this vehicle?"},
		{"hello", "I'd be happy to tell you more about the Mercedes-Benz C300. You can ask about its features, pricing, engine specifications, or anything else you'd like to know."},
	}
	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, KeywordAnswer(v, tc.text))
		})
	}
}

func TestKeywordFeatureAnswerWithFewFeatures(t *testing.T) {
	v := sedan()
	v.Features = []string{"turbo"}
	assert.Equal(t, "The Mercedes-Benz C300 comes with turbo.", KeywordAnswer(v, "features"))
}

func TestRenderHTML(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a **b** c", "a <strong>b</strong> c"},
		{"line1\nline2", "line1<br/>line2"},
		{"<script>x</script>", "&lt;script&gt;x&lt;/script&gt;"},
		{"**<b>**", "<strong>&lt;b&gt;</strong>"},
		{"unclosed **bold", "unclosed **bold"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, RenderHTML(tc.in), tc.in)
	}
}
