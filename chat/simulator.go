package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type State string

const (
	StateIdle   State = "idle"
	StateActive State = "active"
)

var (
	ErrEmptyMessage = errors.New("chat: message is empty")
	ErrNoSession    = errors.New("chat: no conversation is open")
	ErrReplyPending = errors.New("chat: waiting for the previous reply")
	// ErrStaleReply means the conversation was closed or switched to another
	// vehicle while the reply was being produced. The reply is discarded.
	ErrStaleReply = errors.New("chat: conversation changed before the reply arrived")
)

// FailedReplyText is posted when every responder failed.
const FailedReplyText = "Sorry, I couldn't answer that right now. Please try again in a moment."

// Session is a snapshot of the conversation for rendering.
type Session struct {
	State        State        `json:"state"`
	Vehicle      *Vehicle     `json:"vehicle,omitempty"`
	Messages     []Message    `json:"messages"`
	QuickReplies []QuickReply `json:"quick_replies"`
	Pending      bool         `json:"pending"`
}

type SimulatorOption func(*Simulator)

func WithTypingDelay(d time.Duration) SimulatorOption {
	return func(s *Simulator) { s.typingDelay = d }
}

func WithReplyTimeout(d time.Duration) SimulatorOption {
	return func(s *Simulator) { s.replyTimeout = d }
}

func WithClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) { s.now = now }
}

// Simulator holds one browsing session's conversation. Only one vehicle is
// discussed at a time; opening another discards the current conversation.
type Simulator struct {
	responder    Responder
	typingDelay  time.Duration
	replyTimeout time.Duration
	now          func() time.Time

	mu         sync.Mutex
	state      State
	generation uint64
	vehicle    Vehicle
	messages   []Message
	quick      []QuickReply
	pending    bool
	lastStamp  time.Time
}

func NewSimulator(responder Responder, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		responder:    responder,
		replyTimeout: 10 * time.Second,
		now:          time.Now,
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a conversation about v. The greeting is posted at once; the
// fact sheet and default quick replies follow after the typing delay. Send is
// refused with ErrReplyPending until the fact sheet is posted. If the
// conversation changes during the delay the fact sheet is dropped.
func (s *Simulator) Open(ctx context.Context, v Vehicle) (Session, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = StateActive
	s.vehicle = cloneVehicle(v)
	s.messages = nil
	s.quick = nil
	s.pending = true
	s.appendLocked(Greeting(v), true, false, "")
	s.mu.Unlock()

	if s.typingDelay > 0 {
		t := time.NewTimer(s.typingDelay)
		select {
		case <-ctx.Done():
			t.Stop()
		case <-t.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return s.snapshotLocked(), ErrStaleReply
	}
	s.pending = false
	s.appendLocked(FactSheet(v), true, true, "")
	s.quick = DefaultQuickReplies()
	return s.snapshotLocked(), nil
}

// Send posts the user's message and waits for exactly one assistant reply.
// The user message is visible to Snapshot while the reply is pending.
func (s *Simulator) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return Message{}, ErrNoSession
	}
	if s.pending {
		s.mu.Unlock()
		return Message{}, ErrReplyPending
	}
	// history holds the turns before this one; the question travels as Query.Text.
	history := append([]Message(nil), s.messages...)
	s.appendLocked(text, false, false, "")
	s.pending = true
	gen := s.generation
	vehicle := cloneVehicle(s.vehicle)
	s.mu.Unlock()

	replyCtx := ctx
	if s.replyTimeout > 0 {
		var cancel context.CancelFunc
		replyCtx, cancel = context.WithTimeout(ctx, s.replyTimeout)
		defer cancel()
	}
	reply, err := s.responder.Respond(replyCtx, Query{Text: text, Vehicle: vehicle, History: history})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.vehicle.ID != vehicle.ID {
		return Message{}, ErrStaleReply
	}
	s.pending = false
	if err != nil {
		msg := s.appendLocked(FailedReplyText, true, false, "")
		s.quick = QuickRepliesFor(text)
		return msg, err
	}
	msg := s.appendLocked(reply.Text, true, false, reply.Notice)
	msg.Tier = reply.Tier
	s.messages[len(s.messages)-1].Tier = reply.Tier
	if len(reply.QuickReplies) > 0 {
		s.quick = reply.QuickReplies
	} else {
		s.quick = QuickRepliesFor(text)
	}
	return msg, nil
}

// Close discards the conversation. Replies still in flight become stale.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = StateIdle
	s.vehicle = Vehicle{}
	s.messages = nil
	s.quick = nil
	s.pending = false
}

func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Simulator) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Simulator) snapshotLocked() Session {
	sess := Session{
		State:        s.state,
		Messages:     append([]Message{}, s.messages...),
		QuickReplies: append([]QuickReply{}, s.quick...),
		Pending:      s.pending,
	}
	if s.state == StateActive {
		v := cloneVehicle(s.vehicle)
		sess.Vehicle = &v
	}
	return sess
}

func (s *Simulator) appendLocked(content string, fromAssistant, bullets bool, notice string) Message {
	msg := Message{
		ID:            uuid.NewString(),
		Content:       content,
		HTML:          RenderHTML(content),
		FromAssistant: fromAssistant,
		BulletList:    bullets,
		Notice:        notice,
		Timestamp:     s.stampLocked(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

// stampLocked returns a timestamp strictly after the previous one.
func (s *Simulator) stampLocked() time.Time {
	t := s.now()
	if !t.After(s.lastStamp) {
		t = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = t
	return t
}

func cloneVehicle(v Vehicle) Vehicle {
	v.Features = append([]string(nil), v.Features...)
	return v
}
