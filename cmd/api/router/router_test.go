package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-advisor/chat"
	"car-advisor/cmd/api/dto"
	"car-advisor/cmd/api/handlers"
	"car-advisor/cmd/api/middleware"
	"car-advisor/cmd/api/services"
	"car-advisor/garage"
	"car-advisor/recommend"
	"car-advisor/repositories"
)

type stubCaller struct {
	resp *recommend.Response
	err  error
	reqs []recommend.Request
}

func (s *stubCaller) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	s.reqs = append(s.reqs, req)
	return s.resp, s.err
}

type stubAnalyzer struct{}

func (stubAnalyzer) AnalyzeQuery(context.Context, string) (*garage.RawAnalysis, error) {
	return &garage.RawAnalysis{AccidentType: "rear-end", Severity: "minor", RecommendedGarages: []garage.Garage{{Name: "Gargash Body Shop"}}}, nil
}

func (stubAnalyzer) AnalyzeImage(context.Context, garage.Image) (*garage.RawAnalysis, error) {
	return &garage.RawAnalysis{AccidentType: "side impact", Severity: "severe"}, nil
}

// client keeps cookies between requests like a browser would.
type client struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestServer(t *testing.T, caller recommend.Caller) *client {
	t.Helper()
	return newTestServerWithOptions(t, caller, Options{})
}

func newTestServerWithOptions(t *testing.T, caller recommend.Caller, opts Options) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gateway := recommend.NewGateway(caller, recommend.WithStore(repositories.NewMemorySnapshotRepository(time.Hour)))
	sessions := services.NewSessionRegistry(func() *chat.Simulator {
		return chat.NewSimulator(chat.Chain{chat.KeywordResponder{}})
	}, time.Hour)

	engine := New(Services{
		Wizard:          services.NewWizardService(sessions, gateway, nil),
		Recommendations: services.NewRecommendationService(sessions, gateway),
		Chat:            services.NewChatService(sessions, nil),
		Garage:          services.NewGarageService(stubAnalyzer{}, nil),
	}, opts)
	return &client{t: t, engine: engine, cookies: map[string]*http.Cookie{}}
}

func (c *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (c *client) completeWizard() {
	c.t.Helper()
	steps := []map[string]any{
		{"engine_type": "Hybrid"},
		{"body_style": "suv"},
		{"features": []string{"Navigation", "sunroof"}},
	}
	for _, patch := range steps {
		require.Equal(c.t, http.StatusOK, c.do(http.MethodPatch, "/api/v1/wizard/selection", patch).Code)
		require.Equal(c.t, http.StatusOK, c.do(http.MethodPost, "/api/v1/wizard/advance", nil).Code)
	}
	require.Equal(c.t, http.StatusOK, c.do(http.MethodPatch, "/api/v1/wizard/selection", map[string]any{"seat_count": 7}).Code)
}

func TestHealth(t *testing.T) {
	c := newTestServer(t, &stubCaller{})
	w := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestWizardIssuesSessionCookie(t *testing.T) {
	c := newTestServer(t, &stubCaller{})

	w := c.do(http.MethodGet, "/api/v1/wizard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, c.cookies, middleware.SessionCookie)

	st := decode[dto.WizardStateDTO](t, w)
	assert.Equal(t, 1, st.Step)
	assert.Equal(t, 4, st.TotalSteps)
	assert.Len(t, st.Options.Features, 13)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, st.Options.SeatCounts)
}

func TestAdvanceWithoutSelectionReturnsFieldError(t *testing.T) {
	c := newTestServer(t, &stubCaller{})

	w := c.do(http.MethodPost, "/api/v1/wizard/advance", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[dto.ErrorResponseDTO](t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "invalid_selection", body.Error)
	assert.Equal(t, "engine_type", body.Field)
	assert.Equal(t, "Please select an engine type", body.Message)
}

func TestSubmitReturnsOrderedRecommendations(t *testing.T) {
	caller := &stubCaller{resp: &recommend.Response{TopRecommendations: []recommend.Candidate{
		{CarModel: "Mercedes-Benz GLC 300", Probability: 0.70},
		{CarModel: "Mercedes-Benz GLE 450", Probability: 0.95},
		{CarModel: "Mercedes-Benz GLS 580", Probability: 0.82},
	}}}
	c := newTestServer(t, caller)
	c.completeWizard()

	w := c.do(http.MethodPost, "/api/v1/wizard/submit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[dto.SubmitResponseDTO](t, w)

	require.Len(t, caller.reqs, 1)
	assert.Equal(t, "Hybrid", caller.reqs[0].EngineType)
	assert.Equal(t, "SUV", caller.reqs[0].BodyStyle)
	assert.Equal(t, 7, caller.reqs[0].Seating)

	require.Len(t, out.Recommendations.Cards, 3)
	scores := []int{}
	for _, card := range out.Recommendations.Cards {
		scores = append(scores, card.MatchScore)
	}
	assert.Equal(t, []int{95, 82, 70}, scores)
	assert.False(t, out.Recommendations.FallbackUsed)

	require.Contains(t, c.cookies, handlers.PreferencesCookie)
	raw, err := url.QueryUnescape(c.cookies[handlers.PreferencesCookie].Value)
	require.NoError(t, err)
	assert.Contains(t, raw, `"engine_type":"Hybrid"`)
	assert.Equal(t, 365*24*60*60, c.cookies[handlers.PreferencesCookie].MaxAge)

	again := c.do(http.MethodGet, "/api/v1/recommendations", nil)
	require.Equal(t, http.StatusOK, again.Code)
	view := decode[recommend.View](t, again)
	require.Len(t, view.Cards, 3)
	assert.Equal(t, out.Recommendations.Cards[0].ID, view.Cards[0].ID)
	assert.Len(t, caller.reqs, 1)
}

func TestSecureCookiesApplyToPreferences(t *testing.T) {
	caller := &stubCaller{resp: &recommend.Response{TopRecommendations: []recommend.Candidate{
		{CarModel: "Mercedes-Benz GLE 450", Probability: 0.95},
	}}}
	c := newTestServerWithOptions(t, caller, Options{SecureCookies: true})
	c.completeWizard()

	w := c.do(http.MethodPost, "/api/v1/wizard/submit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	set := map[string]*http.Cookie{}
	for _, ck := range w.Result().Cookies() {
		set[ck.Name] = ck
	}
	require.Contains(t, set, middleware.SessionCookie)
	require.Contains(t, set, handlers.PreferencesCookie)
	assert.True(t, set[middleware.SessionCookie].Secure)
	assert.True(t, set[handlers.PreferencesCookie].Secure)
	assert.False(t, set[handlers.PreferencesCookie].HttpOnly)
}

func TestPreferencesCookieNotSecureByDefault(t *testing.T) {
	c := newTestServer(t, &stubCaller{resp: &recommend.Response{TopRecommendations: []recommend.Candidate{}}})
	c.completeWizard()

	w := c.do(http.MethodPost, "/api/v1/wizard/submit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, c.cookies, handlers.PreferencesCookie)
	assert.False(t, c.cookies[handlers.PreferencesCookie].Secure)
}

func TestSubmitFallsBackWhenUpstreamFails(t *testing.T) {
	c := newTestServer(t, &stubCaller{err: &recommend.StatusError{StatusCode: http.StatusInternalServerError}})
	c.completeWizard()

	w := c.do(http.MethodPost, "/api/v1/wizard/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[dto.SubmitResponseDTO](t, w)
	assert.True(t, out.Recommendations.FallbackUsed)
	assert.Equal(t, recommend.FallbackNotice, out.Recommendations.Notice)
	assert.Len(t, out.Recommendations.Cards, len(recommend.Fallback()))
}

func TestSubmitBeforeFinalStep(t *testing.T) {
	caller := &stubCaller{}
	c := newTestServer(t, caller)

	w := c.do(http.MethodPost, "/api/v1/wizard/submit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "not_final_step", decode[dto.ErrorResponseDTO](t, w).Error)
	assert.Empty(t, caller.reqs)
}

func TestRecommendationsBeforeSubmit(t *testing.T) {
	c := newTestServer(t, &stubCaller{})
	w := c.do(http.MethodGet, "/api/v1/recommendations", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWizardPrefillFromPreferencesCookie(t *testing.T) {
	c := newTestServer(t, &stubCaller{})
	c.cookies[handlers.PreferencesCookie] = &http.Cookie{
		Name:  handlers.PreferencesCookie,
		Value: url.QueryEscape(`{"engine_type":"Diesel","body_style":"Sedan","features":["turbo"],"seat_count":5}`),
	}

	st := decode[dto.WizardStateDTO](t, c.do(http.MethodGet, "/api/v1/wizard", nil))
	assert.Equal(t, "Diesel", string(st.Selection.EngineType))
	assert.Equal(t, []string{"turbo"}, st.Selection.Features)
	assert.Equal(t, 1, st.Step)
}

func TestChatFlow(t *testing.T) {
	c := newTestServer(t, &stubCaller{err: errors.New("down")})
	c.completeWizard()
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/wizard/submit", nil).Code)

	vehicle := recommend.Fallback()[0]
	w := c.do(http.MethodPost, "/api/v1/chat/open?vehicle_id="+url.QueryEscape(vehicle.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sess := decode[chat.Session](t, w)
	assert.Equal(t, chat.StateActive, sess.State)
	assert.Len(t, sess.Messages, 2)

	w = c.do(http.MethodPost, "/api/v1/chat/messages", dto.SendMessageRequestDTO{Text: "What's the price?"})
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[dto.SendMessageResponseDTO](t, w)
	assert.Contains(t, out.Reply.Content, vehicle.PriceDisplay)
	assert.True(t, out.Reply.FromAssistant)

	w = c.do(http.MethodPost, "/api/v1/chat/messages", dto.SendMessageRequestDTO{Text: "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = c.do(http.MethodDelete, "/api/v1/chat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, chat.StateIdle, decode[chat.Session](t, w).State)

	w = c.do(http.MethodPost, "/api/v1/chat/messages", dto.SendMessageRequestDTO{Text: "hello"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "chat_not_open", decode[dto.ErrorResponseDTO](t, w).Error)
}

func TestChatOpenValidation(t *testing.T) {
	c := newTestServer(t, &stubCaller{})

	w := c.do(http.MethodPost, "/api/v1/chat/open", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/v1/chat/open", dto.OpenChatRequestDTO{VehicleID: "unknown"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGarageQuery(t *testing.T) {
	c := newTestServer(t, &stubCaller{})

	form := url.Values{"query": {"hit from behind at a light"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/garage/query", bytes.NewBufferString(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := c.send(req)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[garage.Analysis](t, w)
	assert.True(t, out.Success)
	assert.Equal(t, garage.SeverityLow, out.SeverityLevel)

	w = c.do(http.MethodPost, "/api/v1/garage/query", dto.GarageQueryRequestDTO{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	failed := decode[garage.Analysis](t, w)
	assert.False(t, failed.Success)
	assert.Equal(t, "no query provided", failed.Error)
}

func TestGarageImage(t *testing.T) {
	c := newTestServer(t, &stubCaller{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "damage.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/garage/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := c.send(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[garage.Analysis](t, w)
	assert.Equal(t, garage.SeverityHigh, out.SeverityLevel)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/garage/image", bytes.NewBufferString(""))
	w = c.send(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
