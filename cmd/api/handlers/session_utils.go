package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"car-advisor/cmd/api/middleware"
	"car-advisor/wizard"
)

const (
	// PreferencesCookie 는 마지막으로 제출한 선호 조건을 1년간 보관한다.
	PreferencesCookie = "userPreferences"
	preferencesMaxAge = 365 * 24 * 60 * 60
)

// sessionID 는 Session 미들웨어가 없는 라우트에서도 빈 값 대신 쿠키를 읽는다.
func sessionID(c *gin.Context) string {
	if sid := middleware.SessionID(c); sid != "" {
		return sid
	}
	sid, _ := c.Cookie(middleware.SessionCookie)
	return sid
}

func savePreferences(c *gin.Context, sel wizard.Selection) {
	b, err := json.Marshal(sel)
	if err != nil {
		return
	}
	// gin 이 값을 URL 인코딩한다.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(PreferencesCookie, string(b), preferencesMaxAge, "/", "", middleware.SecureCookies(c), false)
}

// loadPreferences 는 쿠키가 없거나 깨졌으면 false 를 반환한다.
func loadPreferences(c *gin.Context) (wizard.Selection, bool) {
	raw, err := c.Cookie(PreferencesCookie)
	if err != nil || raw == "" {
		return wizard.Selection{}, false
	}
	var sel wizard.Selection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return wizard.Selection{}, false
	}
	return sel, true
}
