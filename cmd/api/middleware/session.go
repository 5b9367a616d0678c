package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"car-advisor/cmd/api/trace"
)

const (
	// SessionCookie 는 브라우징 세션 쿠키 이름이다.
	SessionCookie = "advisor_session"
	HeaderSession = "X-Session-Id"

	ctxKeySession       = "session_id"
	ctxKeySecureCookies = "secure_cookies"
)

// Session 은 요청마다 브라우징 세션 ID 를 정한다. 쿠키, 헤더 순으로 찾고 없으면 새로 발급한다.
func Session(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, _ := c.Cookie(SessionCookie)
		if sid == "" {
			sid = strings.TrimSpace(c.GetHeader(HeaderSession))
		}
		if sid == "" || len(sid) > 128 {
			sid = uuid.NewString()
		}

		c.Set(ctxKeySession, sid)
		c.Set(ctxKeySecureCookies, secure)
		c.Request = c.Request.WithContext(trace.WithSession(c.Request.Context(), sid))
		c.Header(HeaderSession, sid)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sid, 0, "/", "", secure, true)

		c.Next()
	}
}

// SessionID 는 Session 미들웨어가 정한 ID 를 반환한다.
func SessionID(c *gin.Context) string {
	return c.GetString(ctxKeySession)
}

// SecureCookies 는 핸들러가 쓰는 쿠키에도 Session 미들웨어와 같은 Secure 설정을 적용하게 한다.
func SecureCookies(c *gin.Context) bool {
	return c.GetBool(ctxKeySecureCookies)
}
