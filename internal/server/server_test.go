package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shinyyama/herspace-backend/internal/ai"
	appmw "github.com/shinyyama/herspace-backend/internal/middleware"
	"github.com/shinyyama/herspace-backend/internal/repository"
	"github.com/shinyyama/herspace-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClient struct {
	t       *testing.T
	srv     *Server
	session string
}

func newTestClient(t *testing.T, limiter *appmw.RateLimiter) *testClient {
	reg := service.NewSessionRegistry(repository.NewMemoryKVRepository())
	gw := ai.NewGatewayWithGenerator(nil, ai.GatewayConfig{}, nil)
	srv := New(Deps{Registry: reg, Gateway: gw, AILimiter: limiter, CORSAllowedSuffixes: []string{"vercel.app"}})
	return &testClient{t: t, srv: srv}
}

func (tc *testClient) do(method, path, body string) (int, map[string]interface{}) {
	tc.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.session != "" {
		req.Header.Set(appmw.SessionHeader, tc.session)
	}
	rec := httptest.NewRecorder()
	tc.srv.ServeHTTP(rec, req)
	out := map[string]interface{}{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(tc.t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func (tc *testClient) login(name string) {
	code, body := tc.do(http.MethodPost, "/api/session/login", `{"username":"`+name+`"}`)
	require.Equal(tc.t, http.StatusOK, code)
	tc.session = body["sessionId"].(string)
	require.NotEmpty(tc.t, tc.session)
}

func points(body map[string]interface{}) float64 {
	return body["user"].(map[string]interface{})["points"].(float64)
}

func TestHealthz(t *testing.T) {
	tc := newTestClient(t, nil)
	code, body := tc.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "true", body["ok"])
}

func TestUnknownSessionIsUnauthorized(t *testing.T) {
	tc := newTestClient(t, nil)
	tc.session = "ghost"
	code, body := tc.do(http.MethodPost, "/api/checkin", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", body["error"].(map[string]interface{})["code"])
}

func TestLoginCheckInFlow(t *testing.T) {
	tc := newTestClient(t, nil)
	tc.login("alice")

	code, body := tc.do(http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", body["greeting"])
	assert.Equal(t, false, body["checkedInToday"])
	assert.Equal(t, float64(100), points(body))

	code, body = tc.do(http.MethodPost, "/api/checkin", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["applied"])
	assert.Equal(t, float64(150), points(body))

	code, body = tc.do(http.MethodPost, "/api/checkin", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["applied"])
	assert.Equal(t, service.NoticeAlreadyCheckedIn, body["notice"])
	assert.Equal(t, float64(150), points(body))

	_, body = tc.do(http.MethodPost, "/api/tap", "")
	assert.Equal(t, 150.5, points(body))
}

func TestStoreRedeem(t *testing.T) {
	tc := newTestClient(t, nil)

	code, body := tc.do(http.MethodGet, "/api/store/items", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["items"], 5)

	tc.login("alice")
	code, body = tc.do(http.MethodPost, "/api/store/items/1/redeem", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["applied"])
	assert.Equal(t, float64(100), points(body))

	code, _ = tc.do(http.MethodPost, "/api/store/items/42/redeem", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFeedFlow(t *testing.T) {
	tc := newTestClient(t, nil)
	tc.login("alice")

	_, body := tc.do(http.MethodGet, "/api/feed", "")
	assert.Len(t, body["posts"], 2)

	code, body := tc.do(http.MethodPost, "/api/feed", `{"content":"   "}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["applied"])

	code, body = tc.do(http.MethodPost, "/api/feed", `{"content":"第一次在会上发言","anonymous":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["applied"])
	assert.Equal(t, float64(110), points(body))
	post := body["post"].(map[string]interface{})
	assert.Equal(t, "匿名队友", post["authorName"])
	id := post["id"].(string)

	_, body = tc.do(http.MethodPost, "/api/feed/"+id+"/reactions", `{"kind":"hugs"}`)
	assert.Equal(t, float64(111), points(body))

	code, _ = tc.do(http.MethodPost, "/api/feed/"+id+"/reactions", `{"kind":"likes"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	_, body = tc.do(http.MethodPost, "/api/feed/"+id+"/comments", `{"content":"加油"}`)
	assert.Equal(t, float64(113), points(body))

	_, body = tc.do(http.MethodPost, "/api/feed/"+id+"/tip", "")
	assert.Equal(t, float64(103), points(body))
	assert.Equal(t, float64(10), body["post"].(map[string]interface{})["tips"])

	_, body = tc.do(http.MethodGet, "/api/feed", "")
	posts := body["posts"].([]interface{})
	require.Len(t, posts, 3)
	assert.Equal(t, id, posts[0].(map[string]interface{})["id"])
}

func TestDraftPublish(t *testing.T) {
	tc := newTestClient(t, nil)
	tc.login("alice")

	imgs := make([]string, 12)
	for i := range imgs {
		imgs[i] = `"data:image/png;base64,AA=="`
	}
	_, body := tc.do(http.MethodPost, "/api/feed/draft/images", `{"images":[`+strings.Join(imgs, ",")+`]}`)
	assert.Len(t, body["images"], 9)

	code, body := tc.do(http.MethodDelete, "/api/feed/draft/images/0", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["images"], 8)

	code, _ = tc.do(http.MethodDelete, "/api/feed/draft/images/20", "")
	assert.Equal(t, http.StatusNotFound, code)

	_, body = tc.do(http.MethodPut, "/api/feed/draft/video", `{"video":"blob:clip"}`)
	assert.Equal(t, "blob:clip", body["video"])

	code, body = tc.do(http.MethodPost, "/api/feed/draft/publish", `{"content":"","anonymous":false}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["applied"])
	post := body["post"].(map[string]interface{})
	assert.Len(t, post["images"], 8)
	assert.Equal(t, "alice", post["authorName"])

	_, body = tc.do(http.MethodGet, "/api/feed/draft", "")
	assert.Len(t, body["images"], 0)
	assert.Nil(t, body["video"])
}

func TestFeedDefaultsToAnonymous(t *testing.T) {
	tc := newTestClient(t, nil)
	tc.login("alice")

	_, body := tc.do(http.MethodPost, "/api/feed", `{"content":"没填匿名"}`)
	require.Equal(t, true, body["applied"])
	post := body["post"].(map[string]interface{})
	assert.Equal(t, "匿名队友", post["authorName"])
	id := post["id"].(string)

	_, body = tc.do(http.MethodPost, "/api/feed", `{"content":"署名","anonymous":false}`)
	assert.Equal(t, "alice", body["post"].(map[string]interface{})["authorName"])

	_, body = tc.do(http.MethodPost, "/api/feed/"+id+"/comments", `{"content":"抱抱"}`)
	require.Equal(t, true, body["applied"])
	_, body = tc.do(http.MethodGet, "/api/feed", "")
	comments := body["posts"].([]interface{})[1].(map[string]interface{})["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "匿名队友", comments[0].(map[string]interface{})["authorName"])
}

func TestProfileAndShell(t *testing.T) {
	tc := newTestClient(t, nil)
	tc.login("alice")

	_, body := tc.do(http.MethodPatch, "/api/profile", `{"nickname":"小A","jobTitle":"设计师"}`)
	assert.Equal(t, "小A", body["nickname"])
	assert.Equal(t, "设计师", body["jobTitle"])

	_, body = tc.do(http.MethodPost, "/api/profile/bind/wechat", "")
	assert.Equal(t, true, body["isWechatBound"])
	code, _ := tc.do(http.MethodPost, "/api/profile/bind/qq", "")
	assert.Equal(t, http.StatusBadRequest, code)

	_, body = tc.do(http.MethodPost, "/api/profile/avatar/generate", "")
	assert.Equal(t, false, body["applied"])
	assert.Equal(t, "👑", body["profile"].(map[string]interface{})["avatar"])

	_, body = tc.do(http.MethodGet, "/api/session", "")
	assert.Equal(t, "小A", body["greeting"])

	_, body = tc.do(http.MethodGet, "/api/shell", "")
	assert.Equal(t, "home", body["activeTab"])
	assert.Equal(t, true, body["showTutorial"])

	_, body = tc.do(http.MethodPost, "/api/shell/tutorial/complete", "")
	assert.Equal(t, false, body["showTutorial"])

	code, _ = tc.do(http.MethodPut, "/api/shell/tab", `{"tab":"settings"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	_, body = tc.do(http.MethodPut, "/api/shell/tab", `{"tab":"store"}`)
	assert.Equal(t, "store", body["activeTab"])
	assert.Equal(t, false, body["showTutorial"])
}

func TestAIEndpointsFallBackWithoutClient(t *testing.T) {
	tc := newTestClient(t, nil)
	tc.login("alice")

	code, body := tc.do(http.MethodPost, "/api/ai/rewrite", `{"complaint":"又被甩锅"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, ai.RewriteErrorFallback, body["text"])

	code, _ = tc.do(http.MethodPost, "/api/ai/rewrite", `{"complaint":"  "}`)
	assert.Equal(t, http.StatusBadRequest, code)

	_, body = tc.do(http.MethodPost, "/api/ai/first-aid", `{"situation":"被当众批评"}`)
	assert.Equal(t, ai.FirstAidErrorFallback, body["text"])

	_, body = tc.do(http.MethodGet, "/api/ai/affirmation", "")
	assert.Equal(t, ai.AffirmationErrorFallback.Text, body["text"])

	_, body = tc.do(http.MethodPost, "/api/ai/avatar", `{}`)
	assert.Nil(t, body["url"])
}

func TestAIRateLimit(t *testing.T) {
	limiter := appmw.NewRateLimiter(0, 1, nil)
	defer limiter.Stop()
	tc := newTestClient(t, limiter)
	tc.login("alice")

	code, _ := tc.do(http.MethodGet, "/api/ai/affirmation", "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = tc.do(http.MethodGet, "/api/ai/affirmation", "")
	assert.Equal(t, http.StatusTooManyRequests, code)

	code, _ = tc.do(http.MethodPost, "/api/tap", "")
	assert.Equal(t, http.StatusOK, code, "only /api/ai is limited")
}

func TestAllowOrigin(t *testing.T) {
	allow := allowOrigin([]string{"vercel.app", " herspace.app "})
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:5173", true},
		{"https://127.0.0.1:3000", true},
		{"https://herspace.vercel.app", true},
		{"https://www.herspace.app", true},
		{"https://evil.example.com", false},
		{"ftp://herspace.app", false},
	}
	for _, tt := range tests {
		got, err := allow(tt.origin)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.origin)
	}
}

func TestBodyLimit(t *testing.T) {
	reg := service.NewSessionRegistry(repository.NewMemoryKVRepository())
	gw := ai.NewGatewayWithGenerator(nil, ai.GatewayConfig{}, nil)
	tc := &testClient{t: t, srv: New(Deps{Registry: reg, Gateway: gw, BodyLimit: "2K"})}
	tc.login("alice")

	big := `{"images":["data:image/png;base64,` + strings.Repeat("A", 4096) + `"]}`
	code, _ := tc.do(http.MethodPost, "/api/feed/draft/images", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)

	code, _ = tc.do(http.MethodPost, "/api/feed/draft/images", `{"images":["data:image/png;base64,AA=="]}`)
	assert.Equal(t, http.StatusOK, code)
}
