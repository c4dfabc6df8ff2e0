package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/vxrank/internal/entity"
	catalog "anoa.com/vxrank/internal/modules/catalog/service"
	handler "anoa.com/vxrank/internal/modules/progression/delivery/http"
	progressionDto "anoa.com/vxrank/internal/modules/progression/dto"
	progression "anoa.com/vxrank/internal/modules/progression/service"
	"anoa.com/vxrank/internal/testutil"
	"github.com/gin-gonic/gin"
)

func newRouter(t *testing.T, profiles ...entity.Profile) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := testutil.NewRepo(t)
	testutil.Seed(t, repo, profiles...)
	cat := catalog.MustLoad()
	engine := progression.NewEngine(cat, progression.WithClock(func() time.Time {
		return time.Date(2026, 5, 9, 18, 0, 0, 0, time.UTC)
	}))
	h := handler.NewProgressionHandler(progression.NewProgressionService(repo, cat, engine), cat)

	r := gin.New()
	r.GET("/tricks", h.ListTricks)
	auth := r.Group("/", func(c *gin.Context) {
		if u := c.GetHeader("X-User"); u != "" {
			c.Set("username", u)
		}
		c.Next()
	})
	auth.GET("/progress", h.GetProgress)
	auth.POST("/tricks/manual", h.LogManualTrick)
	auth.POST("/rank/reset", h.ResetProgress)
	return r
}

func do(r *gin.Engine, method, path, user string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListTricks(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/tricks?sport=Scooter", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Tricks []entity.Trick `json:"tricks"`
		Total  int            `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Total == 0 || body.Tricks[0].Rank != entity.RankBronze {
		t.Errorf("unexpected catalog: %+v", body)
	}

	if w := do(r, http.MethodGet, "/tricks?sport=Luge", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown sport, got %d", w.Code)
	}
}

func TestLogManualTrick(t *testing.T) {
	r := newRouter(t, testutil.Rider("sk8"))

	w := do(r, http.MethodPost, "/tricks/manual", "sk8", progressionDto.LogTrickInput{TrickName: "Ollie"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var res progressionDto.TrickLogResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.XPEarned != 10 || res.Progress.CompletedCount != 1 {
		t.Errorf("unexpected response: %+v", res)
	}
}

func TestLogManualTrick_Errors(t *testing.T) {
	r := newRouter(t, testutil.Rider("sk8"), entity.NewProfile("newbie", time.Now()))

	tests := []struct {
		name string
		user string
		body any
		want int
	}{
		{"no auth", "", progressionDto.LogTrickInput{TrickName: "Ollie"}, http.StatusUnauthorized},
		{"missing trick name", "sk8", map[string]string{}, http.StatusBadRequest},
		{"wrong rank", "sk8", progressionDto.LogTrickInput{TrickName: "Nollie"}, http.StatusBadRequest},
		{"not onboarded", "newbie", progressionDto.LogTrickInput{TrickName: "Ollie"}, http.StatusConflict},
		{"unknown rider", "ghost", progressionDto.LogTrickInput{TrickName: "Ollie"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/tricks/manual", tt.user, tt.body)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetProgressAndReset(t *testing.T) {
	r := newRouter(t, testutil.Rider("sk8"))
	do(r, http.MethodPost, "/tricks/manual", "sk8", progressionDto.LogTrickInput{TrickName: "Ollie"})

	w := do(r, http.MethodGet, "/progress", "sk8", nil)
	var progress progressionDto.ProgressResponse
	json.Unmarshal(w.Body.Bytes(), &progress)
	if progress.Progress.Percent != 25 {
		t.Fatalf("expected 25%%, got %+v", progress.Progress)
	}

	w = do(r, http.MethodPost, "/rank/reset?sport=Skateboard", "sk8", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/progress", "sk8", nil)
	json.Unmarshal(w.Body.Bytes(), &progress)
	if progress.Progress.CompletedCount != 0 {
		t.Errorf("expected empty completion set after reset, got %+v", progress.Progress)
	}
}
