package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/catalog"
)

func newCourseRouter(t *testing.T) chi.Router {
	t.Helper()

	cat, err := catalog.New(catalog.Course())
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}

	handler := NewCourseHandler(cat)
	r := chi.NewRouter()
	r.Get("/api/course", handler.Overview)
	r.Get("/api/course/{module}", handler.Module)
	r.Get("/api/course/{module}/{lesson}", handler.Lesson)
	return r
}

func TestCourseOverview(t *testing.T) {
	router := newCourseRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/course", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Modules      []json.RawMessage `json:"modules"`
		TotalLessons int               `json:"total_lessons"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Modules) != 9 {
		t.Fatalf("expected 9 modules, got %d", len(resp.Modules))
	}
	if resp.TotalLessons == 0 {
		t.Fatal("expected a non-zero lesson count")
	}
}

func TestCourseLessonHasEmbedURLAndNeighbors(t *testing.T) {
	router := newCourseRouter(t)

	modules := catalog.Course()
	module := modules[0]
	if len(module.Lessons) < 2 {
		t.Fatalf("fixture module %q needs at least 2 lessons", module.Slug)
	}
	lesson := module.Lessons[1]

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/course/"+module.Slug+"/"+lesson.Slug, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Slug     string `json:"slug"`
		EmbedURL string `json:"embed_url"`
		Previous *struct {
			LessonSlug string `json:"lesson_slug"`
		} `json:"previous"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Slug != lesson.Slug {
		t.Fatalf("expected lesson %q, got %q", lesson.Slug, resp.Slug)
	}
	if lesson.VideoURL != "" && resp.EmbedURL == "" {
		t.Fatal("expected an embed url for a video lesson")
	}
	if resp.Previous == nil || resp.Previous.LessonSlug != module.Lessons[0].Slug {
		t.Fatalf("expected previous lesson %q, got %+v", module.Lessons[0].Slug, resp.Previous)
	}
}

func TestCourseUnknownSlugsAre404(t *testing.T) {
	router := newCourseRouter(t)

	for _, path := range []string{
		"/api/course/no-such-module",
		"/api/course/introduktion-til-midjourney/no-such-lesson",
		"/api/course/no-such-module/no-such-lesson",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d", path, rec.Code)
		}
	}
}
