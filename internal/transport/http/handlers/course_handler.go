package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/catalog"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/dto"
	httperrors "github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/errors"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/video"
)

type CourseHandler struct {
	catalog *catalog.Catalog
}

func NewCourseHandler(cat *catalog.Catalog) *CourseHandler {
	return &CourseHandler{catalog: cat}
}

// Overview returns the full course structure for the curriculum page.
func (h *CourseHandler) Overview(w http.ResponseWriter, _ *http.Request) {
	modules := h.catalog.Modules()
	out := make([]dto.ModuleSummary, 0, len(modules))
	for _, module := range modules {
		out = append(out, moduleSummary(module))
	}

	httperrors.Write(w, http.StatusOK, dto.CourseOverviewResponse{
		Modules:      out,
		TotalLessons: h.catalog.TotalLessons(),
	})
}

func (h *CourseHandler) Module(w http.ResponseWriter, r *http.Request) {
	module, err := h.catalog.FindModule(chi.URLParam(r, "module"))
	if err != nil {
		writeNotFound(w, "MODULE_NOT_FOUND", "unknown module")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ModuleResponse{Module: moduleSummary(module)})
}

// Lesson returns one lesson with its playable embed URL and the
// previous/next navigation references.
func (h *CourseHandler) Lesson(w http.ResponseWriter, r *http.Request) {
	moduleSlug := chi.URLParam(r, "module")
	lessonSlug := chi.URLParam(r, "lesson")

	module, lesson, err := h.catalog.FindLesson(moduleSlug, lessonSlug)
	if err != nil {
		if errors.Is(err, catalog.ErrModuleNotFound) {
			writeNotFound(w, "MODULE_NOT_FOUND", "unknown module")
			return
		}
		writeNotFound(w, "LESSON_NOT_FOUND", "unknown lesson")
		return
	}

	previous, next := h.catalog.Neighbors(moduleSlug, lessonSlug)

	resp := dto.LessonResponse{
		ModuleSlug:  module.Slug,
		ModuleTitle: module.Title,
		Slug:        lesson.Slug,
		Title:       lesson.Title,
		Content:     lesson.Content,
		Previous:    lessonRef(previous),
		Next:        lessonRef(next),
	}
	if lesson.VideoURL != "" {
		resp.EmbedURL = video.EmbedURL(lesson.VideoURL)
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func moduleSummary(module catalog.Module) dto.ModuleSummary {
	lessons := make([]dto.LessonSummary, 0, len(module.Lessons))
	for _, lesson := range module.Lessons {
		lessons = append(lessons, dto.LessonSummary{
			Slug:     lesson.Slug,
			Title:    lesson.Title,
			Order:    lesson.Order,
			HasVideo: lesson.VideoURL != "",
		})
	}

	return dto.ModuleSummary{
		Slug:        module.Slug,
		Title:       module.Title,
		Description: module.Description,
		Order:       module.Order,
		Lessons:     lessons,
	}
}

func lessonRef(position *catalog.Position) *dto.LessonRef {
	if position == nil {
		return nil
	}
	return &dto.LessonRef{
		ModuleSlug: position.ModuleSlug,
		LessonSlug: position.LessonSlug,
		Title:      position.Title,
	}
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}
