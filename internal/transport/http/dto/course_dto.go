package dto

type LessonSummary struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	HasVideo bool   `json:"has_video"`
}

type ModuleSummary struct {
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Order       int             `json:"order"`
	Lessons     []LessonSummary `json:"lessons"`
}

type CourseOverviewResponse struct {
	Modules      []ModuleSummary `json:"modules"`
	TotalLessons int             `json:"total_lessons"`
}

type ModuleResponse struct {
	Module ModuleSummary `json:"module"`
}

// LessonRef points at a neighboring lesson for previous/next navigation.
type LessonRef struct {
	ModuleSlug string `json:"module_slug"`
	LessonSlug string `json:"lesson_slug"`
	Title      string `json:"title"`
}

type LessonResponse struct {
	ModuleSlug  string     `json:"module_slug"`
	ModuleTitle string     `json:"module_title"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	EmbedURL    string     `json:"embed_url,omitempty"`
	Content     string     `json:"content,omitempty"`
	Previous    *LessonRef `json:"previous,omitempty"`
	Next        *LessonRef `json:"next,omitempty"`
}

type EntitlementResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	HasPaid bool   `json:"has_paid"`
	PaidAt  string `json:"paid_at,omitempty"`
}
