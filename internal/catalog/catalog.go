package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrModuleNotFound = errors.New("module not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

type Lesson struct {
	Slug     string
	Title    string
	VideoURL string
	Content  string
	Order    int
}

type Module struct {
	Slug        string
	Title       string
	Description string
	Order       int
	Lessons     []Lesson
}

// Position identifies a lesson inside the course for navigation links.
type Position struct {
	ModuleSlug string
	LessonSlug string
	Title      string
}

// Catalog is the immutable course structure, validated and indexed once at
// startup. Safe for unlimited concurrent readers.
type Catalog struct {
	modules   []Module
	moduleIdx map[string]int
	lessonIdx map[string]map[string]int
	flat      []Position
}

// New validates the declared module order and builds the lookup indexes.
// Slugs must be unique within their scope and ordinals strictly increasing.
func New(modules []Module) (*Catalog, error) {
	c := &Catalog{
		modules:   modules,
		moduleIdx: make(map[string]int, len(modules)),
		lessonIdx: make(map[string]map[string]int, len(modules)),
	}

	lastModuleOrder := 0
	for mi, m := range modules {
		slug := strings.TrimSpace(m.Slug)
		if slug == "" {
			return nil, fmt.Errorf("module %d has empty slug", mi)
		}
		if _, exists := c.moduleIdx[slug]; exists {
			return nil, fmt.Errorf("duplicate module slug %q", slug)
		}
		if m.Order <= lastModuleOrder {
			return nil, fmt.Errorf("module %q order %d is not increasing", slug, m.Order)
		}
		lastModuleOrder = m.Order

		c.moduleIdx[slug] = mi
		lessons := make(map[string]int, len(m.Lessons))
		lastLessonOrder := 0
		for li, l := range m.Lessons {
			lslug := strings.TrimSpace(l.Slug)
			if lslug == "" {
				return nil, fmt.Errorf("module %q lesson %d has empty slug", slug, li)
			}
			if _, exists := lessons[lslug]; exists {
				return nil, fmt.Errorf("duplicate lesson slug %q in module %q", lslug, slug)
			}
			if l.Order <= lastLessonOrder {
				return nil, fmt.Errorf("lesson %q/%q order %d is not increasing", slug, lslug, l.Order)
			}
			lastLessonOrder = l.Order

			lessons[lslug] = li
			c.flat = append(c.flat, Position{
				ModuleSlug: slug,
				LessonSlug: lslug,
				Title:      l.Title,
			})
		}
		c.lessonIdx[slug] = lessons
	}

	return c, nil
}

// Modules returns the modules in declared order.
func (c *Catalog) Modules() []Module {
	return c.modules
}

func (c *Catalog) FindModule(slug string) (Module, error) {
	idx, ok := c.moduleIdx[slug]
	if !ok {
		return Module{}, ErrModuleNotFound
	}
	return c.modules[idx], nil
}

func (c *Catalog) FindLesson(moduleSlug, lessonSlug string) (Module, Lesson, error) {
	module, err := c.FindModule(moduleSlug)
	if err != nil {
		return Module{}, Lesson{}, err
	}

	li, ok := c.lessonIdx[moduleSlug][lessonSlug]
	if !ok {
		return Module{}, Lesson{}, ErrLessonNotFound
	}
	return module, module.Lessons[li], nil
}

// Neighbors resolves the previous and next lesson in flattened course order.
// An unknown pair yields two nils rather than an error, matching the site's
// historical behavior of rendering a page without navigation links.
func (c *Catalog) Neighbors(moduleSlug, lessonSlug string) (previous, next *Position) {
	current := -1
	for i, pos := range c.flat {
		if pos.ModuleSlug == moduleSlug && pos.LessonSlug == lessonSlug {
			current = i
			break
		}
	}
	if current == -1 {
		return nil, nil
	}

	if current > 0 {
		p := c.flat[current-1]
		previous = &p
	}
	if current < len(c.flat)-1 {
		n := c.flat[current+1]
		next = &n
	}
	return previous, next
}

// TotalLessons counts every lesson across all modules.
func (c *Catalog) TotalLessons() int {
	return len(c.flat)
}
