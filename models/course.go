package models

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// StringList is stored as a single JSON column.
type StringList []string

// Course is the stored content document. The whole module/lesson tree lives
// in one JSON column, so every module or lesson mutation is a read of the
// course row, an in-memory edit and a write of the full Modules value.
// Concurrent edits from two admin sessions are last-write-wins.
type Course struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `json:"description"`
	PreviewImageURL string     `json:"preview_image_url"`
	TelegramURL     string     `json:"telegram_url"`
	Highlights      StringList `gorm:"serializer:json" json:"highlights"`
	Requirements    StringList `gorm:"serializer:json" json:"requirements"`
	TargetAudience  StringList `gorm:"serializer:json" json:"target_audience"`
	Modules         ModuleList `gorm:"serializer:json" json:"modules"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ModuleList []Module

type Module struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Order       int      `json:"order"`
	Lessons     []Lesson `json:"lessons"`
}

type Lesson struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	VideoURL    string     `json:"video_url"`
	Order       int        `json:"order"`
	Duration    int        `json:"duration"` // minutes
	Resources   []Resource `json:"resources,omitempty"`
}

type Resource struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Kind  string `json:"kind"` // link or file
}

const (
	TitleModule = "Module"
	TitleLesson = "Lesson"
)

var titlePrefixRe = regexp.MustCompile(`^(Module|Lesson) \d+: `)

// PrefixedTitle embeds the 1-based position (order + 1) into the stored
// title. Stored titles therefore change whenever an item's order changes.
// Any existing prefix is stripped first so that re-saving a form pre-filled
// with the stored title does not stack prefixes.
func PrefixedTitle(kind string, order int, title string) string {
	return fmt.Sprintf("%s %d: %s", kind, order+1, BareTitle(title))
}

// BareTitle strips the position prefix, if present.
func BareTitle(title string) string {
	return titlePrefixRe.ReplaceAllString(title, "")
}

// NextOrder returns the order for a new sibling: one past the highest
// existing order, or 0 for an empty list. Gaps left by deletions are not
// reused.
func NextOrder(orders []int) int {
	max := -1
	for _, o := range orders {
		if o > max {
			max = o
		}
	}
	return max + 1
}

func (c *Course) NextModuleOrder() int {
	orders := make([]int, 0, len(c.Modules))
	for _, m := range c.Modules {
		orders = append(orders, m.Order)
	}
	return NextOrder(orders)
}

func (m *Module) NextLessonOrder() int {
	orders := make([]int, 0, len(m.Lessons))
	for _, l := range m.Lessons {
		orders = append(orders, l.Order)
	}
	return NextOrder(orders)
}

// SortModules sorts modules and every module's lessons ascending by order.
func (c *Course) SortModules() {
	sort.SliceStable(c.Modules, func(i, j int) bool {
		return c.Modules[i].Order < c.Modules[j].Order
	})
	for i := range c.Modules {
		lessons := c.Modules[i].Lessons
		sort.SliceStable(lessons, func(a, b int) bool {
			return lessons[a].Order < lessons[b].Order
		})
	}
}

// FindModule returns the index of the module with the given id, or -1.
func (c *Course) FindModule(moduleID string) int {
	for i := range c.Modules {
		if c.Modules[i].ID == moduleID {
			return i
		}
	}
	return -1
}

// FindLesson returns the lesson with the given id from any module, or nil.
func (c *Course) FindLesson(lessonID string) *Lesson {
	for i := range c.Modules {
		for j := range c.Modules[i].Lessons {
			if c.Modules[i].Lessons[j].ID == lessonID {
				return &c.Modules[i].Lessons[j]
			}
		}
	}
	return nil
}

func (c *Course) TotalLessons() int {
	total := 0
	for _, m := range c.Modules {
		total += len(m.Lessons)
	}
	return total
}

func (c *Course) TotalDuration() int {
	total := 0
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			total += l.Duration
		}
	}
	return total
}

// PreviewLessonID returns the id of the first lesson of the first module,
// the only lesson viewable without access. Assumes a sorted course; empty
// string when the course has no lessons.
func (c *Course) PreviewLessonID() string {
	for _, m := range c.Modules {
		if len(m.Lessons) > 0 {
			return m.Lessons[0].ID
		}
		break
	}
	return ""
}
