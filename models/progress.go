package models

import (
	"math"
	"time"
)

// ProgressRecord holds one user's completion state for one course. Records
// are created lazily on first access and never deleted. Completed lesson ids
// are weak references: a lesson deleted after being recorded simply stops
// counting toward the percentage.
type ProgressRecord struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"uniqueIndex:idx_progress_user_course" json:"user_id"`
	CourseID             uint       `gorm:"uniqueIndex:idx_progress_user_course" json:"course_id"`
	CompletedLessons     StringList `gorm:"serializer:json" json:"completed_lessons"`
	LastAccessedAt       time.Time  `json:"last_accessed_at"`
	CertificateGenerated bool       `gorm:"default:false" json:"certificate_generated"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Completed reports whether the lesson id is in the completed set.
func (p *ProgressRecord) Completed(lessonID string) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// PercentComplete returns the rounded completion percentage of the course,
// in [0,100]. A course with no lessons is 0. Ids in the completed set that
// no longer exist in the course are ignored.
func (p *ProgressRecord) PercentComplete(course *Course) int {
	total := course.TotalLessons()
	if total == 0 {
		return 0
	}
	done := 0
	for _, m := range course.Modules {
		for _, l := range m.Lessons {
			if p.Completed(l.ID) {
				done++
			}
		}
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
