package model

import "time"

// swagger:model LessonPlan
type LessonPlan struct {
	Topic      string   `json:"topic"`
	Grade      string   `json:"grade"`
	Duration   string   `json:"duration"`
	Objectives []string `json:"objectives" validate:"required,min=1,dive,required"`
	Activities []string `json:"activities" validate:"required,min=1,dive,required"`
	Assessment string   `json:"assessment" validate:"required"`
}

// swagger:model Flashcard
type Flashcard struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back" validate:"required"`
}

// swagger:model Assignment
type Assignment struct {
	Title        string   `json:"title" validate:"required"`
	Instructions string   `json:"instructions" validate:"required"`
	Tasks        []string `json:"tasks" validate:"required,min=1,dive,required"`
	Rubric       []string `json:"rubric"`
}

// swagger:model Certificate
type Certificate struct {
	StudentID    string    `json:"studentId"`
	CourseID     string    `json:"courseId"`
	StudentName  string    `json:"studentName"`
	CourseTitle  string    `json:"courseTitle"`
	Score        float64   `json:"score"`
	Commendation string    `json:"commendation"`
	URL          string    `json:"url"`
	IssuedAt     time.Time `json:"issuedAt"`
}

// ChatMessage is one turn of a tutoring conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}
