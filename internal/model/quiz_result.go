package model

import "time"

// QuizResult is one student's scored submission for a course.
// swagger:model QuizResult
type QuizResult struct {
	ID             string         `json:"id"`
	StudentID      string         `json:"studentId"`
	CourseID       string         `json:"courseId"`
	Score          float64        `json:"score"` // 0-100
	CorrectAnswers int            `json:"correctAnswers"`
	TotalQuestions int            `json:"totalQuestions"`
	Answers        map[int]string `json:"answers"`
	SubmittedAt    time.Time      `json:"submittedAt"`
	Graded         bool           `json:"graded"`
}

// QuizSubmission is the input of a result upsert.
type QuizSubmission struct {
	StudentID      string
	CourseID       string
	Score          float64
	CorrectAnswers int
	TotalQuestions int
	Answers        map[int]string
}

// Percentage derives the score from the raw counts.
func (r *QuizResult) Percentage() float64 {
	if r.TotalQuestions <= 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(r.TotalQuestions) * 100
}

func (r QuizResult) Clone() QuizResult {
	if r.Answers != nil {
		answers := make(map[int]string, len(r.Answers))
		for k, v := range r.Answers {
			answers[k] = v
		}
		r.Answers = answers
	}
	return r
}

// ScorePercent converts raw counts to the canonical 0-100 score.
func ScorePercent(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

type PerformanceStatus string

const (
	StatusExcelling   PerformanceStatus = "Excelling"
	StatusOnTrack     PerformanceStatus = "On Track"
	StatusNeedsHelp   PerformanceStatus = "Needs Help"
	StatusNoQuizTaken PerformanceStatus = "No Quiz Taken"
)
