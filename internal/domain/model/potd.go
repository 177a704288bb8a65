package model

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

type Tag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// POTD is LeetCode's daily featured problem.
type POTD struct {
	Date       string     `json:"date"`
	Link       string     `json:"link"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	FrontendID string     `json:"frontendId"`
	Difficulty Difficulty `json:"difficulty"`
	AcRate     float64    `json:"acRate"`
	Tags       []Tag      `json:"tags"`
}
