package models

import "time"

const (
	StatusOpen   = "abierto"
	StatusClosed = "cerrado"
)

// Task is a unit of work owned by a department.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Department  string     `json:"department"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Comments    []Comment  `json:"comments"`
}

// Comment is a single append-only note on a task.
type Comment struct {
	Text   string    `json:"text"`
	Author string    `json:"author"`
	Date   time.Time `json:"date"`
}
