package models

// Notification is an offline alert addressed to a whole department.
type Notification struct {
	Department string `json:"-"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	TaskID     int    `json:"taskId,omitempty"`
}
