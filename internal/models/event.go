package models

// EventName is the realtime event every task lifecycle message is published under.
const EventName = "task_update"

type EventType string

const (
	EventTaskCreated       EventType = "task_created"
	EventTaskStatusChanged EventType = "task_status_changed"
	EventTaskCommented     EventType = "task_commented"
	EventTaskDue           EventType = "task_due"
)

// TaskEvent is the single realtime contract for task changes. Which optional
// fields are set depends on Type.
type TaskEvent struct {
	Event   string    `json:"event"`
	Type    EventType `json:"type"`
	Task    *Task     `json:"task,omitempty"`
	ID      int       `json:"id,omitempty"`
	Status  string    `json:"status,omitempty"`
	Comment *Comment  `json:"comment,omitempty"`
}

func TaskCreated(task Task) TaskEvent {
	return TaskEvent{Event: EventName, Type: EventTaskCreated, Task: &task, ID: task.ID}
}

func TaskStatusChanged(id int, status string) TaskEvent {
	return TaskEvent{Event: EventName, Type: EventTaskStatusChanged, ID: id, Status: status}
}

func TaskCommented(id int, comment Comment) TaskEvent {
	return TaskEvent{Event: EventName, Type: EventTaskCommented, ID: id, Comment: &comment}
}

// TaskDue announces that an open task reaches its due date soon.
func TaskDue(task Task) TaskEvent {
	return TaskEvent{Event: EventName, Type: EventTaskDue, Task: &task, ID: task.ID}
}
