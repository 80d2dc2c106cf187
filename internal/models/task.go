package models

import "time"

// Статусы задачи. Цепочка строго вперёд: waiting -> in_work -> done.
const (
	TaskStatusWaiting = "waiting"
	TaskStatusInWork  = "in_work"
	TaskStatusDone    = "done"
)

type Task struct {
	ID        int64      `json:"id"`
	ClientID  int64      `json:"client_id"`           // владелец, не меняется после создания
	WorkerID  *int64     `json:"worker_id,omitempty"` // nil пока задача ожидает исполнителя
	Status    string     `json:"status"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	EndAt     *time.Time `json:"end_at,omitempty"`
	Version   int64      `json:"version"`
}

// Claimed сообщает, взята ли задача исполнителем.
func (t *Task) Claimed() bool {
	return t.WorkerID != nil
}
