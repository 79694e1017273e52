package models

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Task is the stored shape of a task. Done is exposed as "completed" by the
// API layer; this struct never goes over the wire directly.
type Task struct {
	ID       int    `json:"id"`
	AuthorID int    `json:"author_id"`
	Title    string `json:"title"`
	Done     bool   `json:"done"`
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title *string
	Done  *bool
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Done == nil
}
