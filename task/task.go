package task

// Task is a transient copy of a record owned by the backend.
type Task struct {
	// ID is assigned by the server and never changes.
	ID int `json:"id"`

	// Title is the short summary of the task (max 100 chars on the server).
	Title string `json:"titulo"`

	// Description provides additional context about the task.
	Description string `json:"descripcion"`

	// Status is the current state of the task.
	Status Status `json:"estado"`

	// Priority is the importance level.
	Priority Priority `json:"prioridad"`

	// CreatedAt is when the server created the task (nil if not reported).
	CreatedAt *Timestamp `json:"fecha_creacion,omitempty"`

	// DueAt is the optional due date (nil when none).
	DueAt *Timestamp `json:"fecha_vencimiento"`
}

// MaxTitleLength is the maximum title length the backend accepts.
const MaxTitleLength = 100

// Pagination describes where a Page sits in the filtered collection.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`

	// The fields below are reported by the backend but not required.
	TotalItems int  `json:"total_items,omitempty"`
	PerPage    int  `json:"per_page,omitempty"`
	HasPrev    bool `json:"has_prev,omitempty"`
}

// Page is one server-returned batch of tasks.
type Page struct {
	Items      []Task     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Payload is the request body for create and update.
type Payload struct {
	Title       string     `json:"titulo"`
	Description string     `json:"descripcion"`
	Status      Status     `json:"estado"`
	Priority    Priority   `json:"prioridad"`
	DueAt       *Timestamp `json:"fecha_vencimiento"`
}
