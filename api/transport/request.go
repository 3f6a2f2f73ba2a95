package transport

type TaskRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	Priority       string `json:"priority"`
	Tags           string `json:"tags"`
	StartDate      string `json:"startDate"`
	DueDate        string `json:"dueDate"`
	Points         *int   `json:"points"`
	ProjectID      int    `json:"projectId"`
	AuthorUserID   *int   `json:"authorUserId"`
	AssignedUserID *int   `json:"assignedUserId"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type CommentRequest struct {
	UserSub string `json:"userSub"`
	Text    string `json:"text"`
}

type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}
