package domain

// User is an identity row referenced by tasks and comments. SubjectID is the
// external identity-provider subject; the numeric UserID is internal only.
type User struct {
	UserID            int    `json:"userId"`
	Username          string `json:"username"`
	Email             string `json:"email,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	SubjectID         string `json:"subjectId,omitempty"`
	TeamID            *int   `json:"teamId,omitempty"`
}
