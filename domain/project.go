package domain

import "time"

// Project groups tasks. Lifecycle management beyond create/list is external
// to this service; tasks only reference it.
type Project struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

func (p *Project) Validate() error {
	if p == nil {
		return ErrInvalidPayload
	}
	if p.Name == "" {
		return NewError(ErrCodeInvalid, "name is required")
	}
	return nil
}

// Team is a read-only grouping of users.
type Team struct {
	ID                   int    `json:"id"`
	TeamName             string `json:"teamName"`
	ProductOwnerUserID   *int   `json:"productOwnerUserId,omitempty"`
	ProjectManagerUserID *int   `json:"projectManagerUserId,omitempty"`
}
