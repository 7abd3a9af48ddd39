package gem

import (
	"time"

	"github.com/google/uuid"
)

// Gem is a worker identity. Password is the login secret handed to the
// external auth collaborator and never leaves the service in responses.
type Gem struct {
	UUID           uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Password       string     `json:"-"`
	DriveFolderURL *string    `json:"drive_folder_url,omitempty"`
	UserID         *string    `json:"user_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

func (g *Gem) Clone() *Gem {
	if g == nil {
		return nil
	}
	c := *g
	if g.DriveFolderURL != nil {
		v := *g.DriveFolderURL
		c.DriveFolderURL = &v
	}
	if g.UserID != nil {
		v := *g.UserID
		c.UserID = &v
	}
	if g.UpdatedAt != nil {
		v := *g.UpdatedAt
		c.UpdatedAt = &v
	}
	return &c
}
