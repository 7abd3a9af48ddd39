package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID        uuid.UUID `json:"id" db:"uuid"`
	GemID       uuid.UUID `json:"gem_id" db:"gem_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Deadline    time.Time `json:"deadline" db:"deadline"`
	Priority    Priority  `json:"priority" db:"priority"`
	Status      Status    `json:"status" db:"status"`

	DriveMode DriveMode `json:"drive_mode" db:"drive_mode"`
	AssetURL  *string   `json:"asset_url,omitempty" db:"asset_url"`
	UploadURL *string   `json:"upload_url,omitempty" db:"upload_url"`

	ClientID          *uuid.UUID      `json:"client_id,omitempty" db:"client_id"`
	CommitmentType    *CommitmentType `json:"commitment_type,omitempty" db:"commitment_type"`
	Quantity          *int            `json:"quantity,omitempty" db:"quantity"`
	CompletedQuantity *int            `json:"completed_quantity,omitempty" db:"completed_quantity"`
	AdminVerified     *bool           `json:"admin_verified,omitempty" db:"admin_verified"`

	DelayedAt   *time.Time `json:"delayed_at,omitempty" db:"delayed_at"`
	AutoDelayed bool       `json:"auto_delayed" db:"auto_delayed"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Version   int       `json:"version" db:"version"`
}

type Status string
type Priority string
type DriveMode string
type CommitmentType string
type Category string

const (
	StatusPending   Status = "pending"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusDelayed   Status = "delayed"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityUrgent Priority = "urgent"
)

const (
	DriveFixed   DriveMode = "fixed"
	DriveDynamic DriveMode = "dynamic"
)

const (
	CommitmentRealVideo        CommitmentType = "realVideo"
	CommitmentAIVideo          CommitmentType = "aiVideo"
	CommitmentPoster           CommitmentType = "poster"
	CommitmentDigitalMarketing CommitmentType = "digitalMarketing"
	CommitmentOther            CommitmentType = "other"
)

const (
	CategoryPresent Category = "present"
	CategoryFuture  Category = "future"
	CategoryPast    Category = "past"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusOngoing, StatusCompleted, StatusDelayed:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityUrgent:
		return true
	}
	return false
}

func (d DriveMode) Valid() bool {
	return d == DriveFixed || d == DriveDynamic
}

func (c CommitmentType) Valid() bool {
	switch c {
	case CommitmentRealVideo, CommitmentAIVideo, CommitmentPoster, CommitmentDigitalMarketing, CommitmentOther:
		return true
	}
	return false
}

// CommitmentTypes lists every commitment type in display order.
func CommitmentTypes() []CommitmentType {
	return []CommitmentType{
		CommitmentRealVideo,
		CommitmentAIVideo,
		CommitmentPoster,
		CommitmentDigitalMarketing,
		CommitmentOther,
	}
}

// HasCommitment reports whether the task carries a deliverable quantity.
func (t *Task) HasCommitment() bool {
	return t.CommitmentType != nil && t.Quantity != nil
}

func (t *Task) LinkedTo(clientID uuid.UUID) bool {
	return t.ClientID != nil && *t.ClientID == clientID
}

func (t *Task) IsVerified() bool {
	return t.AdminVerified != nil && *t.AdminVerified
}

// Clone returns a deep copy so callers can mutate snapshots freely.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.AssetURL = clonePtr(t.AssetURL)
	c.UploadURL = clonePtr(t.UploadURL)
	c.ClientID = clonePtr(t.ClientID)
	c.CommitmentType = clonePtr(t.CommitmentType)
	c.Quantity = clonePtr(t.Quantity)
	c.CompletedQuantity = clonePtr(t.CompletedQuantity)
	c.AdminVerified = clonePtr(t.AdminVerified)
	c.DelayedAt = clonePtr(t.DelayedAt)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr is a small helper for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
