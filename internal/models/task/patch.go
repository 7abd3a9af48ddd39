package task

import (
	"time"

	"github.com/google/uuid"
)

// Patch is a partial task record. Nil fields are left untouched; the Clear*
// flags remove optional fields.
type Patch struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	Priority    *Priority
	Status      *Status

	DriveMode *DriveMode
	AssetURL  *string
	UploadURL *string
	ClearURLs bool

	ClientID          *uuid.UUID
	CommitmentType    *CommitmentType
	Quantity          *int
	CompletedQuantity *int
	AdminVerified     *bool
	ClearClient       bool
	ClearCommitment   bool

	DelayedAt   *time.Time
	AutoDelayed *bool

	UpdatedAt time.Time

	// ExpectedVersion, when non-zero, makes the write conditional on the
	// stored version.
	ExpectedVersion int
}

// Apply writes the patch onto t in place.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DriveMode != nil {
		t.DriveMode = *p.DriveMode
	}
	if p.ClearURLs {
		t.AssetURL = nil
		t.UploadURL = nil
	}
	if p.AssetURL != nil {
		t.AssetURL = clonePtr(p.AssetURL)
	}
	if p.UploadURL != nil {
		t.UploadURL = clonePtr(p.UploadURL)
	}
	if p.ClearClient {
		t.ClientID = nil
		t.AdminVerified = nil
		p.ClearCommitment = true
	}
	if p.ClearCommitment {
		t.CommitmentType = nil
		t.Quantity = nil
		t.CompletedQuantity = nil
	}
	if p.ClientID != nil {
		t.ClientID = clonePtr(p.ClientID)
	}
	if p.CommitmentType != nil {
		t.CommitmentType = clonePtr(p.CommitmentType)
	}
	if p.Quantity != nil {
		t.Quantity = clonePtr(p.Quantity)
	}
	if p.CompletedQuantity != nil {
		t.CompletedQuantity = clonePtr(p.CompletedQuantity)
	}
	if p.AdminVerified != nil {
		t.AdminVerified = clonePtr(p.AdminVerified)
	}
	if p.DelayedAt != nil {
		t.DelayedAt = clonePtr(p.DelayedAt)
	}
	if p.AutoDelayed != nil {
		t.AutoDelayed = *p.AutoDelayed
	}
	if !p.UpdatedAt.IsZero() {
		t.UpdatedAt = p.UpdatedAt
	}
}
