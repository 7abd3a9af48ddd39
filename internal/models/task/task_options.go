package task

import (
	"time"

	"github.com/google/uuid"
)

type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithDeadline(deadline time.Time) TaskOption {
	return func(task *Task) {
		task.Deadline = deadline
	}
}

func WithPriority(priority Priority) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

// WithDynamicDrive switches the task to task-specific links. Empty strings are
// treated as absent.
func WithDynamicDrive(assetURL, uploadURL string) TaskOption {
	return func(task *Task) {
		task.DriveMode = DriveDynamic
		task.AssetURL = optionalString(assetURL)
		task.UploadURL = optionalString(uploadURL)
	}
}

func WithFixedDrive() TaskOption {
	return func(task *Task) {
		task.DriveMode = DriveFixed
		task.AssetURL = nil
		task.UploadURL = nil
	}
}

// WithCommitment links the task to a client deliverable. A verification flag
// is always carried once a client is set.
func WithCommitment(clientID uuid.UUID, kind CommitmentType, quantity int) TaskOption {
	return func(task *Task) {
		task.ClientID = &clientID
		task.CommitmentType = &kind
		task.Quantity = &quantity
		if task.CompletedQuantity == nil {
			task.CompletedQuantity = Ptr(0)
		}
		if task.AdminVerified == nil {
			task.AdminVerified = Ptr(false)
		}
	}
}

// WithClient links a client without a deliverable quantity.
func WithClient(clientID uuid.UUID) TaskOption {
	return func(task *Task) {
		task.ClientID = &clientID
		task.CommitmentType = nil
		task.Quantity = nil
		task.CompletedQuantity = nil
		if task.AdminVerified == nil {
			task.AdminVerified = Ptr(false)
		}
	}
}

func WithoutClient() TaskOption {
	return func(task *Task) {
		task.ClientID = nil
		task.CommitmentType = nil
		task.Quantity = nil
		task.CompletedQuantity = nil
		task.AdminVerified = nil
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
