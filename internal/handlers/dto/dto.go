package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/thedreamteamconsultancy/workstatus/internal/lifecycle"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/client"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/gem"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/ledger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
)

type CommitmentRequest struct {
	ClientID uuid.UUID           `json:"client_id"`
	Type     task.CommitmentType `json:"type"`
	Quantity int                 `json:"quantity"`
}

type CreateTaskRequest struct {
	GemID       uuid.UUID          `json:"gem_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Deadline    time.Time          `json:"deadline"`
	Priority    task.Priority      `json:"priority,omitempty"`
	DriveMode   task.DriveMode     `json:"drive_mode,omitempty"`
	AssetURL    string             `json:"asset_url,omitempty"`
	UploadURL   string             `json:"upload_url,omitempty"`
	ClientID    *uuid.UUID         `json:"client_id,omitempty"`
	Commitment  *CommitmentRequest `json:"commitment,omitempty"`
}

func (r CreateTaskRequest) Options() []task.TaskOption {
	opts := []task.TaskOption{task.WithDescription(r.Description)}
	if r.Priority != "" {
		opts = append(opts, task.WithPriority(r.Priority))
	}
	opts = append(opts, driveOptions(&r.DriveMode, &r.AssetURL, &r.UploadURL)...)
	switch {
	case r.Commitment != nil:
		opts = append(opts, task.WithCommitment(r.Commitment.ClientID, r.Commitment.Type, r.Commitment.Quantity))
	case r.ClientID != nil:
		opts = append(opts, task.WithClient(*r.ClientID))
	}
	return opts
}

// UpdateTaskRequest is a partial admin edit. Version, when set, must match
// the stored task.
type UpdateTaskRequest struct {
	Version     int                `json:"version,omitempty"`
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Deadline    *time.Time         `json:"deadline,omitempty"`
	Priority    *task.Priority     `json:"priority,omitempty"`
	DriveMode   *task.DriveMode    `json:"drive_mode,omitempty"`
	AssetURL    *string            `json:"asset_url,omitempty"`
	UploadURL   *string            `json:"upload_url,omitempty"`
	ClientID    *uuid.UUID         `json:"client_id,omitempty"`
	Commitment  *CommitmentRequest `json:"commitment,omitempty"`
	Unlink      bool               `json:"unlink_client,omitempty"`
}

func (r UpdateTaskRequest) Options() []task.TaskOption {
	var opts []task.TaskOption
	if r.Title != nil {
		opts = append(opts, task.WithTitle(*r.Title))
	}
	if r.Description != nil {
		opts = append(opts, task.WithDescription(*r.Description))
	}
	if r.Deadline != nil {
		opts = append(opts, task.WithDeadline(*r.Deadline))
	}
	if r.Priority != nil {
		opts = append(opts, task.WithPriority(*r.Priority))
	}
	if r.DriveMode != nil || r.AssetURL != nil || r.UploadURL != nil {
		mode := task.DriveDynamic
		if r.DriveMode != nil {
			mode = *r.DriveMode
		}
		var asset, upload string
		if r.AssetURL != nil {
			asset = *r.AssetURL
		}
		if r.UploadURL != nil {
			upload = *r.UploadURL
		}
		opts = append(opts, driveOptions(&mode, &asset, &upload)...)
	}
	switch {
	case r.Unlink:
		opts = append(opts, task.WithoutClient())
	case r.Commitment != nil:
		opts = append(opts, task.WithCommitment(r.Commitment.ClientID, r.Commitment.Type, r.Commitment.Quantity))
	case r.ClientID != nil:
		opts = append(opts, task.WithClient(*r.ClientID))
	}
	return opts
}

func driveOptions(mode *task.DriveMode, asset, upload *string) []task.TaskOption {
	switch *mode {
	case "":
		return nil
	case task.DriveFixed:
		return []task.TaskOption{task.WithFixedDrive()}
	case task.DriveDynamic:
		return []task.TaskOption{task.WithDynamicDrive(*asset, *upload)}
	default:
		m := *mode
		return []task.TaskOption{func(t *task.Task) { t.DriveMode = m }}
	}
}

type UpdateStatusRequest struct {
	Status task.Status `json:"status"`
}

type VerifyRequest struct {
	Verified bool `json:"verified"`
}

type CompletedQuantityRequest struct {
	CompletedQuantity int `json:"completed_quantity"`
}

// TaskResponse adds the derived category and overdue flag to a task.
type TaskResponse struct {
	*task.Task
	Category task.Category `json:"category"`
	Overdue  bool          `json:"overdue"`
}

func FromTask(t *task.Task, now time.Time, loc *time.Location) TaskResponse {
	return TaskResponse{
		Task:     t,
		Category: lifecycle.Categorize(t, now, loc),
		Overdue:  lifecycle.IsOverdue(t, now) || t.Status == task.StatusDelayed,
	}
}

func FromTaskList(tasks []*task.Task, now time.Time, loc *time.Location) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, now, loc)
	}
	return result
}

type ClientRequest struct {
	BusinessName          string                        `json:"business_name"`
	Phone                 string                        `json:"phone"`
	ProjectType           client.ProjectType            `json:"project_type"`
	CustomProjectType     *string                       `json:"custom_project_type,omitempty"`
	SocialMediaCommitment *client.SocialMediaCommitment `json:"social_media_commitment,omitempty"`
	TotalProjectCost      float64                       `json:"total_project_cost"`
	WorkSplit             client.WorkSplit              `json:"work_split"`
	TravellingCharges     float64                       `json:"travelling_charges"`
}

func (r ClientRequest) ToClient() *client.Client {
	return &client.Client{
		BusinessName:          r.BusinessName,
		Phone:                 r.Phone,
		ProjectType:           r.ProjectType,
		CustomProjectType:     r.CustomProjectType,
		SocialMediaCommitment: r.SocialMediaCommitment,
		TotalProjectCost:      r.TotalProjectCost,
		WorkSplit:             r.WorkSplit,
		CompanySplit:          client.CompanySplit{TravellingCharges: r.TravellingCharges},
	}
}

type MarketingCostRequest struct {
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date,omitempty"`
}

type TravellingChargesRequest struct {
	Amount float64 `json:"amount"`
}

type GemRequest struct {
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Password       string  `json:"password,omitempty"`
	DriveFolderURL *string `json:"drive_folder_url,omitempty"`
	UserID         *string `json:"user_id,omitempty"`
}

func (r GemRequest) ToGem() *gem.Gem {
	return &gem.Gem{
		Name:           r.Name,
		Phone:          r.Phone,
		Email:          r.Email,
		Password:       r.Password,
		DriveFolderURL: r.DriveFolderURL,
		UserID:         r.UserID,
	}
}

type TransactionRequest struct {
	Type        ledger.TransactionType `json:"type"`
	Category    string                 `json:"category"`
	Amount      float64                `json:"amount"`
	Description string                 `json:"description"`
}

// Settings are the operator knobs exposed read-only to the dashboard.
type Settings struct {
	SweepInterval    string `json:"sweep_interval"`
	InFlightCooldown string `json:"inflight_cooldown"`
	MessageRetention int    `json:"message_retention"`
	Timezone         string `json:"timezone"`
	Repository       string `json:"repository"`
	SharedLease      bool   `json:"shared_lease"`
}
