package client

import (
	"time"

	"github.com/google/uuid"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
)

type ProjectType string

const (
	ProjectWebsite                ProjectType = "website"
	ProjectSocialMediaManagement  ProjectType = "social_media_management"
	ProjectAds                    ProjectType = "ads"
	ProjectDigitalMarketing       ProjectType = "digital_marketing"
	ProjectAdsAndDigitalMarketing ProjectType = "ads_digital_marketing"
	ProjectCustom                 ProjectType = "custom"
)

func (p ProjectType) Valid() bool {
	switch p {
	case ProjectWebsite, ProjectSocialMediaManagement, ProjectAds,
		ProjectDigitalMarketing, ProjectAdsAndDigitalMarketing, ProjectCustom:
		return true
	}
	return false
}

type Client struct {
	UUID              uuid.UUID   `json:"id"`
	BusinessName      string      `json:"business_name"`
	Phone             string      `json:"phone"`
	ProjectType       ProjectType `json:"project_type"`
	CustomProjectType *string     `json:"custom_project_type,omitempty"`

	SocialMediaCommitment *SocialMediaCommitment `json:"social_media_commitment,omitempty"`

	TotalProjectCost float64      `json:"total_project_cost"`
	WorkSplit        WorkSplit    `json:"work_split"`
	CompanySplit     CompanySplit `json:"company_split"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SocialMediaCommitment holds the deliverable ceilings promised to the client.
type SocialMediaCommitment struct {
	RealVideos            int `json:"real_videos"`
	AIVideos              int `json:"ai_videos"`
	Posters               int `json:"posters"`
	DigitalMarketingViews int `json:"digital_marketing_views"`
}

// Ceiling returns the target for a commitment type. ok is false when the
// type has no ceiling.
func (s *SocialMediaCommitment) Ceiling(kind task.CommitmentType) (limit int, ok bool) {
	if s == nil {
		return 0, false
	}
	switch kind {
	case task.CommitmentRealVideo:
		return s.RealVideos, true
	case task.CommitmentAIVideo:
		return s.AIVideos, true
	case task.CommitmentPoster:
		return s.Posters, true
	case task.CommitmentDigitalMarketing:
		return s.DigitalMarketingViews, true
	}
	return 0, false
}

// WorkSplit is informational: the half of the project cost paid out to gems.
type WorkSplit struct {
	ClientManager  string      `json:"client_manager"`
	ProjectManager string      `json:"project_manager"`
	AssignedGems   []uuid.UUID `json:"assigned_gems"`
}

type CompanySplit struct {
	DigitalMarketingCosts []DigitalMarketingCost `json:"digital_marketing_costs"`
	TravellingCharges     float64                `json:"travelling_charges"`
}

type DigitalMarketingCost struct {
	ID          uuid.UUID `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

const splitRatio = 0.5

func (c *Client) WorkPool() float64 {
	return c.TotalProjectCost * splitRatio
}

func (c *Client) CompanyPool() float64 {
	return c.TotalProjectCost * splitRatio
}

func (c *Client) DigitalMarketingTotal() float64 {
	var sum float64
	for _, cost := range c.CompanySplit.DigitalMarketingCosts {
		sum += cost.Amount
	}
	return sum
}

// NetProfit is derived, never stored.
func (c *Client) NetProfit() float64 {
	return c.CompanyPool() - c.DigitalMarketingTotal() - c.CompanySplit.TravellingCharges
}

func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	cp := *c
	if c.CustomProjectType != nil {
		v := *c.CustomProjectType
		cp.CustomProjectType = &v
	}
	if c.SocialMediaCommitment != nil {
		v := *c.SocialMediaCommitment
		cp.SocialMediaCommitment = &v
	}
	cp.WorkSplit.AssignedGems = append([]uuid.UUID(nil), c.WorkSplit.AssignedGems...)
	cp.CompanySplit.DigitalMarketingCosts = append([]DigitalMarketingCost(nil), c.CompanySplit.DigitalMarketingCosts...)
	return &cp
}
