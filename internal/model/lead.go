package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusNegotiation LeadStatus = "negotiation"
	LeadStatusWon         LeadStatus = "won"
	LeadStatusLost        LeadStatus = "lost"
)

type LeadStage string

const (
	LeadStageInquiry     LeadStage = "inquiry"
	LeadStageSiteVisit   LeadStage = "site_visit"
	LeadStageProposal    LeadStage = "proposal"
	LeadStageNegotiation LeadStage = "negotiation"
	LeadStageClosed      LeadStage = "closed"
)

// LeadSources and UnitTypes are wire contracts shared with the mobile clients.
// Order and spelling matter; do not reorder.
var LeadSources = []string{
	"website",
	"walk_in",
	"referral",
	"social_media",
	"property_portal",
	"phone_call",
	"exhibition",
	"other",
}

var UnitTypes = []string{
	"studio",
	"1br",
	"2br",
	"3br",
	"4br",
	"penthouse",
	"townhouse",
	"villa",
	"office",
	"retail",
}

type Lead struct {
	ID                 uuid.UUID  `json:"id"`
	OrganizationID     uuid.UUID  `json:"organization_id"`
	ProjectID          *uuid.UUID `json:"project_id,omitempty"`
	UnitID             *uuid.UUID `json:"unit_id,omitempty"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Email              *string    `json:"email,omitempty"`
	Phone              string     `json:"phone"`
	Source             string     `json:"source"`
	Status             LeadStatus `json:"status"`
	Stage              LeadStage  `json:"stage"`
	BudgetMin          *float64   `json:"budget_min,omitempty"`
	BudgetMax          *float64   `json:"budget_max,omitempty"`
	PreferredUnitTypes []string   `json:"preferred_unit_types,omitempty" gorm:"-"`
	PreferredLocation  *string    `json:"preferred_location,omitempty"`
	Requirements       *string    `json:"requirements,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	AssignedTo         *uuid.UUID `json:"assigned_to,omitempty"`
	NextFollowup       *time.Time `json:"next_followup,omitempty"`
	LastContacted      *time.Time `json:"last_contacted,omitempty"`
	Score              *int       `json:"score,omitempty"`
	CreatedBy          uuid.UUID  `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func ValidLeadStatus(s LeadStatus) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
		LeadStatusNegotiation, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

func ValidLeadStage(s LeadStage) bool {
	switch s {
	case LeadStageInquiry, LeadStageSiteVisit, LeadStageProposal,
		LeadStageNegotiation, LeadStageClosed:
		return true
	}
	return false
}

// Validate checks the invariants shared by create and update paths.
func (l *Lead) Validate() error {
	if l.FirstName == "" {
		return fmt.Errorf("first_name is required")
	}
	if l.LastName == "" {
		return fmt.Errorf("last_name is required")
	}
	if l.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	if !ValidLeadStatus(l.Status) {
		return fmt.Errorf("unknown status %q", l.Status)
	}
	if !ValidLeadStage(l.Stage) {
		return fmt.Errorf("unknown stage %q", l.Stage)
	}
	if l.BudgetMin != nil && l.BudgetMax != nil && *l.BudgetMin > 0 && *l.BudgetMax > 0 {
		if *l.BudgetMin > *l.BudgetMax {
			return fmt.Errorf("budget_min must not exceed budget_max")
		}
	}
	if l.Score != nil && (*l.Score < 0 || *l.Score > 100) {
		return fmt.Errorf("score must be between 0 and 100")
	}
	return nil
}

// LeadFilter carries the optional list filters. Nil / empty fields are skipped;
// present fields combine with AND.
type LeadFilter struct {
	Status     *LeadStatus
	Stage      *LeadStage
	ProjectID  *uuid.UUID
	AssignedTo *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     string
}

// LeadStatsRow is the projection the stats aggregation runs over.
type LeadStatsRow struct {
	Status    LeadStatus
	Stage     LeadStage
	CreatedAt time.Time
}

type LeadStats struct {
	Total            int64                `json:"total"`
	ByStatus         map[LeadStatus]int64 `json:"by_status"`
	ByStage          map[LeadStage]int64  `json:"by_stage"`
	CreatedThisMonth int64                `json:"created_this_month"`
	ConversionRate   float64              `json:"conversion_rate"`
}
