package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLead() Lead {
	return Lead{
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "+971501234567",
		Source:    "website",
		Status:    LeadStatusNew,
		Stage:     LeadStageInquiry,
	}
}

func TestLeadValidate(t *testing.T) {
	lead := validLead()
	require.NoError(t, lead.Validate())
}

func TestLeadValidate_RequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Lead)
	}{
		{"missing first name", func(l *Lead) { l.FirstName = "" }},
		{"missing last name", func(l *Lead) { l.LastName = "" }},
		{"missing phone", func(l *Lead) { l.Phone = "" }},
		{"unknown status", func(l *Lead) { l.Status = "archived" }},
		{"unknown stage", func(l *Lead) { l.Stage = "paperwork" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lead := validLead()
			tc.mutate(&lead)
			assert.Error(t, lead.Validate())
		})
	}
}

func TestLeadValidate_BudgetRange(t *testing.T) {
	lead := validLead()
	min := 1200000.0
	max := 800000.0
	lead.BudgetMin = &min
	lead.BudgetMax = &max
	assert.Error(t, lead.Validate())

	// Swapped back the range is fine.
	lead.BudgetMin = &max
	lead.BudgetMax = &min
	assert.NoError(t, lead.Validate())

	// A zero bound disables the comparison.
	zero := 0.0
	lead.BudgetMin = &min
	lead.BudgetMax = &zero
	assert.NoError(t, lead.Validate())
}

func TestLeadValidate_ScoreRange(t *testing.T) {
	for _, score := range []int{0, 50, 100} {
		lead := validLead()
		s := score
		lead.Score = &s
		assert.NoError(t, lead.Validate(), "score %d", score)
	}
	for _, score := range []int{-1, 101} {
		lead := validLead()
		s := score
		lead.Score = &s
		assert.Error(t, lead.Validate(), "score %d", score)
	}
}

func TestValidLeadStatusAndStage(t *testing.T) {
	for _, status := range []LeadStatus{LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusNegotiation, LeadStatusWon, LeadStatusLost} {
		assert.True(t, ValidLeadStatus(status))
	}
	assert.False(t, ValidLeadStatus("NEW"))
	assert.False(t, ValidLeadStatus(""))

	for _, stage := range []LeadStage{LeadStageInquiry, LeadStageSiteVisit, LeadStageProposal, LeadStageNegotiation, LeadStageClosed} {
		assert.True(t, ValidLeadStage(stage))
	}
	assert.False(t, ValidLeadStage("visit"))
}
