package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanCredits(t *testing.T) {
	tests := []struct {
		planID string
		want   Credits
	}{
		{"free", Credits{Posts: 15, Enhancements: 3, Storage: 50, AllowVideos: false}},
		{"starter", Credits{Posts: 100, Enhancements: 30, Storage: UnlimitedStorage, AllowVideos: true}},
		{"growth", Credits{Posts: 300, Enhancements: 100, Storage: UnlimitedStorage, AllowVideos: true}},
		{"scale", Credits{Posts: 1000, Enhancements: 500, Storage: UnlimitedStorage, AllowVideos: true}},
		{"enterprise", Credits{}},
		{"", Credits{}},
	}

	for _, tt := range tests {
		t.Run(tt.planID, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanCredits(tt.planID))
		})
	}
}

func TestParsePlanID(t *testing.T) {
	tests := []struct {
		providerPlanID string
		wantPlan       string
		wantCycle      string
	}{
		{"plan_starter_monthly", "starter", "monthly"},
		{"plan_starter_yearly", "starter", "yearly"},
		{"plan_growth_monthly", "growth", "monthly"},
		{"plan_scale_yearly", "scale", "yearly"},
		{"starter_monthly", "starter", "monthly"},
		{"plan_starter", "starter", "monthly"},
	}

	for _, tt := range tests {
		t.Run(tt.providerPlanID, func(t *testing.T) {
			plan, cycle := ParsePlanID(tt.providerPlanID)
			assert.Equal(t, tt.wantPlan, plan)
			assert.Equal(t, tt.wantCycle, cycle)
		})
	}
}
