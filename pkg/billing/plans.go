package billing

import "strings"

// UnlimitedStorage is the sentinel for plans without a media storage cap.
const UnlimitedStorage = -1

type Credits struct {
	Posts        int
	Enhancements int
	Storage      int
	AllowVideos  bool
}

var planCredits = map[string]Credits{
	"free":    {Posts: 15, Enhancements: 3, Storage: 50, AllowVideos: false},
	"starter": {Posts: 100, Enhancements: 30, Storage: UnlimitedStorage, AllowVideos: true},
	"growth":  {Posts: 300, Enhancements: 100, Storage: UnlimitedStorage, AllowVideos: true},
	"scale":   {Posts: 1000, Enhancements: 500, Storage: UnlimitedStorage, AllowVideos: true},
}

// PlanCredits returns the credit allotment for a plan. Unknown plans get
// zero credits rather than an error so a bad plan id can never grant access.
func PlanCredits(planID string) Credits {
	if c, ok := planCredits[planID]; ok {
		return c
	}
	return Credits{}
}

// ParsePlanID recovers the canonical plan key and billing cycle from a
// provider plan identifier such as "plan_starter_monthly".
func ParsePlanID(providerPlanID string) (planID, billingCycle string) {
	billingCycle = "monthly"
	if strings.Contains(providerPlanID, "_yearly") {
		billingCycle = "yearly"
	}

	planID = strings.TrimPrefix(providerPlanID, "plan_")
	planID = strings.TrimSuffix(planID, "_monthly")
	planID = strings.TrimSuffix(planID, "_yearly")
	return planID, billingCycle
}
