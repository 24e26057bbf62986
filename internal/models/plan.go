package models

// Plan tiers. Only the PRO tier unlocks PRO access-level articles;
// every plan additionally limits its holder to the verticals it lists.
const (
	PlanInfo = "INFO"
	PlanPro  = "PRO"
)

// SubscriptionPlan is a paid tier granting access to a set of verticals.
type SubscriptionPlan struct {
	ID          int64
	Name        string // PlanInfo or PlanPro, unique
	Description string
	Price       float64
	Categories  []Category // Verticals a subscriber of this plan may read
}

// CategoryIDs returns the ids of the plan's categories.
func (p *SubscriptionPlan) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// DummyPlan receives plan data from a JSON request.
type DummyPlan struct {
	Name        string  `json:"name" validate:"required,oneof=INFO PRO"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	CategoryIDs []int64 `json:"category_ids" validate:"required,min=1"`
}
