package plan

import (
	"github.com/xraph/recur/id"
	"github.com/xraph/recur/types"
)

// Limits on payee-supplied plan content.
const (
	MaxTitleLength       = 140
	MaxDescriptionLength = 5000
)

// Plan is a payee-defined recurring price/interval offer.
//
// Once published, Payee, Price, and Interval are immutable; only the
// Active flag may toggle. Plans are never physically deleted so that
// existing subscribers remain billable against their last terms.
type Plan struct {
	types.Entity
	ID          id.PlanID         `json:"id"`
	Payee       string            `json:"payee"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Price       types.Coin        `json:"price"`
	Interval    int64             `json:"interval"` // seconds between due cycles
	Active      bool              `json:"active"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the plan.
func (p *Plan) Clone() *Plan {
	cp := *p
	if p.Metadata != nil {
		cp.Metadata = make(map[string]string, len(p.Metadata))
		for k, v := range p.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

// Content is the payee-supplied payload for creating a plan.
// The engine validates it and assigns identity, payee, and timestamps.
type Content struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Price       types.Coin        `json:"price"`
	Interval    int64             `json:"interval"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}
