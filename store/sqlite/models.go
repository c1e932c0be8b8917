package sqlite

import (
	"github.com/xraph/grove"

	"github.com/xraph/recur/id"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/subscription"
	"github.com/xraph/recur/types"
)

// ==================== Plan models ====================

type planModel struct {
	grove.BaseModel `grove:"table:recur_plans"`

	ID          string            `grove:"id,pk"`
	Payee       string            `grove:"payee"`
	Title       string            `grove:"title"`
	Description string            `grove:"description"`
	PriceAmount int64             `grove:"price_amount"`
	PriceDenom  string            `grove:"price_denom"`
	Interval    int64             `grove:"billing_interval"`
	Active      bool              `grove:"active"`
	Metadata    map[string]string `grove:"metadata,type:jsonb"`
	CreatedAt   int64             `grove:"created_at"`
	UpdatedAt   int64             `grove:"updated_at"`
}

func toPlanModel(p *plan.Plan) *planModel {
	return &planModel{
		ID:          p.ID.String(),
		Payee:       p.Payee,
		Title:       p.Title,
		Description: p.Description,
		PriceAmount: p.Price.Amount,
		PriceDenom:  p.Price.Denom,
		Interval:    p.Interval,
		Active:      p.Active,
		Metadata:    p.Metadata,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromPlanModel(m *planModel) (*plan.Plan, error) {
	planID, err := id.ParsePlanID(m.ID)
	if err != nil {
		return nil, err
	}

	return &plan.Plan{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          planID,
		Payee:       m.Payee,
		Title:       m.Title,
		Description: m.Description,
		Price:       types.NewCoin(m.PriceAmount, m.PriceDenom),
		Interval:    m.Interval,
		Active:      m.Active,
		Metadata:    m.Metadata,
	}, nil
}

// ==================== Sequence models ====================

type sequenceModel struct {
	grove.BaseModel `grove:"table:recur_sequences"`

	Name  string `grove:"name,pk"`
	Value int64  `grove:"value"`
}

// ==================== Subscription models ====================

type subscriptionModel struct {
	grove.BaseModel `grove:"table:recur_subscriptions"`

	PlanID       string `grove:"plan_id,pk"`
	Subscriber   string `grove:"subscriber,pk"`
	Status       string `grove:"status"`
	NextDueAt    int64  `grove:"next_due_at"`
	MaxAmount    *int64 `grove:"max_amount"`
	MaxDenom     string `grove:"max_denom"`
	Expires      *int64 `grove:"expires"`
	CyclesBilled int64  `grove:"cycles_billed"`
	CreatedAt    int64  `grove:"created_at"`
	UpdatedAt    int64  `grove:"updated_at"`
}

func toSubscriptionModel(s *subscription.Subscription) *subscriptionModel {
	m := &subscriptionModel{
		PlanID:       s.PlanID.String(),
		Subscriber:   s.Subscriber,
		Status:       string(s.Status),
		NextDueAt:    s.NextDueAt,
		Expires:      s.Expires,
		CyclesBilled: s.CyclesBilled,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if s.AuthorizedMax != nil {
		amount := s.AuthorizedMax.Amount
		m.MaxAmount = &amount
		m.MaxDenom = s.AuthorizedMax.Denom
	}
	return m
}

func fromSubscriptionModel(m *subscriptionModel) (*subscription.Subscription, error) {
	planID, err := id.ParsePlanID(m.PlanID)
	if err != nil {
		return nil, err
	}

	sub := &subscription.Subscription{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		PlanID:       planID,
		Subscriber:   m.Subscriber,
		Status:       subscription.Status(m.Status),
		NextDueAt:    m.NextDueAt,
		Expires:      m.Expires,
		CyclesBilled: m.CyclesBilled,
	}
	if m.MaxAmount != nil {
		max := types.NewCoin(*m.MaxAmount, m.MaxDenom)
		sub.AuthorizedMax = &max
	}
	return sub, nil
}
