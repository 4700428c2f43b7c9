package domain

import "sort"

type PlanID string

const (
	PlanFree       PlanID = "free"
	PlanStarter    PlanID = "starter"
	PlanPro        PlanID = "pro"
	PlanEnterprise PlanID = "enterprise"
)

type ResourceKind string

const (
	ResourceInterventions ResourceKind = "interventions"
	ResourceClients       ResourceKind = "clients"
	ResourceQuotes        ResourceKind = "quotes"
	ResourceInvoices      ResourceKind = "invoices"
)

// Unlimited is the sentinel limit value meaning no ceiling.
const Unlimited = -1

// FeatureSet is either the full set or an enumerated set of feature ids.
type FeatureSet struct {
	all bool
	ids map[string]struct{}
}

func AllFeatures() FeatureSet {
	return FeatureSet{all: true}
}

func Features(ids ...string) FeatureSet {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return FeatureSet{ids: set}
}

func (s FeatureSet) All() bool { return s.all }

func (s FeatureSet) Has(id string) bool {
	if s.all {
		return true
	}
	_, ok := s.ids[id]
	return ok
}

// IDs lists the enumerated feature ids in sorted order; nil when the set is
// the full set.
func (s FeatureSet) IDs() []string {
	if s.all {
		return nil
	}
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

type Plan struct {
	ID       PlanID
	Name     string
	Features FeatureSet
	Limits   map[ResourceKind]int64
	MaxUsers int
}

// Limit returns the plan's ceiling for a resource kind. Kinds a plan does not
// mention are unlimited.
func (p Plan) Limit(kind ResourceKind) int64 {
	limit, ok := p.Limits[kind]
	if !ok {
		return Unlimited
	}
	return limit
}

// PlanCatalog is built once at startup and never mutated, so concurrent reads
// need no locking.
type PlanCatalog struct {
	order []PlanID
	plans map[PlanID]Plan
}

func NewPlanCatalog(plans ...Plan) *PlanCatalog {
	catalog := &PlanCatalog{plans: make(map[PlanID]Plan, len(plans))}
	for _, plan := range plans {
		if _, ok := catalog.plans[plan.ID]; ok {
			continue
		}
		catalog.order = append(catalog.order, plan.ID)
		catalog.plans[plan.ID] = plan
	}
	return catalog
}

func (c *PlanCatalog) Get(id PlanID) (Plan, bool) {
	plan, ok := c.plans[id]
	return plan, ok
}

// Plans returns the catalog in declaration order.
func (c *PlanCatalog) Plans() []Plan {
	out := make([]Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}

// MinimumPlanFor scans plans in declaration order and returns the first one
// granting the feature. Used for upsell payloads, not access decisions.
func (c *PlanCatalog) MinimumPlanFor(feature string) (PlanID, bool) {
	for _, id := range c.order {
		if c.plans[id].Features.Has(feature) {
			return id, true
		}
	}
	return "", false
}

// Feature identifiers gated by plan tier.
const (
	FeatureInterventions   = "interventions"
	FeatureClients         = "clients"
	FeatureQuotes          = "quotes"
	FeatureInvoices        = "invoices"
	FeatureStockManagement = "stock_management"
	FeatureCSVImport       = "csv_import"
	FeatureAPIAccess       = "api_access"
	FeatureCustomReports   = "custom_reports"
)

func DefaultCatalog() *PlanCatalog {
	return NewPlanCatalog(
		Plan{
			ID:       PlanFree,
			Name:     "Free",
			Features: Features(FeatureInterventions, FeatureClients),
			Limits: map[ResourceKind]int64{
				ResourceInterventions: 10,
				ResourceClients:       25,
				ResourceQuotes:        0,
				ResourceInvoices:      0,
			},
			MaxUsers: 1,
		},
		Plan{
			ID:       PlanStarter,
			Name:     "Starter",
			Features: Features(FeatureInterventions, FeatureClients, FeatureQuotes, FeatureInvoices),
			Limits: map[ResourceKind]int64{
				ResourceInterventions: 50,
				ResourceClients:       200,
				ResourceQuotes:        100,
				ResourceInvoices:      100,
			},
			MaxUsers: 3,
		},
		Plan{
			ID:   PlanPro,
			Name: "Pro",
			Features: Features(
				FeatureInterventions, FeatureClients, FeatureQuotes, FeatureInvoices,
				FeatureStockManagement, FeatureCSVImport, FeatureAPIAccess,
			),
			Limits: map[ResourceKind]int64{
				ResourceInterventions: 500,
				ResourceClients:       2000,
				ResourceQuotes:        Unlimited,
				ResourceInvoices:      Unlimited,
			},
			MaxUsers: 10,
		},
		Plan{
			ID:       PlanEnterprise,
			Name:     "Enterprise",
			Features: AllFeatures(),
			Limits: map[ResourceKind]int64{
				ResourceInterventions: Unlimited,
				ResourceClients:       Unlimited,
				ResourceQuotes:        Unlimited,
				ResourceInvoices:      Unlimited,
			},
			MaxUsers: Unlimited,
		},
	)
}
