package policyrego

import (
	"context"

	"github.com/open-policy-agent/opa/rego"
)

const allowQuery = "data.obotcall.authz.allow"

// defaultPolicy maps tenant-scoped roles to route permissions. Deployments
// can replace it wholesale with POLICY_PATH.
const defaultPolicy = `package obotcall.authz

default allow = false

role_permissions := {
	"manager": [
		"interventions:read", "interventions:write",
		"clients:read", "clients:write",
		"quotes:read", "quotes:write",
		"invoices:read", "invoices:write",
		"members:invite",
	],
	"technician": [
		"interventions:read", "interventions:write",
		"clients:read",
	],
	"viewer": [
		"interventions:read",
		"clients:read",
		"quotes:read",
		"invoices:read",
	],
}

allow {
	input.role == "admin"
}

allow {
	perms := role_permissions[input.role]
	perms[_] == input.permission
}
`

type Engine struct {
	query rego.PreparedEvalQuery
}

func NewEngine(ctx context.Context) (*Engine, error) {
	return prepare(ctx, rego.Module("authz.rego", defaultPolicy))
}

func NewEngineFromPath(ctx context.Context, path string) (*Engine, error) {
	return prepare(ctx, rego.Load([]string{path}, nil))
}

func prepare(ctx context.Context, source func(*rego.Rego)) (*Engine, error) {
	r := rego.New(
		rego.Query(allowQuery),
		rego.StrictBuiltinErrors(true),
		source,
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}
	return &Engine{query: prepared}, nil
}

func (e *Engine) Allow(ctx context.Context, role, permission string) (bool, error) {
	input := map[string]any{
		"role":       role,
		"permission": permission,
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := results[0].Expressions[0].Value.(bool)
	return ok && allowed, nil
}
