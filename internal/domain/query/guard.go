package query

import (
	"errors"
	"fmt"
)

const (
	matchOperator = "$match"
	tenantField   = "company"
)

// ErrCrossTenant marks a pipeline that references a company other than the
// one the request is scoped to.
var ErrCrossTenant = errors.New("pipeline references another tenant")

// Guard structurally enforces the tenant-scoping rule on generated pipelines
// instead of trusting prompt compliance. It also caps pipeline size, since
// the generator is under no obligation to produce bounded plans.
type Guard struct {
	maxStages int
}

func NewGuard(maxStages int) *Guard {
	return &Guard{maxStages: maxStages}
}

// EnforceTenantScope validates pipeline against tenant and returns a pipeline
// that is guaranteed to filter on exactly that tenant in its first stage.
//
// A first stage that already matches the tenant is kept as-is. A pipeline
// missing the filter gets the canonical stage prepended. Any stage matching a
// different company value is rejected with ErrCrossTenant, as is a pipeline
// exceeding the stage cap.
func (g *Guard) EnforceTenantScope(pipeline Pipeline, tenant string) (Pipeline, bool, error) {
	if len(pipeline) == 0 {
		return pipeline, false, nil
	}
	if g.maxStages > 0 && len(pipeline) > g.maxStages {
		return nil, false, fmt.Errorf("pipeline has %d stages, limit is %d", len(pipeline), g.maxStages)
	}

	for _, stage := range pipeline {
		if company, ok := matchedCompany(stage); ok && company != tenant {
			return nil, false, ErrCrossTenant
		}
	}

	if company, ok := matchedCompany(pipeline[0]); ok && company == tenant {
		return pipeline, false, nil
	}

	scoped := make(Pipeline, 0, len(pipeline)+1)
	scoped = append(scoped, Stage{matchOperator: map[string]any{tenantField: tenant}})
	scoped = append(scoped, pipeline...)
	return scoped, true, nil
}

// matchedCompany reports the company a $match stage filters on, if the stage
// filters on a plain string value.
func matchedCompany(stage Stage) (string, bool) {
	raw, ok := stage[matchOperator]
	if !ok {
		return "", false
	}
	filter, ok := raw.(map[string]any)
	if !ok {
		return "", false
	}
	value, ok := filter[tenantField]
	if !ok {
		return "", false
	}
	company, ok := value.(string)
	return company, ok
}
