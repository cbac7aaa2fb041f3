// Package filter composes the ad-hoc product filters: owner, date range and
// type name, each optional, applied in that order and AND-ed together over a
// role-scoped seed set.
package filter

import (
	"time"

	"github.com/farmcentral/farm_supply/internal/models"
)

// SentinelAll is the dropdown value meaning "no filter".
const SentinelAll = "All"

var dateLayouts = []string{"2006-01-02", "02-01-2006"}

// Params are the raw filter arguments as submitted. Empty strings and
// SentinelAll are no-ops; unparseable dates are treated as absent.
type Params struct {
	Farmer    string
	StartDate string
	EndDate   string
	TypeName  string
}

// IsNoOp reports whether every argument is at its sentinel, in which case
// callers should short-circuit to the plain listing path.
func (p Params) IsNoOp() bool {
	return noOwner(p.Farmer) && p.StartDate == "" && p.EndDate == "" && noType(p.TypeName)
}

func noOwner(farmer string) bool {
	return farmer == "" || farmer == SentinelAll
}

func noType(typeName string) bool {
	return typeName == "" || typeName == SentinelAll
}

// ParseDate accepts the supported layouts and reports ok=false otherwise.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Apply filters the seed set. The seed must already be role-scoped by the
// caller (all products for an employee, the farmer's own for a farmer);
// farmers never see other farmers' rows, so the owner filter only applies to
// employees.
func Apply(role models.Role, seed []models.ProductView, p Params) []models.ProductView {
	result := seed

	if role == models.RoleEmployee && !noOwner(p.Farmer) {
		result = keep(result, func(v models.ProductView) bool {
			return v.Email == p.Farmer
		})
	}

	start, hasStart := time.Time{}, false
	if p.StartDate != "" {
		start, hasStart = ParseDate(p.StartDate)
	}
	end, hasEnd := time.Time{}, false
	if p.EndDate != "" {
		end, hasEnd = ParseDate(p.EndDate)
	}

	switch {
	case hasStart && hasEnd:
		result = keep(result, func(v models.ProductView) bool {
			return !v.DateSupplied.Before(start) && !v.DateSupplied.After(end)
		})
	case hasStart:
		result = keep(result, func(v models.ProductView) bool {
			return !v.DateSupplied.Before(start)
		})
	case hasEnd:
		result = keep(result, func(v models.ProductView) bool {
			return !v.DateSupplied.After(end)
		})
	}

	if !noType(p.TypeName) {
		result = keep(result, func(v models.ProductView) bool {
			return v.TypeName == p.TypeName
		})
	}

	return result
}

func keep(in []models.ProductView, pred func(models.ProductView) bool) []models.ProductView {
	out := make([]models.ProductView, 0, len(in))
	for _, v := range in {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}
