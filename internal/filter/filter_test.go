package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmcentral/farm_supply/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testSeed() []models.ProductView {
	return []models.ProductView{
		{ProductName: "Maize", DateSupplied: day("2024-01-05"), TypeName: "Grain", Email: "a@farmcentral.com"},
		{ProductName: "Milk", DateSupplied: day("2024-01-15"), TypeName: "Dairy", Email: "b@farmcentral.com"},
		{ProductName: "Apples", DateSupplied: day("2024-01-31"), TypeName: "Fruit", Email: "a@farmcentral.com"},
		{ProductName: "Wheat", DateSupplied: day("2024-02-10"), TypeName: "Grain", Email: "b@farmcentral.com"},
	}
}

func names(views []models.ProductView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ProductName
	}
	return out
}

func TestIsNoOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params Params
		want   bool
	}{
		{name: "all sentinels", params: Params{Farmer: "All", TypeName: "All"}, want: true},
		{name: "all empty", params: Params{}, want: true},
		{name: "owner set", params: Params{Farmer: "a@farmcentral.com", TypeName: "All"}, want: false},
		{name: "start date set", params: Params{Farmer: "All", StartDate: "2024-01-01", TypeName: "All"}, want: false},
		{name: "end date set", params: Params{EndDate: "2024-01-31"}, want: false},
		{name: "type set", params: Params{TypeName: "Grain"}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.params.IsNoOp())
		})
	}
}

func TestNoOpFilterReturnsSeedUnchanged(t *testing.T) {
	t.Parallel()

	seed := testSeed()
	got := Apply(models.RoleEmployee, seed, Params{Farmer: "All", TypeName: "All"})
	assert.Equal(t, seed, got)
}

func TestOwnerFilterEmployeeOnly(t *testing.T) {
	t.Parallel()

	params := Params{Farmer: "a@farmcentral.com", TypeName: "All"}

	got := Apply(models.RoleEmployee, testSeed(), params)
	assert.Equal(t, []string{"Maize", "Apples"}, names(got))

	// A farmer's seed set is already owner-scoped; the owner argument is
	// ignored rather than letting it widen or shift the scope.
	farmerSeed := []models.ProductView{
		{ProductName: "Milk", DateSupplied: day("2024-01-15"), TypeName: "Dairy", Email: "b@farmcentral.com"},
	}
	got = Apply(models.RoleFarmer, farmerSeed, params)
	assert.Equal(t, []string{"Milk"}, names(got))
}

func TestDateRangeInclusive(t *testing.T) {
	t.Parallel()

	got := Apply(models.RoleEmployee, testSeed(), Params{
		StartDate: "2024-01-05",
		EndDate:   "2024-01-31",
	})
	assert.Equal(t, []string{"Maize", "Milk", "Apples"}, names(got), "both bounds are inclusive")
}

func TestDateSingleSided(t *testing.T) {
	t.Parallel()

	got := Apply(models.RoleEmployee, testSeed(), Params{StartDate: "2024-01-15"})
	assert.Equal(t, []string{"Milk", "Apples", "Wheat"}, names(got))

	got = Apply(models.RoleEmployee, testSeed(), Params{EndDate: "2024-01-15"})
	assert.Equal(t, []string{"Maize", "Milk"}, names(got))
}

func TestUnparseableDatesAreNoOps(t *testing.T) {
	t.Parallel()

	seed := testSeed()
	got := Apply(models.RoleEmployee, seed, Params{StartDate: "not-a-date", EndDate: "also bad"})
	assert.Equal(t, seed, got)
}

func TestAlternateDateLayout(t *testing.T) {
	t.Parallel()

	got := Apply(models.RoleEmployee, testSeed(), Params{StartDate: "10-02-2024"})
	assert.Equal(t, []string{"Wheat"}, names(got))
}

func TestTypeFilter(t *testing.T) {
	t.Parallel()

	got := Apply(models.RoleEmployee, testSeed(), Params{TypeName: "Grain"})
	assert.Equal(t, []string{"Maize", "Wheat"}, names(got))

	got = Apply(models.RoleEmployee, testSeed(), Params{TypeName: "All"})
	assert.Len(t, got, 4)
}

// The stages are applied sequentially but AND of independent predicates is
// commutative: the net result must not depend on application order.
func TestCombinedFiltersOrderIndependent(t *testing.T) {
	t.Parallel()

	params := Params{
		Farmer:    "b@farmcentral.com",
		StartDate: "2024-01-01",
		EndDate:   "2024-02-28",
		TypeName:  "Grain",
	}

	sequential := Apply(models.RoleEmployee, testSeed(), params)
	require.Equal(t, []string{"Wheat"}, names(sequential))

	// Apply each predicate alone and intersect by hand.
	byOwner := Apply(models.RoleEmployee, testSeed(), Params{Farmer: params.Farmer})
	byDate := Apply(models.RoleEmployee, testSeed(), Params{StartDate: params.StartDate, EndDate: params.EndDate})
	byType := Apply(models.RoleEmployee, testSeed(), Params{TypeName: params.TypeName})

	in := func(set []models.ProductView, name string) bool {
		for _, v := range set {
			if v.ProductName == name {
				return true
			}
		}
		return false
	}

	var intersection []string
	for _, v := range testSeed() {
		if in(byOwner, v.ProductName) && in(byDate, v.ProductName) && in(byType, v.ProductName) {
			intersection = append(intersection, v.ProductName)
		}
	}
	assert.Equal(t, intersection, names(sequential))
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, ok := ParseDate("2024-01-05")
	require.True(t, ok)
	assert.Equal(t, day("2024-01-05"), got)

	_, ok = ParseDate("05/01/2024")
	assert.False(t, ok)

	_, ok = ParseDate("")
	assert.False(t, ok)
}
