// Package selection filters and orders the project list and tracks the
// dashboard's current selection.
package selection

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

// SortOption is one of the project list orderings offered to users.
type SortOption string

const (
	SortName        SortOption = "name"
	SortFundingAsc  SortOption = "funding-asc"
	SortFundingDesc SortOption = "funding-desc"
	SortTokens      SortOption = "tokens"
)

// SortOptions returns the orderings in cycling order.
func SortOptions() []SortOption {
	return []SortOption{SortName, SortFundingAsc, SortFundingDesc, SortTokens}
}

// ParseSortOption accepts the option names; empty means name.
func ParseSortOption(s string) (SortOption, error) {
	v := SortOption(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return SortName, nil
	}
	for _, o := range SortOptions() {
		if o == v {
			return o, nil
		}
	}
	return SortName, fmt.Errorf("unknown sort %q (supported: name|funding-asc|funding-desc|tokens)", s)
}

// key returns the field path and direction the option sorts by.
func (o SortOption) key() (string, bool) {
	switch o {
	case SortFundingAsc:
		return "requested_funding_usd", true
	case SortFundingDesc:
		return "requested_funding_usd", false
	case SortTokens:
		return "total_tokens", false
	}
	return "proposal_name", true
}

// Criteria narrows and orders the project list.
type Criteria struct {
	Search string             `json:"search"`
	Size   vesting.SizeBucket `json:"size"`
	Sort   SortOption         `json:"sort"`
}

// Filter keeps projects whose name contains Search (case-insensitive, taken
// verbatim including spaces) and whose funding falls in Size. The input
// slice is not modified.
func Filter(projects []vesting.Allocation, c Criteria) []vesting.Allocation {
	needle := strings.ToLower(c.Search)
	out := make([]vesting.Allocation, 0, len(projects))
	for _, p := range projects {
		if needle != "" && !strings.Contains(strings.ToLower(p.ProposalName), needle) {
			continue
		}
		if c.Size != vesting.SizeAll && vesting.SizeOf(p.RequestedFundingUSD) != c.Size {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Apply filters then sorts by c.Sort.
func Apply(projects []vesting.Allocation, c Criteria) []vesting.Allocation {
	out := Filter(projects, c)
	key, asc := c.Sort.key()
	SortBy(out, key, asc)
	return out
}

// SortBy stably sorts items in place by a dotted path of JSON field names,
// e.g. "token_distribution.project_tokens". Strings compare
// case-insensitively. Items missing the key sort after those that have it,
// in either direction, and keep their relative order.
func SortBy[T any](items []T, key string, ascending bool) {
	path := strings.Split(key, ".")
	sort.SliceStable(items, func(i, j int) bool {
		a, okA := lookup(reflect.ValueOf(items[i]), path)
		b, okB := lookup(reflect.ValueOf(items[j]), path)
		if !okA || !okB {
			return okA && !okB
		}
		c := compare(a, b)
		if ascending {
			return c < 0
		}
		return c > 0
	})
}

func lookup(v reflect.Value, path []string) (reflect.Value, bool) {
	for _, name := range path {
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		switch v.Kind() {
		case reflect.Struct:
			f, ok := field(v, name)
			if !ok {
				return reflect.Value{}, false
			}
			v = f
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return reflect.Value{}, false
			}
			f := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
			if !f.IsValid() {
				return reflect.Value{}, false
			}
			v = f
		default:
			return reflect.Value{}, false
		}
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

// field finds a struct field by JSON name, searching embedded structs.
func field(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := strings.Split(sf.Tag.Get("json"), ",")[0]
		if tag == "-" {
			continue
		}
		if sf.Anonymous && tag == "" {
			ev := v.Field(i)
			if ev.Kind() == reflect.Pointer {
				if ev.IsNil() {
					continue
				}
				ev = ev.Elem()
			}
			if ev.Kind() == reflect.Struct {
				if f, ok := field(ev, name); ok {
					return f, true
				}
			}
			continue
		}
		if tag == name || (tag == "" && strings.EqualFold(sf.Name, name)) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func compare(a, b reflect.Value) int {
	switch {
	case a.Kind() == reflect.String && b.Kind() == reflect.String:
		return strings.Compare(strings.ToLower(a.String()), strings.ToLower(b.String()))
	case a.CanFloat() || a.CanInt() || a.CanUint():
		x, okX := number(a)
		y, okY := number(b)
		if !okX || !okY {
			return 0
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case a.Kind() == reflect.Bool && b.Kind() == reflect.Bool:
		switch {
		case !a.Bool() && b.Bool():
			return -1
		case a.Bool() && !b.Bool():
			return 1
		}
	}
	return 0
}

func number(v reflect.Value) (float64, bool) {
	switch {
	case v.CanFloat():
		return v.Float(), true
	case v.CanInt():
		return float64(v.Int()), true
	case v.CanUint():
		return float64(v.Uint()), true
	}
	return 0, false
}
