// Package query translates client-supplied list parameters (select, sort,
// page, limit and suffixed field filters) into SQL fragments. Only columns
// present in the caller's whitelist ever reach the generated SQL; filter
// values are always bound as placeholders.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultLimit is the page size applied when the client supplies none.
const DefaultLimit = 25

// MaxLimit caps the page size a client may request.
const MaxLimit = 100

// Comparison operators recognized as field-name suffixes.
const (
	OpEq  = "="
	OpGt  = ">"
	OpGte = ">="
	OpLt  = "<"
	OpLte = "<="
	OpIn  = "IN"
)

var suffixOps = []struct {
	suffix string
	op     string
}{
	{"_gte", OpGte},
	{"_lte", OpLte},
	{"_gt", OpGt},
	{"_lt", OpLt},
	{"_in", OpIn},
}

// reserved parameters never treated as field filters.
var reserved = map[string]bool{"select": true, "sort": true, "page": true, "limit": true}

// Filter is one field comparison. Values holds a single element except for
// OpIn, where it holds the comma-split membership set.
type Filter struct {
	Column string
	Op     string
	Values []string
}

// SortKey is one ORDER BY column; a leading '-' in the query marks descending.
type SortKey struct {
	Column string
	Desc   bool
}

// ListOptions is the parsed form of a listing request. Select keeps the
// API-level field names for response projection; Filters and Sort carry the
// mapped SQL column names.
type ListOptions struct {
	Select  []string
	Sort    []SortKey
	Page    int
	Limit   int
	Filters []Filter
}

// ParseListOptions reads url values against a whitelist mapping API field
// names to SQL columns. Unknown fields and malformed numbers are ignored
// rather than rejected.
func ParseListOptions(values url.Values, columns map[string]string) ListOptions {
	opts := ListOptions{Page: 1, Limit: DefaultLimit}

	if sel := values.Get("select"); sel != "" {
		for _, f := range strings.Split(sel, ",") {
			f = strings.TrimSpace(f)
			if _, ok := columns[f]; ok {
				opts.Select = append(opts.Select, f)
			}
		}
	}

	if sort := values.Get("sort"); sort != "" {
		for _, f := range strings.Split(sort, ",") {
			f = strings.TrimSpace(f)
			desc := strings.HasPrefix(f, "-")
			f = strings.TrimPrefix(f, "-")
			if col, ok := columns[f]; ok {
				opts.Sort = append(opts.Sort, SortKey{Column: col, Desc: desc})
			}
		}
	}
	if len(opts.Sort) == 0 {
		// Newest first unless the client asked otherwise.
		opts.Sort = []SortKey{{Column: "created_at", Desc: true}}
	}

	if n, err := strconv.Atoi(values.Get("page")); err == nil && n > 0 {
		opts.Page = n
	}
	if n, err := strconv.Atoi(values.Get("limit")); err == nil && n > 0 {
		if n > MaxLimit {
			n = MaxLimit
		}
		opts.Limit = n
	}

	for key, vals := range values {
		if reserved[key] || len(vals) == 0 {
			continue
		}
		field, op := key, OpEq
		for _, s := range suffixOps {
			if strings.HasSuffix(key, s.suffix) {
				field, op = strings.TrimSuffix(key, s.suffix), s.op
				break
			}
		}
		col, ok := columns[field]
		if !ok {
			continue
		}
		f := Filter{Column: col, Op: op}
		if op == OpIn {
			for _, v := range strings.Split(vals[0], ",") {
				if v = strings.TrimSpace(v); v != "" {
					f.Values = append(f.Values, v)
				}
			}
			if len(f.Values) == 0 {
				continue
			}
		} else {
			f.Values = []string{vals[0]}
		}
		opts.Filters = append(opts.Filters, f)
	}
	return opts
}

// WhereClause renders the filters as " WHERE ..." with placeholder args, or
// an empty string when no filter applies.
func (o ListOptions) WhereClause() (string, []interface{}) {
	if len(o.Filters) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(o.Filters))
	args := make([]interface{}, 0, len(o.Filters))
	for _, f := range o.Filters {
		if f.Op == OpIn {
			ph := make([]string, len(f.Values))
			for i, v := range f.Values {
				ph[i] = "?"
				args = append(args, v)
			}
			conds = append(conds, f.Column+" IN ("+strings.Join(ph, ",")+")")
			continue
		}
		conds = append(conds, f.Column+" "+f.Op+" ?")
		args = append(args, f.Values[0])
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// OrderClause renders the ORDER BY fragment.
func (o ListOptions) OrderClause() string {
	keys := make([]string, len(o.Sort))
	for i, s := range o.Sort {
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		keys[i] = s.Column + dir
	}
	return " ORDER BY " + strings.Join(keys, ", ")
}

// LimitOffset returns the LIMIT/OFFSET pair for the requested page.
func (o ListOptions) LimitOffset() (int, int) {
	return o.Limit, (o.Page - 1) * o.Limit
}
