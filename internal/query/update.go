// Package query builds the dynamic SQL fragments used by partial updates
// and paginated listings. Column names only ever come from the per-entity
// allow-lists below the services, never from the request, so the assembled
// SET clause is safe to splice into a statement.
package query

import (
	"strings"

	"treva/internal/apperrors"
)

// NullMode controls what an explicit JSON null means for a field.
type NullMode int

const (
	// NullSkips treats a null value as if the key were absent. Used for
	// required columns (title, latitude) where null is never a valid value.
	NullSkips NullMode = iota
	// NullAssigns makes null a real assignment, clearing a nullable column.
	NullAssigns
)

// Field is one allow-listed updatable field. Validate normalizes and checks
// the provided value; a nil Validate accepts the value as-is.
type Field struct {
	Name     string // JSON key
	Column   string // SQL column
	Null     NullMode
	Validate func(v any) (any, error)
}

// UpdateSet is an ordered list of assignments with positionally matching
// bound values. Order is significant: Values[i] binds Assignments[i].
type UpdateSet struct {
	Assignments []string
	Values      []any
}

// SetClause joins the assignments for splicing into an UPDATE statement.
func (u *UpdateSet) SetClause() string {
	return strings.Join(u.Assignments, ", ")
}

// BuildUpdate walks the allow-list in order and collects an assignment for
// every recognized key in provided. Unknown keys are ignored. Returns
// NOTHING_TO_UPDATE when no key matched.
func BuildUpdate(fields []Field, provided map[string]any) (*UpdateSet, error) {
	set := &UpdateSet{}
	for _, f := range fields {
		v, ok := provided[f.Name]
		if !ok {
			continue
		}
		if v == nil && f.Null == NullSkips {
			continue
		}
		if f.Validate != nil {
			normalized, err := f.Validate(v)
			if err != nil {
				return nil, err
			}
			v = normalized
		}
		set.Assignments = append(set.Assignments, f.Column+" = ?")
		set.Values = append(set.Values, v)
	}
	if len(set.Assignments) == 0 {
		return nil, apperrors.ErrNothingToUpdate
	}
	return set, nil
}
