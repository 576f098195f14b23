package sqlstore

import (
	"strings"

	"github.com/pkg/errors"

	"filterdsl"
)

// TableFields reads table's schema and returns a descriptor for every
// column, mapping declared SQL types to semantic field types. This is the
// field supplier for the compiler: the returned set is exactly the set of
// filterable and sortable names.
func (s *Store) TableFields(table string) (filterdsl.Fields, error) {
	rows, err := s.db.Queryx(s.db.Rebind("SELECT name, type FROM pragma_table_info(?)"), table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read schema of %s", table)
	}
	defer rows.Close()

	fields := filterdsl.Fields{}
	for rows.Next() {
		var name, declared string
		if err := rows.Scan(&name, &declared); err != nil {
			return nil, errors.Wrap(err, "failed to scan column info")
		}
		fields[name] = filterdsl.Field{Name: name, Type: fieldType(declared)}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read column info")
	}
	if len(fields) == 0 {
		return nil, errors.Errorf("table %s does not exist or has no columns", table)
	}
	return fields, nil
}

// fieldType maps a declared column type to its semantic type, following
// sqlite's affinity rules closely enough for filtering purposes.
func fieldType(declared string) filterdsl.FieldType {
	t := strings.ToUpper(declared)
	switch {
	case strings.Contains(t, "BOOL"):
		return filterdsl.Boolean
	case strings.Contains(t, "DATETIME"), strings.Contains(t, "TIMESTAMP"):
		return filterdsl.DateTime
	case strings.Contains(t, "DATE"):
		return filterdsl.Date
	case strings.Contains(t, "INT"):
		return filterdsl.Integer
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"),
		strings.Contains(t, "DOUB"), strings.Contains(t, "NUMERIC"),
		strings.Contains(t, "DECIMAL"):
		return filterdsl.Float
	case strings.Contains(t, "CHAR"), strings.Contains(t, "TEXT"),
		strings.Contains(t, "CLOB"):
		return filterdsl.Text
	}
	return filterdsl.Other
}
