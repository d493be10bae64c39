package table

import "fmt"

// Merge concatenates the rows of every table in tables, which must all
// share the same definition. When keepAllDuplicates is false, only the
// first row seen for a given key (the first is_key field) is kept.
func Merge(tables []*Table, keepAllDuplicates bool) (*Table, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("table: merge requires at least one table")
	}
	def := tables[0].Definition
	keyCols := def.KeyColumns()
	if len(keyCols) > 1 {
		keyCols = keyCols[:1]
	}

	out := New(def, tables[0].Name)
	seen := make(map[string]bool)

	for _, t := range tables {
		if t.Definition.Version != def.Version {
			return nil, fmt.Errorf("table: cannot merge %q v%d with v%d", t.Name, t.Definition.Version, def.Version)
		}
		for _, row := range t.Rows {
			if keepAllDuplicates || len(keyCols) == 0 {
				out.Rows = append(out.Rows, row)
				continue
			}
			key := rowKey(row, keyCols)
			if seen[key] {
				continue
			}
			seen[key] = true
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

func rowKey(row []DecodedData, keyCols []int) string {
	key := ""
	for _, i := range keyCols {
		key += fmt.Sprintf("\x00%v", row[i].Str) + fmt.Sprintf("%d%d%d", row[i].I32, row[i].I64, row[i].I16)
	}
	return key
}
