package diagnostics

import (
	"strconv"

	"github.com/archivekit/packforge/internal/dependencies"
	"github.com/archivekit/packforge/internal/pack"
	"github.com/archivekit/packforge/internal/rfile"
	"github.com/archivekit/packforge/internal/schema"
	"github.com/archivekit/packforge/internal/table"
)

// PackResolver implements Resolver by checking the local Pack first, then
// falling back to a dependencies cache (both optional: a nil Cache just
// skips that half of every lookup).
type PackResolver struct {
	Local    *pack.Pack
	Cache    *dependencies.Cache
	Registry *schema.Registry
}

func (r *PackResolver) FileExists(path string) bool {
	if r.Local != nil {
		if _, ok := r.Local.Get(path); ok {
			return true
		}
	}
	if r.Cache == nil {
		return false
	}
	ok, err := r.Cache.FileExists(path, true, true, true)
	return err == nil && ok
}

// tableHasKey reports whether any row of t holds value in the named column.
func tableHasKey(t *table.Table, column, value string) bool {
	col, ok := t.ColumnPositionByName(column)
	if !ok {
		return false
	}
	for _, row := range t.Rows {
		if col >= len(row) {
			continue
		}
		if cellString(row[col]) == value {
			return true
		}
	}
	return false
}

func cellString(c table.DecodedData) string {
	if c.Str != "" {
		return c.Str
	}
	switch c.Type {
	case schema.FieldI16, schema.FieldOptionalI16:
		return strconv.FormatInt(int64(c.I16), 10)
	case schema.FieldI32, schema.FieldOptionalI32, schema.FieldColourRGB:
		return strconv.FormatInt(int64(c.I32), 10)
	case schema.FieldI64, schema.FieldOptionalI64:
		return strconv.FormatInt(c.I64, 10)
	default:
		return c.Str
	}
}

func (r *PackResolver) TableHasKey(tableName, column, value string) bool {
	for _, t := range r.localTables(tableName) {
		if tableHasKey(t, column, value) {
			return true
		}
	}
	if r.Cache != nil {
		if rfiles, err := r.Cache.DBData(tableName, true, true); err == nil {
			for _, f := range rfiles {
				_, val, err := decodedValue(f, r.Registry)
				if err != nil {
					continue
				}
				if db, ok := val.(*rfile.DB); ok && tableHasKey(db.Table, column, value) {
					return true
				}
			}
		}
	}
	return false
}

func (r *PackResolver) localTables(tableName string) []*table.Table {
	if r.Local == nil {
		return nil
	}
	var out []*table.Table
	for _, f := range r.Local.FilesByType([]rfile.FileType{rfile.TypeDB}) {
		name, ok := rfile.TableNameForPath(f.Path)
		if !ok || name != tableName {
			continue
		}
		_, val, err := decodedValue(f, r.Registry)
		if err != nil {
			continue
		}
		if db, ok := val.(*rfile.DB); ok {
			out = append(out, db.Table)
		}
	}
	return out
}
