// Package loc decodes and encodes ".loc" localisation tables: a thin
// wrapper over internal/table's generic DB/Loc row codec bound to the
// fixed "loc" schema name.
package loc

import (
	"github.com/archivekit/packforge/internal/schema"
	"github.com/archivekit/packforge/internal/table"
)

// Loc is the decoded value an RFile of type Loc holds.
type Loc struct {
	Table   *table.Table
	Version int32
}

// Decode parses a ".loc" payload using reg to resolve the field definition.
func Decode(data []byte, reg *schema.Registry) (*Loc, error) {
	tbl, version, err := table.DecodeLoc(data, reg)
	if err != nil {
		return nil, err
	}
	return &Loc{Table: tbl, Version: version}, nil
}

// Encode is the inverse of Decode.
func Encode(l *Loc) ([]byte, error) {
	return table.EncodeLoc(l.Table, l.Version)
}
