package domain

import "fmt"

// TableID names one of the three output views a stage can be routed into.
type TableID string

const (
	Table1 TableID = "table1"
	Table2 TableID = "table2"
	Table3 TableID = "table3"
)

// AllTables lists every table in display order.
var AllTables = []TableID{Table1, Table2, Table3}

func (t TableID) Valid() bool {
	switch t {
	case Table1, Table2, Table3:
		return true
	default:
		return false
	}
}

// ParseTableID accepts "table1".."table3" or the bare digits "1".."3".
func ParseTableID(s string) (TableID, error) {
	switch s {
	case "1":
		return Table1, nil
	case "2":
		return Table2, nil
	case "3":
		return Table3, nil
	}
	t := TableID(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown table %q (expected table1, table2 or table3)", s)
	}
	return t, nil
}

// StageDepth is the nesting level of a stage. Only one level of sub-stages
// is supported.
type StageDepth int

const (
	DepthTop StageDepth = 0
	DepthSub StageDepth = 1
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)
