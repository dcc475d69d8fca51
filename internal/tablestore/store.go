// Package tablestore persists the pipeline's intermediate and final tables.
//
// Each stage fully materializes one table and writes it through a Store; the
// files are the pipeline's only inter-stage interface. The Store interface
// keeps the backing medium interchangeable: CSV files in production, memory
// in tests.
package tablestore

import "context"

// Table is one fully-formed rectangular table with a header row.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Store reads and writes whole tables. A Write either persists the complete
// table or nothing at all; partial artifacts must never be observable.
type Store interface {
	Write(ctx context.Context, table Table) error
	Read(ctx context.Context, name string) (Table, error)
}
