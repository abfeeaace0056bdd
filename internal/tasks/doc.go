// Package tasks holds the task model and the repository that stores tasks as
// rows of a spreadsheet.
//
// A task row has nine columns in fixed order (see Columns). Rows are located
// by a linear scan over the identifier column on every mutation; the row
// position is never cached between calls, so concurrent edits by other
// writers are last-write-wins.
package tasks
