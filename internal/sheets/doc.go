// Package sheets is a thin client over the Google Sheets API v4 that treats
// one worksheet as a table: the first row holds the column headers and every
// following row is a record.
//
// Rows are addressed by their 1-based sheet row number, so the first record
// lives in row 2. Values are read as displayed (FORMATTED_VALUE) and written
// verbatim (RAW) so that identifiers such as "007" keep their leading zeros.
package sheets
