package google

import sheets "google.golang.org/api/sheets/v4"

// DefaultScopes are the OAuth scopes requested for the service account.
// Read and write access to spreadsheets is all the task store needs.
var DefaultScopes = []string{
	sheets.SpreadsheetsScope,
}
