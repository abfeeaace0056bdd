// Package google loads Google service account credentials and builds the
// authenticated HTTP client used by the Sheets API client.
//
// Credentials come either from an inline JSON blob (typically an environment
// variable on hosted deployments) or from a key file on disk. The inline blob
// wins when both are set.
package google
