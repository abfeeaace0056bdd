// Package reminder selects incomplete tasks due today or tomorrow (Japan
// Standard Time) and pushes a summary message to a chat recipient.
//
// Due dates are parsed strictly here: a value that is not an ISO-8601 date or
// date-time is skipped rather than treated as "no due date". This differs on
// purpose from tasks.ParseDue, which the web UI uses for ordering only.
package reminder
