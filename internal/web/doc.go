// Package web serves the browser UI for the task list.
//
// Pages are rendered server-side from embedded html/template files that share
// one layout. Mutations are plain form POSTs answered with a 303 redirect and
// a one-shot flash message carried in an HMAC-signed cookie.
//
// Routes:
//
//   - GET  /                  all tasks by due date, with the add form
//   - GET  /tasks             list with filter=todo, category=<name>, sort=priority
//   - POST /add               create a task
//   - GET  /edit/{id}         edit form
//   - POST /update/{id}       overwrite the editable fields
//   - POST /toggle/{id}       flip the completion flag
//   - POST /delete/{id}       delete one task
//   - POST /delete_completed  delete every completed task
//
// Instrument wraps the mux with otelhttp tracing and request metrics.
package web
