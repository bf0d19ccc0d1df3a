// Package services implements the business logic layer of shiftboard. It sits
// between the HTTP handlers and the parsing core, owning the state that
// outlives a single request.
//
// # Services
//
//   - ScheduleService: loads the schedule from a source.Source, keeps the
//     current collection, and answers date and Day/Night queries
//   - Refresher: reloads the schedule on a cron expression
//   - PreferenceService: validates and stores per-client themes
//   - HealthService: liveness, readiness and version reporting
//
// # Reload Semantics
//
// A reload fetches the document, parses it, and swaps the result in with a
// single atomic store. Readers never block and never see a half-built
// collection. Concurrent reloads collapse into one fetch.
//
// The outcome decides what stays visible:
//
//   - success: the new collection replaces the old one
//   - structural error (missing columns, no header): an empty collection
//     replaces the old one and the status lists the missing columns
//   - acquisition error: the old collection stays and the status records
//     the failure
//
// Successful and structurally failed reloads are published to connected
// clients through a Publisher.
package services
