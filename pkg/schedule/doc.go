// Package schedule parses the cron schedule annotations saved jobs may
// carry. The metastore only validates and reports schedules; triggering
// jobs is the caller's business.
package schedule
