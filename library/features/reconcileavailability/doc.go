// Package reconcileavailability brings the stores back in line with the lifecycle journal.
//
// It finishes transitions whose store writes were never confirmed, marks books of
// accepted requests unavailable, writes request statuses the journal knows better,
// and releases submission claims that outlived the claim TTL. Books that are
// unavailable without an accepted request are only reported: an admin may have
// marked them so on purpose.
//
// It runs from the CLI, on a ticker in the server and on admin request.
package reconcileavailability
