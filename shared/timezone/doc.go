// Package timezone pins every timestamp the service writes to the zone named
// by APP_TIMEZONE (UTC when unset).
//
// Event days are plain YYYY-MM-DD strings, read with ParseDay in that zone so
// an event's start and end never drift a day between hosts:
//
//	start, err := timezone.ParseDay("2025-03-14")
//
// Audit columns use Now.
package timezone
