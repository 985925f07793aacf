// Package persistence keeps administered permission masks across responder
// restarts.
//
// Only masks that differ from the catalog are stored. The state file is JSON
// and is written whole on every save.
package persistence
