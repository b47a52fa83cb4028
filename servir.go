// Package servir provides a collection and normalization pipeline for job
// postings published on the SERVIR public-sector listing. It walks the
// paginated listing, extracts each posting with retry, persists raw records
// keyed by posting id, normalizes the raw text into typed fields, and
// classifies cleaned job titles against the ISCO-08 occupational taxonomy.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, rod/, gemini/).
package servir
