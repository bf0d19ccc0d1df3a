// Package schedule turns a delimited shift schedule into immutable, queryable records.
//
// The pipeline has four stages, each usable on its own:
//
//	Tokenize      raw text -> rows of fields (commas inside "..." survive)
//	ResolveHeader header row -> ColumnIndex (fails on any missing column)
//	Normalizer    data row  -> Record (trim, zero-sentinel, policies, date key)
//	NewCollection records   -> distinct dates + Day/Night groups in truck order
//
// Parse and ParseRows run the whole pipeline. Parsing is synchronous and has no side
// effects; every call returns a brand-new Collection and never touches a previous one.
//
// # Date keys
//
// Dates arrive either dash-separated (year-month-day) or slash-separated
// (month/day/year). For slash dates whose final segment exceeds 31 the final segment
// is taken as the year and the first two segments are swapped when the first cannot be
// a month. Dates such as 05/12/2025 stay month-first and are therefore ambiguous; the
// heuristic is lossy by nature. Keys are zero-padded YYYY-MM-DD so that comparing keys
// as strings compares them chronologically.
package schedule
