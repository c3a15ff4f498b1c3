// Package shared holds helpers that belong to no single layer of the
// cleaner. Its one resident today is testutil, the buffered slog handler
// that test packages use to assert on structured log output.
//
// Nothing under shared may import other internal packages; dependencies
// point inward only. Domain logic does not live here.
package shared
