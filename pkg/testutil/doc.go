// Package testutil provides helpers for tests that need component files
// and images on disk or in memory.
package testutil
