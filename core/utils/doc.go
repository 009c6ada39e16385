// Package utils provides conversion helpers between driver column values and
// the nullable strings used by the record model.
package utils
