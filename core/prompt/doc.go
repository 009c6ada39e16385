// Package prompt implements the interactive y/n confirmation used before
// overwriting an export file or wiping the store during a sync.
//
// Only the exact answers "y" and "n" are accepted; anything else is
// re-prompted without limit. End of input without an answer is ErrNoInput.
package prompt
