// Package clipboard copies vault entry content to the system clipboard.
package clipboard

import "github.com/atotto/clipboard"

// Copy writes content to the system clipboard.
func Copy(content string) error {
	return clipboard.WriteAll(content)
}
