// Package vault writes digest artifacts into the operator's note vault.
package vault
