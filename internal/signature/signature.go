// Package signature renders the deterministic node signature used for
// exact-match comparison in package differentiate.
package signature

import (
	"fmt"

	"github.com/ntrotner/heap-causal-link/internal/domain"
)

// OfNode renders the (type, value, root) triple used as a node's identity
// for exact matching. Two nodes with the same signature are interchangeable
// for Phase 1 purposes regardless of id.
func OfNode(n domain.Node) string {
	value := ""
	if n.Value != nil {
		value = *n.Value
	}
	return fmt.Sprintf("%s\x00%s\x00%t", n.Type, value, n.Root)
}
