package browser

// nodeInfo is the engine-owned annotation for one materialized node. One
// entry exists per node for the lifetime of the loaded design; depth and
// expandable never change after creation (the underlying tree is immutable
// once loaded), and entries are never removed so a collapse/re-expand cycle
// costs no recomputation.
type nodeInfo struct {
	depth      int
	expandable bool
	expanded   bool
	parent     Node // back-reference only, nil for roots
}

// getOrInit returns the cached entry for n, creating it on first
// materialization. Expandability is computed once from the source.
func (b *Browser) getOrInit(n Node, depth int, parent Node) *nodeInfo {
	if fi, ok := b.nodes[n]; ok {
		return fi
	}
	fi := &nodeInfo{
		depth:      depth,
		expandable: len(b.src.Children(n)) > 0,
		parent:     parent,
	}
	b.nodes[n] = fi
	return fi
}

// mustInfo returns the entry for n. Every row in the visible list refers to
// a materialized node, so a miss is a bug in the engine, not bad input.
func (b *Browser) mustInfo(n Node) *nodeInfo {
	fi, ok := b.nodes[n]
	if !ok {
		panic("browser: info lookup for a node that was never materialized")
	}
	return fi
}
