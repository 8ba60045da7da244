package node

// ExportReconcilePorts exposes reconcilePorts to node_test for
// exercising reconciliation after construction without a second
// exported "re-reconcile" entry point the production surface doesn't
// otherwise need yet (§9 Open Questions: reconciliation is currently
// only driven by init-complete and a future element notification).
func ExportReconcilePorts(n *Node, suppressEvents bool) {
	n.reconcilePorts(suppressEvents)
}
