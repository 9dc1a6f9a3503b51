package cluster

// place selects the node that should host pod among nodes, according to
// algo. It is a pure function over a caller-supplied slice so it can be
// unit-tested without any locking, and is also used internally by
// ClusterState.PlacePod under the state lock.
//
// Eligibility: a node is a candidate only if it is active, has enough spare
// CPU and memory, matches the pod's network group, and (when the pod
// specifies one) matches the pod's node-type affinity.
//
// Tie-break, by algorithm:
//   - first_fit: the first eligible node in iteration order.
//   - best_fit:  the eligible node with the least combined spare CPU+memory
//     left over after placement (tightest fit).
//   - worst_fit: the eligible node with the most combined spare CPU+memory
//     (loosest fit); this is also the fallback for any algorithm value that
//     isn't recognized, matching the reference scheduler's catch-all branch.
func place(nodes []*Node, pod Pod, algo Algorithm) (*Node, bool) {
	var chosen *Node

	for _, n := range nodes {
		if !nodeEligible(n, pod) {
			continue
		}

		switch algo {
		case FirstFit:
			return n, true
		case BestFit:
			if chosen == nil || slack(n, pod) < slack(chosen, pod) {
				chosen = n
			}
		default: // WorstFit and anything unrecognized
			if chosen == nil || slack(n, pod) > slack(chosen, pod) {
				chosen = n
			}
		}
	}

	if chosen == nil {
		return nil, false
	}
	return chosen, true
}

func nodeEligible(n *Node, pod Pod) bool {
	if n.Status != NodeActive {
		return false
	}
	if n.CPUAvailable < pod.CPU || n.MemoryAvailable < pod.Memory {
		return false
	}
	if pod.NetworkGroup != "" && n.NetworkGroup != pod.NetworkGroup {
		return false
	}
	if pod.NodeAffinity != "" && n.NodeType != pod.NodeAffinity {
		return false
	}
	return true
}

// slack is the combined CPU+memory a node would have left over if it hosted
// pod; lower is a tighter fit, higher is a looser one.
func slack(n *Node, pod Pod) int {
	return (n.CPUAvailable - pod.CPU) + (n.MemoryAvailable - pod.Memory)
}
