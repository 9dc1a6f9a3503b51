package cluster

import (
	"sync"
	"time"
)

const (
	maxEventLog           = 50
	maxUtilizationHistory = 50
)

// ClusterState is the in-memory source of truth for nodes, pods, the recent
// event log, and the utilization history. All access goes through a single
// mutex; callers always receive deep copies so they can never mutate state
// out from under a concurrent reader. This mirrors the lock-guarded
// snapshot pattern used throughout the rest of the stack for shared mutable
// state.
type ClusterState struct {
	mu sync.RWMutex

	nodes     map[string]*Node
	nodeOrder []string // insertion order, for deterministic first-fit scans

	pods map[string]*Pod

	events      []Event
	utilization []UtilizationSample
}

// NewClusterState creates an empty cluster state.
func NewClusterState() *ClusterState {
	return &ClusterState{
		nodes: make(map[string]*Node),
		pods:  make(map[string]*Pod),
	}
}

// UpsertNode inserts or replaces a node. Insertion order is preserved on
// first insert so first-fit scans are deterministic across restarts.
func (s *ClusterState) UpsertNode(n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.nodes[n.ID]; !exists {
		s.nodeOrder = append(s.nodeOrder, n.ID)
	}
	s.nodes[n.ID] = n.Clone()
}

// RemoveNode deletes a node and detaches its pods from cluster tracking,
// returning the removed node (if any) and the pods that were assigned to it.
func (s *ClusterState) RemoveNode(id string) (*Node, []*Pod) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, nil
	}
	removed := n.Clone()
	delete(s.nodes, id)
	for i, nid := range s.nodeOrder {
		if nid == id {
			s.nodeOrder = append(s.nodeOrder[:i], s.nodeOrder[i+1:]...)
			break
		}
	}

	var detached []*Pod
	for _, podID := range removed.PodIDs {
		if p, ok := s.pods[podID]; ok {
			detached = append(detached, p.Clone())
			delete(s.pods, podID)
		}
	}
	return removed, detached
}

// GetNode returns a copy of the node, if present.
func (s *ClusterState) GetNode(id string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// Nodes returns a snapshot of all nodes in insertion order.
func (s *ClusterState) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		out = append(out, s.nodes[id].Clone())
	}
	return out
}

// MutateNode applies fn to the live node under the write lock and reports
// whether the node existed. fn must not retain the pointer it is given.
func (s *ClusterState) MutateNode(id string, fn func(*Node)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return false
	}
	fn(n)
	return true
}

// UpsertPod inserts or replaces a pod record.
func (s *ClusterState) UpsertPod(p *Pod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pods[p.ID] = p.Clone()
}

// GetPod returns a copy of the pod, if present.
func (s *ClusterState) GetPod(id string) (*Pod, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pods[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Pods returns a snapshot of all pods.
func (s *ClusterState) Pods() []*Pod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Pod, 0, len(s.pods))
	for _, p := range s.pods {
		out = append(out, p.Clone())
	}
	return out
}

// PlacePod picks a destination node for pod using algo and, on success,
// atomically decrements the chosen node's available resources, appends the
// pod's ID to the node's PodIDs, sets the pod's NodeID, and records the pod.
// Placement decision and mutation happen under a single write lock so a
// concurrent scheduling attempt never observes or claims stale capacity.
func (s *ClusterState) PlacePod(pod Pod, algo Algorithm) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]*Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		candidates = append(candidates, s.nodes[id])
	}

	chosen, ok := place(candidates, pod, algo)
	if !ok {
		return "", false
	}

	chosen.CPUAvailable -= pod.CPU
	chosen.MemoryAvailable -= pod.Memory
	chosen.PodIDs = append(chosen.PodIDs, pod.ID)

	pod.NodeID = chosen.ID
	s.pods[pod.ID] = pod.Clone()

	return chosen.ID, true
}

// SetPodNode sets a pod's NodeID; the nodes' PodIDs lists are not changed.
func (s *ClusterState) SetPodNode(podID, nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pods[podID]; ok {
		p.NodeID = nodeID
	}
}

// MarkNodeFailed transitions an active node to failed and returns a clone of
// the node together with the IDs of pods it was hosting, so the caller can
// reschedule them outside the lock. It is a no-op (returns ok=false) if the
// node is missing or already failed.
func (s *ClusterState) MarkNodeFailed(id string) (*Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok || n.Status != NodeActive {
		return nil, false
	}
	n.Status = NodeFailed
	return n.Clone(), true
}

// DetachPod clears a pod's node assignment, removes it from that node's
// PodIDs bookkeeping, and returns the pod's CPU/memory to the node's
// available pool, leaving the pod record itself in place so it can be
// rescheduled. Restoring capacity here keeps cpu_available equal to
// cpu_total minus the hosted pods' requests even on a failed node that is
// retained for heartbeat reactivation.
func (s *ClusterState) DetachPod(podID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pods[podID]
	if !ok {
		return
	}
	oldNode := p.NodeID
	p.NodeID = ""
	if n, ok := s.nodes[oldNode]; ok {
		s.releasePodResources(n, p)
	}
}

// DeletePod removes a pod from cluster tracking entirely, detaching it from
// its node's bookkeeping first if it still has one. Used when a pod cannot
// be rescheduled — a pod is never
// left behind with a blank NodeID once it is known to be unplaceable.
func (s *ClusterState) DeletePod(podID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pods[podID]
	if !ok {
		return
	}
	if n, ok := s.nodes[p.NodeID]; ok {
		s.releasePodResources(n, p)
	}
	delete(s.pods, podID)
}

// releasePodResources drops p from n's PodIDs and returns its CPU/memory to
// the node's available pool. Caller holds the write lock.
func (s *ClusterState) releasePodResources(n *Node, p *Pod) {
	for i, pid := range n.PodIDs {
		if pid == p.ID {
			n.PodIDs = append(n.PodIDs[:i], n.PodIDs[i+1:]...)
			n.CPUAvailable += p.CPU
			n.MemoryAvailable += p.Memory
			if n.CPUAvailable > n.CPUTotal {
				n.CPUAvailable = n.CPUTotal
			}
			if n.MemoryAvailable > n.MemoryTotal {
				n.MemoryAvailable = n.MemoryTotal
			}
			return
		}
	}
}

// AppendEvent records a timestamped event line, trimming the log to the most
// recent maxEventLog entries, matching the reference implementation's
// rolling 50-entry event_log.
func (s *ClusterState) AppendEvent(ts time.Time, message string) Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := Event{Timestamp: ts, Message: message}
	s.events = append(s.events, e)
	if len(s.events) > maxEventLog {
		s.events = s.events[len(s.events)-maxEventLog:]
	}
	return e
}

// Events returns a snapshot of the recent event log.
func (s *ClusterState) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// AppendUtilization records a utilization sample, trimming to the most
// recent maxUtilizationHistory entries.
func (s *ClusterState) AppendUtilization(sample UtilizationSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.utilization = append(s.utilization, sample)
	if len(s.utilization) > maxUtilizationHistory {
		s.utilization = s.utilization[len(s.utilization)-maxUtilizationHistory:]
	}
}

// UtilizationHistory returns a snapshot of the recent utilization samples.
func (s *ClusterState) UtilizationHistory() []UtilizationSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UtilizationSample, len(s.utilization))
	copy(out, s.utilization)
	return out
}

// Utilization returns the fraction (0.0-1.0) of total CPU in use across
// active nodes. With no active nodes it returns 1.0.
func (s *ClusterState) Utilization() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var totalCPU, usedCPU int
	var activeCount int
	for _, n := range s.nodes {
		if n.Status != NodeActive {
			continue
		}
		activeCount++
		totalCPU += n.CPUTotal
		usedCPU += n.CPUTotal - n.CPUAvailable
	}
	if activeCount == 0 {
		return 1.0
	}
	if totalCPU == 0 {
		return 0
	}
	return float64(usedCPU) / float64(totalCPU)
}

// ActiveAndTotalCounts reports how many nodes are active out of the total,
// used by the periodic auto-scale ratio check.
func (s *ClusterState) ActiveAndTotalCounts() (active, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total = len(s.nodes)
	for _, n := range s.nodes {
		if n.Status == NodeActive {
			active++
		}
	}
	return active, total
}
