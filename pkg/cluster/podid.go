package cluster

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// PodIDSequence generates sequential pod identifiers ("pod_1", "pod_2", ...)
// under a dedicated lock, separate from the cluster state lock, matching the
// reference implementation's independent pod_id_lock/pod_id_counter pair.
type PodIDSequence struct {
	mu      sync.Mutex
	counter int64
}

// Next returns the next sequential pod ID.
func (s *PodIDSequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return fmt.Sprintf("pod_%d", s.counter)
}

// Restore advances the sequence so it resumes past the highest pod ID found
// in persisted state, mirroring load_cluster_state's max_pod_id recovery.
func (s *PodIDSequence) Restore(existingIDs []string) {
	var max int64
	for _, id := range existingIDs {
		if !strings.HasPrefix(id, "pod_") {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimPrefix(id, "pod_"), 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if max > s.counter {
		s.counter = max
	}
}
