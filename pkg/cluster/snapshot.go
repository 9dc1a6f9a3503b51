package cluster

// Snapshot is the full cluster picture broadcast to websocket subscribers on
// every tick, matching the reference implementation's periodic
// broadcast_state payload.
type Snapshot struct {
	Nodes       []*Node             `json:"nodes"`
	Pods        []*Pod              `json:"pods"`
	Events      []Event             `json:"logs"`
	Utilization []UtilizationSample `json:"history"`
	ClusterLoad float64             `json:"cluster_utilization"`
}

func (s *ClusterState) Snapshot() Snapshot {
	return Snapshot{
		Nodes:       s.Nodes(),
		Pods:        s.Pods(),
		Events:      s.Events(),
		Utilization: s.UtilizationHistory(),
		ClusterLoad: s.Utilization(),
	}
}
