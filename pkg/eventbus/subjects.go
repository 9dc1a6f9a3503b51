package eventbus

import "fmt"

const (
	// SubjectPrefix is the canonical prefix for cluster events fanned out
	// over the event bus.
	SubjectPrefix = "clustersim.v1.events"
)

// Domain identifies a cluster event domain.
type Domain string

const (
	DomainCluster Domain = "cluster"
	DomainAlert   Domain = "alert"
)

// ClusterSubject returns the canonical subject for a cluster state event.
func ClusterSubject(shardKey, eventType string) string {
	return fmt.Sprintf("%s.%s.%s.%s", SubjectPrefix, DomainCluster, sanitizeSegment(shardKey), sanitizeSegment(eventType))
}

// AlertSubject returns the canonical subject for an alert event.
func AlertSubject(shardKey, eventType string) string {
	return fmt.Sprintf("%s.%s.%s.%s", SubjectPrefix, DomainAlert, sanitizeSegment(shardKey), sanitizeSegment(eventType))
}

// DomainWildcardSubject returns the canonical wildcard subject for a domain.
func DomainWildcardSubject(domain Domain) string {
	return fmt.Sprintf("%s.%s.>", SubjectPrefix, sanitizeSegment(string(domain)))
}

func sanitizeSegment(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
