package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tenant-console/internal/models"
	"github.com/example/tenant-console/internal/resources"
)

func kinds(g *Graph) map[string]int {
	out := map[string]int{}
	for _, n := range g.Nodes {
		out[n.Kind]++
	}
	return out
}

func TestBuildLinksTopicsToClusters(t *testing.T) {
	g := Build("acme", resources.SampleClusters(), resources.SampleTopics(), "")

	assert.Equal(t, map[string]int{KindTenant: 1, KindCluster: 4, KindTopic: 4}, kinds(g))
	require.Len(t, g.Edges, 8)
	assert.Contains(t, g.Edges, Edge{ID: "edge:tenant:acme->cluster:1", Source: "tenant:acme", Target: "cluster:1"})
	assert.Contains(t, g.Edges, Edge{ID: "edge:cluster:2->topic:3", Source: "cluster:2", Target: "topic:3"})
	assert.Zero(t, g.Orphans)
}

func TestBuildClusterFilter(t *testing.T) {
	g := Build("acme", resources.SampleClusters(), resources.SampleTopics(), "kafka-staging")

	assert.Equal(t, map[string]int{KindTenant: 1, KindCluster: 1, KindTopic: 1}, kinds(g))
	assert.Len(t, g.Edges, 2)
	assert.Zero(t, g.Orphans, "tópicos de outros clusters não são órfãos")
}

func TestBuildFallsBackToClusterNameAndCountsOrphans(t *testing.T) {
	clusters := []models.Cluster{{ID: 7, Name: "kafka-a"}}
	topics := []models.Topic{
		{ID: 1, Name: "by-name", ClusterID: 99, ClusterName: "kafka-a"},
		{ID: 2, Name: "lost", ClusterID: 42, ClusterName: "Unknown"},
	}
	g := Build("acme", clusters, topics, "all")

	assert.Contains(t, g.Edges, Edge{ID: "edge:cluster:7->topic:1", Source: "cluster:7", Target: "topic:1"})
	assert.Equal(t, 1, g.Orphans)
	assert.Len(t, g.Nodes, 3)
}
