// Package topology monta o grafo tenant -> cluster -> tópico a partir das
// coleções já carregadas pelas telas de clusters e tópicos.
package topology

import (
	"strconv"

	"github.com/example/tenant-console/internal/models"
)

// Node representa um recurso no grafo.
type Node struct {
	ID     string            `json:"id"`
	Kind   string            `json:"kind"`
	Name   string            `json:"name"`
	Status string            `json:"status,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
}

// Edge representa uma relação entre recursos.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph é o grafo completo. Orphans conta tópicos sem cluster conhecido.
type Graph struct {
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
	Orphans int    `json:"orphans"`
}

const (
	KindTenant  = "Tenant"
	KindCluster = "Cluster"
	KindTopic   = "Topic"
)

// Build constrói o grafo. clusterFilter vazio ou "all" inclui todos os clusters.
// O tópico é ligado pelo clusterId; se o id não existir, pelo clusterName.
func Build(tenantID string, clusters []models.Cluster, topics []models.Topic, clusterFilter string) *Graph {
	g := &Graph{Nodes: []Node{}, Edges: []Edge{}}

	root := "tenant:" + tenantID
	g.Nodes = append(g.Nodes, Node{ID: root, Kind: KindTenant, Name: tenantID})

	byID := map[int64]string{}
	byName := map[string]string{}
	for _, c := range clusters {
		if clusterFilter != "" && clusterFilter != "all" && clusterFilter != c.Name {
			continue
		}
		id := "cluster:" + strconv.FormatInt(c.ID, 10)
		byID[c.ID] = id
		byName[c.Name] = id
		g.Nodes = append(g.Nodes, Node{
			ID:     id,
			Kind:   KindCluster,
			Name:   c.Name,
			Status: c.HealthStatus,
			Labels: map[string]string{
				"status":  c.Status,
				"version": c.KafkaVersion,
				"brokers": strconv.Itoa(c.BrokerCount),
			},
		})
		g.Edges = append(g.Edges, edge(root, id))
	}

	for _, t := range topics {
		parent, ok := byID[t.ClusterID]
		if !ok {
			parent, ok = byName[t.ClusterName]
		}
		if !ok {
			// Fora do filtro ou sem cluster conhecido.
			if !belongsToAny(clusters, t) {
				g.Orphans++
			}
			continue
		}
		id := "topic:" + strconv.FormatInt(t.ID, 10)
		g.Nodes = append(g.Nodes, Node{
			ID:     id,
			Kind:   KindTopic,
			Name:   t.Name,
			Status: t.Status,
			Labels: map[string]string{
				"partitions":  strconv.Itoa(t.Partitions),
				"replication": strconv.Itoa(t.ReplicationFactor),
			},
		})
		g.Edges = append(g.Edges, edge(parent, id))
	}
	return g
}

func edge(source, target string) Edge {
	return Edge{ID: "edge:" + source + "->" + target, Source: source, Target: target}
}

// belongsToAny ignora o filtro: olha a lista completa de clusters.
func belongsToAny(clusters []models.Cluster, t models.Topic) bool {
	for _, c := range clusters {
		if c.ID == t.ClusterID || (t.ClusterName != "" && c.Name == t.ClusterName) {
			return true
		}
	}
	return false
}
