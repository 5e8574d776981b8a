package resources

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/example/tenant-console/internal/models"
)

// Clusters descreve a tela de clusters Kafka.
func Clusters() Descriptor[models.Cluster] {
	return Descriptor[models.Cluster]{
		Name:     "clusters",
		ListPath: "/kafka/clusters/all",
		ItemPath: "/kafka/clusters",
		Samples:  SampleClusters,
		SearchFields: func(c models.Cluster) []string {
			return []string{c.Name, c.Description, c.BootstrapServers}
		},
		Facets: map[string]func(models.Cluster) []string{
			"status": func(c models.Cluster) []string { return one(c.Status) },
			"health": func(c models.Cluster) []string { return one(c.HealthStatus) },
		},
		Columns: []string{"Name", "Status", "Health", "Kafka Version", "Brokers", "Topics", "Bootstrap Servers", "Created At"},
		Row: func(c models.Cluster) []string {
			return []string{
				c.Name, c.Status, c.HealthStatus, c.KafkaVersion,
				strconv.Itoa(c.BrokerCount), strconv.Itoa(c.TopicCount),
				c.BootstrapServers, c.CreatedAt,
			}
		},
		WithID: func(c models.Cluster, id int64) models.Cluster { c.ID = id; return c },
		Validate: func(c models.Cluster) error {
			if strings.TrimSpace(c.Name) == "" {
				return errors.New("nome do cluster é obrigatório")
			}
			if strings.TrimSpace(c.BootstrapServers) == "" {
				return errors.New("bootstrap servers é obrigatório")
			}
			return nil
		},
		Prepare: func(c models.Cluster, _ []models.Cluster, now time.Time) models.Cluster {
			c.Status = "ACTIVE"
			c.HealthStatus = "UNKNOWN"
			if c.KafkaVersion == "" {
				c.KafkaVersion = "3.4.0"
			}
			c.BrokerCount = len(strings.Split(c.BootstrapServers, ","))
			c.TopicCount = 0
			c.CreatedAt = stamp(now)
			return c
		},
		Merge: func(old, in models.Cluster) models.Cluster {
			keep(&old.Name, in.Name)
			keep(&old.Description, in.Description)
			if in.BootstrapServers != "" {
				old.BootstrapServers = in.BootstrapServers
				old.BrokerCount = len(strings.Split(in.BootstrapServers, ","))
			}
			if in.KafkaVersion != "" {
				old.KafkaVersion = in.KafkaVersion
			}
			return old
		},
	}
}

// SampleClusters é o conjunto de exemplo exibido quando a API falha.
func SampleClusters() []models.Cluster {
	return []models.Cluster{
		{
			ID: 1, Name: "kafka-prod-01", Description: "Production Kafka cluster for main workloads",
			BootstrapServers: "kafka-prod-01:9092,kafka-prod-02:9092,kafka-prod-03:9092",
			Status:           "ACTIVE", HealthStatus: "HEALTHY", KafkaVersion: "3.4.0",
			BrokerCount: 3, TopicCount: 15,
			CreatedAt: "2025-01-15T10:00:00Z", LastHealthCheck: "2025-08-22T11:45:00Z",
		},
		{
			ID: 2, Name: "kafka-staging", Description: "Staging environment for testing",
			BootstrapServers: "kafka-staging:9092",
			Status:           "ACTIVE", HealthStatus: "HEALTHY", KafkaVersion: "3.4.0",
			BrokerCount: 1, TopicCount: 8,
			CreatedAt: "2025-02-01T14:30:00Z", LastHealthCheck: "2025-08-22T11:40:00Z",
		},
		{
			ID: 3, Name: "kafka-dev", Description: "Development cluster",
			BootstrapServers: "kafka-dev:9092",
			Status:           "ACTIVE", HealthStatus: "WARNING", KafkaVersion: "3.3.2",
			BrokerCount: 1, TopicCount: 5,
			CreatedAt: "2025-02-10T09:15:00Z", LastHealthCheck: "2025-08-22T11:30:00Z",
		},
		{
			ID: 4, Name: "kafka-analytics", Description: "Analytics and data processing cluster",
			BootstrapServers: "kafka-analytics-01:9092,kafka-analytics-02:9092",
			Status:           "MAINTENANCE", HealthStatus: "UNKNOWN", KafkaVersion: "3.4.0",
			BrokerCount: 2, TopicCount: 12,
			CreatedAt: "2025-03-01T16:20:00Z", LastHealthCheck: "2025-08-22T10:00:00Z",
		},
	}
}
