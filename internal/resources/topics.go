package resources

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/example/tenant-console/internal/models"
)

const mib = 1024 * 1024

// Topics descreve a tela de tópicos. Facetas: status e cluster.
func Topics() Descriptor[models.Topic] {
	return Descriptor[models.Topic]{
		Name:     "topics",
		ListPath: "/kafka/topics",
		ItemPath: "/kafka/topics",
		Samples:  SampleTopics,
		SearchFields: func(t models.Topic) []string {
			return []string{t.Name, t.Description, t.ClusterName}
		},
		Facets: map[string]func(models.Topic) []string{
			"status":  func(t models.Topic) []string { return one(t.Status) },
			"cluster": func(t models.Topic) []string { return one(t.ClusterName) },
		},
		Columns: []string{"Name", "Cluster", "Status", "Partitions", "Replication Factor", "Messages", "Size (bytes)", "Retention (ms)", "Compression", "Created At"},
		Row: func(t models.Topic) []string {
			return []string{
				t.Name, t.ClusterName, t.Status,
				strconv.Itoa(t.Partitions), strconv.Itoa(t.ReplicationFactor),
				strconv.FormatInt(t.MessageCount, 10), strconv.FormatInt(t.SizeBytes, 10),
				strconv.FormatInt(t.RetentionMs, 10), t.CompressionType, t.CreatedAt,
			}
		},
		WithID: func(t models.Topic, id int64) models.Topic { t.ID = id; return t },
		Validate: func(t models.Topic) error {
			if strings.TrimSpace(t.Name) == "" {
				return errors.New("nome do tópico é obrigatório")
			}
			return nil
		},
		Prepare: prepareTopic,
		Merge: func(old, in models.Topic) models.Topic {
			keep(&old.Name, in.Name)
			keep(&old.Description, in.Description)
			if in.ClusterID != 0 {
				old.ClusterID = in.ClusterID
			}
			if in.Partitions > 0 {
				old.Partitions = in.Partitions
			}
			if in.ReplicationFactor > 0 {
				old.ReplicationFactor = in.ReplicationFactor
			}
			if in.RetentionMs > 0 {
				old.RetentionMs = in.RetentionMs
			}
			if in.CompressionType != "" {
				old.CompressionType = in.CompressionType
			}
			return old
		},
	}
}

func prepareTopic(t models.Topic, existing []models.Topic, now time.Time) models.Topic {
	if t.Partitions <= 0 {
		t.Partitions = 3
	}
	if t.ReplicationFactor <= 0 {
		t.ReplicationFactor = 1
	}
	if t.RetentionMs <= 0 {
		t.RetentionMs = 604800000
	}
	if t.CompressionType == "" {
		t.CompressionType = "none"
	}
	if t.ClusterName == "" {
		t.ClusterName = "Unknown"
		for _, e := range existing {
			if e.ClusterID == t.ClusterID && e.ClusterName != "" {
				t.ClusterName = e.ClusterName
				break
			}
		}
	}
	t.Status = "ACTIVE"
	t.SizeBytes = 0
	t.MessageCount = 0
	t.CreatedAt = stamp(now)
	return t
}

// SampleTopics é o conjunto de exemplo exibido quando a API falha.
func SampleTopics() []models.Topic {
	return []models.Topic{
		{
			ID: 1, Name: "user-events", Description: "User activity events and behavior tracking",
			ClusterID: 1, ClusterName: "kafka-prod-01", Partitions: 6, ReplicationFactor: 3,
			Status: "ACTIVE", SizeBytes: 512 * mib, MessageCount: 1250000, RetentionMs: 604800000,
			CompressionType: "gzip", CreatedAt: "2025-01-20T10:00:00Z", ThroughputMBps: 15.2, AvgMessageSize: 420,
		},
		{
			ID: 2, Name: "order-processing", Description: "E-commerce order events and transaction processing",
			ClusterID: 1, ClusterName: "kafka-prod-01", Partitions: 12, ReplicationFactor: 3,
			Status: "ACTIVE", SizeBytes: 256 * mib, MessageCount: 850000, RetentionMs: 1209600000,
			CompressionType: "snappy", CreatedAt: "2025-02-01T14:30:00Z", ThroughputMBps: 8.7, AvgMessageSize: 315,
		},
		{
			ID: 3, Name: "inventory-updates", Description: "Real-time inventory and stock level changes",
			ClusterID: 2, ClusterName: "kafka-staging", Partitions: 4, ReplicationFactor: 2,
			Status: "ACTIVE", SizeBytes: 128 * mib, MessageCount: 420000, RetentionMs: 259200000,
			CompressionType: "lz4", CreatedAt: "2025-02-10T09:15:00Z", ThroughputMBps: 3.1, AvgMessageSize: 280,
		},
		{
			ID: 4, Name: "notification-service", Description: "Push notifications and email alerts",
			ClusterID: 1, ClusterName: "kafka-prod-01", Partitions: 3, ReplicationFactor: 3,
			Status: "INACTIVE", SizeBytes: 64 * mib, MessageCount: 180000, RetentionMs: 86400000,
			CompressionType: "none", CreatedAt: "2025-01-15T16:45:00Z", ThroughputMBps: 0.5, AvgMessageSize: 380,
		},
	}
}
