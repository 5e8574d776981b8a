package resources

import (
	"strconv"

	"github.com/example/tenant-console/internal/models"
)

// AuditLogsPath é a consulta usada pela tela de auditoria.
const AuditLogsPath = "/kafka/audit-logs?size=25&sort=timestamp&direction=desc"

// AuditLogs descreve a tela de auditoria. É somente leitura e paginada.
func AuditLogs() Descriptor[models.AuditLogEntry] {
	return Descriptor[models.AuditLogEntry]{
		Name:     "audit-logs",
		ListPath: AuditLogsPath,
		Paged:    true,
		Samples:  SampleAuditLogs,
		SearchFields: func(a models.AuditLogEntry) []string {
			return []string{a.ResourceName, a.UserEmail, a.Action, a.ClusterName, a.TopicName}
		},
		Facets: map[string]func(models.AuditLogEntry) []string{
			"action":       func(a models.AuditLogEntry) []string { return one(a.Action) },
			"status":       func(a models.AuditLogEntry) []string { return one(a.Status) },
			"resourceType": func(a models.AuditLogEntry) []string { return one(a.ResourceType) },
			"user":         func(a models.AuditLogEntry) []string { return one(a.UserEmail) },
		},
		Columns: []string{"Timestamp", "Action", "Resource Type", "Resource Name", "User", "Status", "Duration (ms)", "IP Address"},
		Row: func(a models.AuditLogEntry) []string {
			return []string{
				a.Timestamp, a.Action, a.ResourceType, a.ResourceName,
				a.UserEmail, a.Status, strconv.FormatInt(a.Duration, 10), a.IPAddress,
			}
		},
		WithID: func(a models.AuditLogEntry, id int64) models.AuditLogEntry { a.ID = id; return a },
	}
}

const macAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

// SampleAuditLogs é o conjunto de exemplo exibido quando a API falha.
func SampleAuditLogs() []models.AuditLogEntry {
	return []models.AuditLogEntry{
		{
			ID: 1, Action: "CREATE_TOPIC", ResourceType: "TOPIC", ResourceName: "user-events-v2",
			UserEmail: "admin@enterprise.com", Status: "SUCCESS", Timestamp: "2025-08-22T11:45:00Z",
			Duration: 1250, IPAddress: "192.168.1.100", UserAgent: macAgent,
			ClusterName: "kafka-prod-01", TopicName: "user-events-v2",
		},
		{
			ID: 2, Action: "DELETE_TOPIC", ResourceType: "TOPIC", ResourceName: "temp-topic",
			UserEmail: "admin@enterprise.com", Status: "SUCCESS", Timestamp: "2025-08-22T11:30:00Z",
			Duration: 850, IPAddress: "192.168.1.100", UserAgent: macAgent,
			ClusterName: "kafka-prod-01", TopicName: "temp-topic",
		},
		{
			ID: 3, Action: "UPDATE_CLUSTER", ResourceType: "CLUSTER", ResourceName: "kafka-staging",
			UserEmail: "admin@enterprise.com", Status: "SUCCESS", Timestamp: "2025-08-22T11:15:00Z",
			Duration: 2100, IPAddress: "192.168.1.100", UserAgent: macAgent,
			ClusterName: "kafka-staging",
		},
		{
			ID: 4, Action: "HEALTH_CHECK", ResourceType: "CLUSTER", ResourceName: "kafka-prod-01",
			UserEmail: "system", Status: "SUCCESS", Timestamp: "2025-08-22T11:00:00Z",
			Duration: 150, IPAddress: "127.0.0.1", UserAgent: "System Health Monitor",
			ClusterName: "kafka-prod-01",
		},
		{
			ID: 5, Action: "CONNECTION_FAILED", ResourceType: "CLUSTER", ResourceName: "kafka-test",
			UserEmail: "system", Status: "ERROR", Timestamp: "2025-08-22T10:45:00Z",
			Duration: 5000, IPAddress: "127.0.0.1", UserAgent: "System Health Monitor",
			ClusterName: "kafka-test",
		},
	}
}
