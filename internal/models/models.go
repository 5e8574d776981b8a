package models

import (
	"encoding/json"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Role é um papel RBAC atribuído a um usuário do tenant.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleTenantAdmin Role = "TENANT_ADMIN"
	RoleUser        Role = "USER"
	RoleViewer      Role = "VIEWER"
)

// RoleSet é o conjunto de papéis de um usuário. No JSON é uma lista ordenada.
type RoleSet struct {
	sets.Set[Role]
}

// NewRoleSet cria um RoleSet com os papéis informados.
func NewRoleSet(roles ...Role) RoleSet {
	return RoleSet{Set: sets.New(roles...)}
}

// Has informa se o papel está presente (seguro para RoleSet vazio).
func (r RoleSet) Has(role Role) bool {
	return r.Set != nil && r.Set.Has(role)
}

// List retorna os papéis ordenados.
func (r RoleSet) List() []Role {
	if r.Set == nil {
		return []Role{}
	}
	return sets.List(r.Set)
}

func (r RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.List())
}

func (r *RoleSet) UnmarshalJSON(data []byte) error {
	var roles []Role
	if err := json.Unmarshal(data, &roles); err != nil {
		return err
	}
	r.Set = sets.New(roles...)
	return nil
}

// User representa a identidade autenticada devolvida pelo serviço de identidade.
type User struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Roles       RoleSet `json:"roles"`
	Status      string  `json:"status"`
	Enabled     bool    `json:"enabled"`
	TenantAdmin bool    `json:"tenantAdmin"`
}

// FullName junta nome e sobrenome.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Session agrega identidade, tenant e token do usuário corrente.
// Os três campos existem juntos ou a sessão não existe.
type Session struct {
	Identity User      `json:"user"`
	TenantID string    `json:"tenantId"`
	Token    string    `json:"token"`
	// ExpiresAt zero significa que a expiração é desconhecida.
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Valid verifica o invariante de sessão completa.
func (s Session) Valid() bool {
	return s.Token != "" && s.TenantID != "" && s.Identity.Username != ""
}

// Expired informa se o token já passou da expiração conhecida.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Cluster representa um cluster Kafka registrado no tenant.
type Cluster struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	BootstrapServers string `json:"bootstrapServers"`
	Status           string `json:"status"`       // ACTIVE, INACTIVE, MAINTENANCE
	HealthStatus     string `json:"healthStatus"` // HEALTHY, WARNING, CRITICAL, UNKNOWN
	KafkaVersion     string `json:"kafkaVersion"`
	BrokerCount      int    `json:"brokerCount"`
	TopicCount       int    `json:"topicCount"`
	CreatedAt        string `json:"createdAt"`
	LastHealthCheck  string `json:"lastHealthCheck,omitempty"`
}

func (c Cluster) RecordID() int64 { return c.ID }

// Topic representa um tópico Kafka.
type Topic struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	ClusterID         int64   `json:"clusterId"`
	ClusterName       string  `json:"clusterName"`
	Partitions        int     `json:"partitions"`
	ReplicationFactor int     `json:"replicationFactor"`
	Status            string  `json:"status"` // ACTIVE, INACTIVE, DELETING
	SizeBytes         int64   `json:"sizeBytes"`
	MessageCount      int64   `json:"messageCount"`
	RetentionMs       int64   `json:"retentionMs"`
	CompressionType   string  `json:"compressionType"`
	CreatedAt         string  `json:"createdAt"`
	ThroughputMBps    float64 `json:"throughputMBps,omitempty"`
	AvgMessageSize    int     `json:"avgMessageSize,omitempty"`
}

func (t Topic) RecordID() int64 { return t.ID }

// AuditLogEntry é uma ação registrada no ambiente Kafka do tenant.
type AuditLogEntry struct {
	ID           int64  `json:"id"`
	Action       string `json:"action"`
	ResourceType string `json:"resourceType"`
	ResourceName string `json:"resourceName"`
	UserEmail    string `json:"userEmail"`
	Status       string `json:"status"` // SUCCESS, ERROR, WARNING
	Timestamp    string `json:"timestamp"`
	Duration     int64  `json:"duration"`
	IPAddress    string `json:"ipAddress"`
	UserAgent    string `json:"userAgent"`
	ClusterName  string `json:"clusterName,omitempty"`
	TopicName    string `json:"topicName,omitempty"`
}

func (a AuditLogEntry) RecordID() int64 { return a.ID }

// AccountUser é um usuário do tenant visto pela tela de gestão de usuários.
type AccountUser struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Roles         RoleSet `json:"roles"`
	Status        string  `json:"status"` // ACTIVE, INACTIVE, SUSPENDED, PENDING_VERIFICATION
	// Enabled nil numa atualização mantém o valor atual.
	Enabled       *bool   `json:"enabled,omitempty"`
	EmailVerified bool    `json:"emailVerified"`
	CreatedAt     string  `json:"createdAt"`
	LastLogin     string  `json:"lastLogin,omitempty"`
	LoginCount    int     `json:"loginCount"`
}

func (u AccountUser) RecordID() int64 { return u.ID }

// TenantLimits são as cotas do plano contratado.
type TenantLimits struct {
	MaxUsers     int `json:"maxUsers"`
	MaxClusters  int `json:"maxClusters"`
	APIRateLimit int `json:"apiRateLimit"`
	StorageLimit int `json:"storageLimit"`
}

// TenantStats é o consumo corrente do tenant.
type TenantStats struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalClusters int     `json:"totalClusters"`
	TotalTopics   int     `json:"totalTopics"`
	StorageUsed   float64 `json:"storageUsed"`
	StorageLimit  int     `json:"storageLimit"`
}

// Tenant descreve a organização corrente.
type Tenant struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Subdomain  string       `json:"subdomain"`
	Status     string       `json:"status"`
	Plan       string       `json:"plan"`
	AdminEmail string       `json:"adminEmail"`
	AdminName  string       `json:"adminName,omitempty"`
	CreatedAt  string       `json:"createdAt"`
	Stats      TenantStats  `json:"stats"`
	Limits     TenantLimits `json:"limits"`
}

// ActivityItem é uma linha do feed de atividade do dashboard.
type ActivityItem struct {
	ID        int64  `json:"id"`
	Action    string `json:"action"`
	Resource  string `json:"resource"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	User      string `json:"user"`
}

// Envelope é o formato padrão de resposta da API remota.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    T      `json:"data"`
}

// Page é o corpo paginado usado por endpoints como audit-logs.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements,omitempty"`
}

// StateEntry é uma chave persistida do estado local do console (token, tenantId, user).
type StateEntry struct {
	Key       string    `gorm:"column:state_key;primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}
