package resources

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/example/tenant-console/internal/models"
)

// Users descreve a gestão de usuários do tenant. A faceta role casa com qualquer papel do usuário.
func Users() Descriptor[models.AccountUser] {
	return Descriptor[models.AccountUser]{
		Name:     "users",
		ListPath: "/users",
		ItemPath: "/users",
		Samples:  SampleUsers,
		SearchFields: func(u models.AccountUser) []string {
			return []string{u.Username, u.Email, u.FirstName, u.LastName}
		},
		Facets: map[string]func(models.AccountUser) []string{
			"status": func(u models.AccountUser) []string { return one(u.Status) },
			"role": func(u models.AccountUser) []string {
				var out []string
				for _, r := range u.Roles.List() {
					out = append(out, string(r))
				}
				return out
			},
		},
		Columns: []string{"Username", "Email", "First Name", "Last Name", "Roles", "Status", "Enabled", "Created At"},
		Row: func(u models.AccountUser) []string {
			roles := make([]string, 0, u.Roles.Len())
			for _, r := range u.Roles.List() {
				roles = append(roles, string(r))
			}
			return []string{
				u.Username, u.Email, u.FirstName, u.LastName,
				strings.Join(roles, "|"), u.Status, strconv.FormatBool(u.Enabled != nil && *u.Enabled), u.CreatedAt,
			}
		},
		WithID: func(u models.AccountUser, id int64) models.AccountUser { u.ID = id; return u },
		Validate: func(u models.AccountUser) error {
			if strings.TrimSpace(u.Email) == "" {
				return errors.New("email é obrigatório")
			}
			return nil
		},
		Prepare: func(u models.AccountUser, _ []models.AccountUser, now time.Time) models.AccountUser {
			if u.Username == "" {
				u.Username = u.Email
			}
			if u.Roles.Len() == 0 {
				u.Roles = models.NewRoleSet(models.RoleUser)
			}
			if u.Status == "" {
				u.Status = "ACTIVE"
			}
			if u.Enabled == nil {
				u.Enabled = flag(true)
			}
			u.EmailVerified = false
			u.LoginCount = 0
			u.CreatedAt = stamp(now)
			return u
		},
		Merge: func(old, in models.AccountUser) models.AccountUser {
			keep(&old.Username, in.Username)
			keep(&old.Email, in.Email)
			keep(&old.FirstName, in.FirstName)
			keep(&old.LastName, in.LastName)
			if in.Roles.Len() > 0 {
				old.Roles = in.Roles
			}
			if in.Status != "" {
				old.Status = in.Status
			}
			if in.Enabled != nil {
				old.Enabled = flag(*in.Enabled)
			}
			return old
		},
	}
}

// SampleUsers é o conjunto de exemplo exibido quando a API falha.
func SampleUsers() []models.AccountUser {
	return []models.AccountUser{
		{
			ID: 1, Username: "admin@enterprise.com", Email: "admin@enterprise.com",
			FirstName: "Admin", LastName: "User", Roles: models.NewRoleSet(models.RoleTenantAdmin),
			Status: "ACTIVE", Enabled: flag(true), EmailVerified: true,
			CreatedAt: "2025-01-15T10:00:00Z", LastLogin: "2025-08-22T11:45:00Z", LoginCount: 156,
		},
		{
			ID: 2, Username: "john.doe@enterprise.com", Email: "john.doe@enterprise.com",
			FirstName: "John", LastName: "Doe", Roles: models.NewRoleSet(models.RoleUser),
			Status: "ACTIVE", Enabled: flag(true), EmailVerified: true,
			CreatedAt: "2025-02-01T14:30:00Z", LastLogin: "2025-08-22T09:15:00Z", LoginCount: 89,
		},
		{
			ID: 3, Username: "jane.smith@enterprise.com", Email: "jane.smith@enterprise.com",
			FirstName: "Jane", LastName: "Smith", Roles: models.NewRoleSet(models.RoleUser),
			Status: "PENDING_VERIFICATION", Enabled: flag(true),
			CreatedAt: "2025-08-20T16:20:00Z",
		},
	}
}
