package auth

import (
	"net/mail"
	"regexp"
)

// MinPasswordLength é o tamanho mínimo de senha aceito no cadastro.
const MinPasswordLength = 8

var subdomainRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// RegisterRequest são os dados de cadastro de uma nova organização e do seu administrador.
type RegisterRequest struct {
	OrganizationName string `json:"organizationName"`
	Subdomain        string `json:"subdomain"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
	Phone            string `json:"phone,omitempty"`
	Timezone         string `json:"timezone,omitempty"`
	Locale           string `json:"locale,omitempty"`
}

// Validate aplica as regras locais de cadastro. Nenhuma chamada de rede é feita.
func (r RegisterRequest) Validate() error {
	required := []struct{ field, value, msg string }{
		{"organizationName", r.OrganizationName, "nome da organização é obrigatório"},
		{"subdomain", r.Subdomain, "subdomínio é obrigatório"},
		{"firstName", r.FirstName, "nome é obrigatório"},
		{"lastName", r.LastName, "sobrenome é obrigatório"},
		{"email", r.Email, "e-mail é obrigatório"},
	}
	for _, f := range required {
		if f.value == "" {
			return validation(f.field, f.msg)
		}
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return validation("email", "e-mail inválido")
	}
	if r.Password != r.ConfirmPassword {
		return validation("confirmPassword", "as senhas não conferem")
	}
	if len(r.Password) < MinPasswordLength {
		return validation("password", "a senha deve ter pelo menos 8 caracteres")
	}
	return ValidateSubdomain(r.Subdomain)
}

// ValidateSubdomain aceita apenas letras minúsculas, dígitos e hífens internos.
func ValidateSubdomain(s string) error {
	if !subdomainRe.MatchString(s) {
		return validation("subdomain", "o subdomínio deve conter apenas letras minúsculas, números e hífens")
	}
	return nil
}

func validation(field, msg string) *Failure {
	return &Failure{Kind: KindValidation, Field: field, Message: msg}
}
