package auth

import (
	"errors"
	"fmt"
)

// Kind classifica uma falha de autenticação.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindInvalidCredentials
	KindUnreachable
	KindMalformedResponse
	KindRejected
	// KindAccountCreatedLoginFailed: o cadastro foi aceito, mas o login seguinte falhou.
	KindAccountCreatedLoginFailed
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnreachable:
		return "unreachable"
	case KindMalformedResponse:
		return "malformed_response"
	case KindRejected:
		return "rejected"
	case KindAccountCreatedLoginFailed:
		return "account_created_login_failed"
	case KindStorage:
		return "storage"
	}
	return "unknown"
}

// Failure é o erro devolvido por Login e Register.
type Failure struct {
	Kind    Kind
	Field   string // preenchido em falhas de validação
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Err)
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

// Is permite errors.Is(err, auth.ErrValidation) e afins.
func (f *Failure) Is(target error) bool {
	k, ok := target.(kindError)
	return ok && f.Kind == Kind(k)
}

type kindError Kind

func (k kindError) Error() string { return Kind(k).String() }

// Sentinelas para errors.Is.
var (
	ErrValidation                = error(kindError(KindValidation))
	ErrInvalidCredentials        = error(kindError(KindInvalidCredentials))
	ErrUnreachable               = error(kindError(KindUnreachable))
	ErrMalformedResponse         = error(kindError(KindMalformedResponse))
	ErrRejected                  = error(kindError(KindRejected))
	ErrAccountCreatedLoginFailed = error(kindError(KindAccountCreatedLoginFailed))
)

// KindOf retorna o Kind de err, ou 0 se não for uma Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return 0
}
