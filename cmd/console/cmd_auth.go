package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tenant-console/internal/access"
	"github.com/example/tenant-console/internal/auth"
)

var loginFlags struct {
	username string
	password string
	tenant   string
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Autentica em um tenant e grava a sessão",
	RunE:  runLogin,
}

var registerFlags auth.RegisterRequest

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Cadastra uma organização e entra com o administrador",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Encerra a sessão local",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Mostra a sessão corrente",
	RunE:  runWhoami,
}

func init() {
	f := loginCmd.Flags()
	f.StringVarP(&loginFlags.username, "username", "u", "", "usuário ou e-mail (obrigatório)")
	f.StringVarP(&loginFlags.password, "password", "p", "", "senha (ou CONSOLE_PASSWORD)")
	f.StringVarP(&loginFlags.tenant, "tenant", "t", "", "tenant / subdomínio (obrigatório)")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("tenant")

	r := registerCmd.Flags()
	r.StringVar(&registerFlags.OrganizationName, "org", "", "nome da organização")
	r.StringVar(&registerFlags.Subdomain, "subdomain", "", "subdomínio (minúsculas, dígitos e hífen)")
	r.StringVar(&registerFlags.FirstName, "first-name", "", "nome do administrador")
	r.StringVar(&registerFlags.LastName, "last-name", "", "sobrenome do administrador")
	r.StringVar(&registerFlags.Email, "email", "", "e-mail do administrador")
	r.StringVar(&registerFlags.Password, "password", "", "senha (ou CONSOLE_PASSWORD)")
	r.StringVar(&registerFlags.ConfirmPassword, "confirm-password", "", "confirmação da senha")
	r.StringVar(&registerFlags.Phone, "phone", "", "telefone")
	r.StringVar(&registerFlags.Timezone, "timezone", "", "fuso horário (padrão UTC)")
	r.StringVar(&registerFlags.Locale, "locale", "", "locale (padrão en_US)")
}

func password(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("CONSOLE_PASSWORD")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession(access.LoginPath); err != nil {
		return err
	}

	sess, err := a.gateway.Login(cmd.Context(), loginFlags.username, password(loginFlags.password), loginFlags.tenant)
	if err != nil {
		return describeAuth(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Autenticado como %s no tenant %s\n", sess.Identity.Username, sess.TenantID)
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession("/register"); err != nil {
		return err
	}

	req := registerFlags
	req.Password = password(req.Password)
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = os.Getenv("CONSOLE_PASSWORD")
	}
	sess, err := a.gateway.Register(cmd.Context(), req)
	if err != nil {
		return describeAuth(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Organização criada; autenticado como %s no tenant %s\n", sess.Identity.Username, sess.TenantID)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.gateway.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("erro ao encerrar sessão: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession("/whoami"); err != nil {
		return err
	}

	sess, _ := a.store.Get()
	out := cmd.OutOrStdout()
	if globalFlags.output == outputJSON {
		return writeJSON(out, sess.Identity)
	}
	roles := make([]string, 0, sess.Identity.Roles.Len())
	for _, r := range sess.Identity.Roles.List() {
		roles = append(roles, string(r))
	}
	t := newTable(globalFlags.output)
	t.header("Campo", "Valor")
	t.row("Usuário", sess.Identity.Username)
	t.row("Nome", sess.Identity.FullName())
	t.row("E-mail", sess.Identity.Email)
	t.row("Tenant", sess.TenantID)
	t.row("Papéis", roles)
	if !sess.ExpiresAt.IsZero() {
		t.row("Expira em", sess.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	}
	t.render(out)
	return nil
}

// describeAuth transforma a falha em mensagem para o terminal.
func describeAuth(err error) error {
	switch auth.KindOf(err) {
	case auth.KindValidation:
		return fmt.Errorf("dados inválidos: %w", err)
	case auth.KindInvalidCredentials:
		return fmt.Errorf("login falhou: verifique usuário, senha e tenant")
	case auth.KindUnreachable:
		return fmt.Errorf("serviço de identidade inacessível: %w", err)
	case auth.KindAccountCreatedLoginFailed:
		return fmt.Errorf("conta criada, mas o login falhou; tente 'console login': %w", err)
	}
	return err
}
