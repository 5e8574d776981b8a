// console é o cliente de linha de comando do console Kafka multi-tenant.
//
// Uso:
//
//	console login --username=<user> --tenant=<tenant>
//	console register --org=<nome> --subdomain=<sub> --email=<email> ...
//	console dashboard
//	console topics list [--q=<texto>] [--status=ACTIVE]
//	console audit-logs export -o logs.csv
//	console serve
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// version é definida no build via -ldflags.
var version = "dev"

var now = time.Now

var globalFlags struct {
	apiURL string
	output string
}

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Console de gestão Kafka multi-tenant",
	Long:  "Cliente do console Kafka multi-tenant: sessão por tenant, dashboard,\nclusters, tópicos, usuários e auditoria.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.apiURL, "api-url", "", "URL base da API (sobrepõe CONSOLE_API_URL)")
	pf.StringVarP(&globalFlags.output, "output", "o", outputTable, "formato de saída: table, markdown ou json")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(tenantCmd)
	rootCmd.AddCommand(topologyCmd)
	rootCmd.AddCommand(clustersCmd())
	rootCmd.AddCommand(topicsCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(auditLogsCmd())
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
