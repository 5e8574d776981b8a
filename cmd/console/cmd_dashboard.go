package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/spf13/cobra"

	"github.com/example/tenant-console/internal/dashboard"
	"github.com/example/tenant-console/internal/resources"
	"github.com/example/tenant-console/internal/topology"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Resumo de clusters, tópicos, usuários e atividade recente",
	RunE:  runDashboard,
}

var topologyFlags struct {
	cluster string
}

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Árvore tenant -> clusters -> tópicos",
	RunE:  runTopology,
}

func init() {
	topologyCmd.Flags().StringVar(&topologyFlags.cluster, "cluster", "", "mostra apenas este cluster")
}

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Dados e limites da organização corrente",
	RunE:  runTenant,
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession("/dashboard"); err != nil {
		return err
	}

	s := dashboard.NewAggregator(a.client, a.log, a.metrics).Summarize(cmd.Context())
	out := cmd.OutOrStdout()
	warn(cmd.ErrOrStderr(), s.Warning)
	if globalFlags.output == outputJSON {
		return writeJSON(out, s)
	}

	t := newTable(globalFlags.output)
	t.header("Métrica", "Valor")
	t.row("Clusters", s.TotalClusters)
	t.row("Clusters saudáveis", s.HealthyClusters)
	t.row("Tópicos", s.TotalTopics)
	t.row("Usuários", s.TotalUsers)
	t.alignRight(2)
	if s.Degraded {
		t.footer("DADOS DE EXEMPLO", "")
	} else if len(s.FailedSources) > 0 {
		t.footer("parcial", strings.Join(s.FailedSources, ", "))
	}
	t.render(out)

	if len(s.RecentActivity) == 0 {
		fmt.Fprintln(out, "Nenhuma atividade recente")
		return nil
	}
	act := newTable(globalFlags.output)
	act.header("Quando", "Ação", "Recurso", "Usuário", "Status")
	for _, item := range s.RecentActivity {
		act.row(item.Timestamp, item.Action, item.Resource, item.User, item.Status)
	}
	act.render(out)
	return nil
}

func runTenant(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession("/tenants"); err != nil {
		return err
	}

	tenant, res := resources.NewTenantView(a.client, a.store, a.log, a.metrics).Load(cmd.Context())
	warn(cmd.ErrOrStderr(), res.Warning)
	out := cmd.OutOrStdout()
	if globalFlags.output == outputJSON {
		return writeJSON(out, tenant)
	}

	t := newTable(globalFlags.output)
	t.header("Campo", "Valor", "Limite")
	t.row("Organização", tenant.Name, "")
	t.row("Subdomínio", tenant.Subdomain, "")
	t.row("Plano", tenant.Plan, "")
	t.row("Status", tenant.Status, "")
	t.row("Administrador", tenant.AdminEmail, "")
	t.row("Usuários", tenant.Stats.TotalUsers, tenant.Limits.MaxUsers)
	t.row("Clusters", tenant.Stats.TotalClusters, tenant.Limits.MaxClusters)
	t.row("Armazenamento (GB)", tenant.Stats.StorageUsed, tenant.Limits.StorageLimit)
	t.row("Requisições/min", "", tenant.Limits.APIRateLimit)
	t.render(out)
	return nil
}

func runTopology(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession("/kafka/topology"); err != nil {
		return err
	}

	opts := []resources.Option{resources.WithLogger(a.log), resources.WithMetrics(a.metrics)}
	clusters := resources.NewController(resources.Clusters(), a.client, a.store, opts...)
	topics := resources.NewController(resources.Topics(), a.client, a.store, opts...)
	defer clusters.Close()
	defer topics.Close()
	warn(cmd.ErrOrStderr(), clusters.Load(cmd.Context()).Warning)
	warn(cmd.ErrOrStderr(), topics.Load(cmd.Context()).Warning)

	sess, _ := a.store.Get()
	g := topology.Build(sess.TenantID, clusters.Records(), topics.Records(), topologyFlags.cluster)
	out := cmd.OutOrStdout()
	if globalFlags.output == outputJSON {
		return writeJSON(out, g)
	}

	children := map[string][]string{}
	for _, e := range g.Edges {
		children[e.Source] = append(children[e.Source], e.Target)
	}
	nodes := map[string]topology.Node{}
	for _, n := range g.Nodes {
		nodes[n.ID] = n
	}

	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedLight)
	root := g.Nodes[0]
	l.AppendItem(root.Name)
	l.Indent()
	for _, cid := range children[root.ID] {
		c := nodes[cid]
		l.AppendItem(fmt.Sprintf("%s [%s]", c.Name, c.Status))
		l.Indent()
		for _, tid := range children[cid] {
			t := nodes[tid]
			l.AppendItem(fmt.Sprintf("%s (%s partições, %s)", t.Name, t.Labels["partitions"], t.Status))
		}
		l.UnIndent()
	}
	fmt.Fprintln(out, l.Render())
	if g.Orphans > 0 {
		warn(cmd.ErrOrStderr(), fmt.Sprintf("%d tópico(s) sem cluster conhecido", g.Orphans))
	}
	return nil
}
