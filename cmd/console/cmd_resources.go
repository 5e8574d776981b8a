package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/tenant-console/internal/access"
	"github.com/example/tenant-console/internal/models"
	"github.com/example/tenant-console/internal/resources"
)

func clustersCmd() *cobra.Command {
	return resourceCmd("clusters", "/kafka/clusters", "Clusters Kafka do tenant", resources.Clusters, access.Writers)
}

func topicsCmd() *cobra.Command {
	return resourceCmd("topics", "/kafka/topics", "Tópicos Kafka do tenant", resources.Topics, access.Writers)
}

func usersCmd() *cobra.Command {
	return resourceCmd("users", "/users", "Usuários do tenant", resources.Users, access.Administrators)
}

func auditLogsCmd() *cobra.Command {
	return resourceCmd("audit-logs", "/kafka/audit-logs", "Registro de auditoria (somente leitura)", resources.AuditLogs, nil)
}

// resourceCmd monta list/export e, se o recurso aceitar escrita, create/update/delete.
func resourceCmd[T resources.Record](name, route, short string, describe func() resources.Descriptor[T], writers []models.Role) *cobra.Command {
	parent := &cobra.Command{Use: name, Short: short}

	// filterFlags registra --q e uma flag por faceta e devolve o leitor do filtro.
	filterFlags := func(c *cobra.Command) func() resources.FilterState {
		search := c.Flags().String("q", "", "texto buscado nos campos principais")
		facets := map[string]*string{}
		for facet := range describe().Facets {
			facets[facet] = c.Flags().String(facet, "", "filtra por "+facet)
		}
		return func() resources.FilterState {
			f := resources.FilterState{Search: *search, Facets: map[string]string{}}
			for k, v := range facets {
				if *v != "" {
					f.Facets[k] = *v
				}
			}
			return f
		}
	}

	// open checa sessão e, para escrita, o papel antes de qualquer carga.
	open := func(cmd *cobra.Command, write bool) (*app, *resources.Controller[T], error) {
		a, err := newApp()
		if err != nil {
			return nil, nil, err
		}
		err = a.requireSession(route)
		if err == nil && write {
			err = a.requireRole(writers)
		}
		if err != nil {
			a.Close()
			return nil, nil, err
		}
		ctl := resources.NewController(describe(), a.client, a.store,
			resources.WithLogger(a.log), resources.WithMetrics(a.metrics))
		res := ctl.Load(cmd.Context())
		warn(cmd.ErrOrStderr(), res.Warning)
		return a, ctl, nil
	}

	var listFilter, exportFilter func() resources.FilterState
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista os registros",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, ctl, err := open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()
			defer ctl.Close()

			items := ctl.Apply(listFilter())
			if globalFlags.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			t := newTable(globalFlags.output)
			t.header(append([]string{"ID"}, ctl.Columns()...)...)
			for _, r := range items {
				vals := []any{r.RecordID()}
				for _, v := range ctl.Row(r) {
					vals = append(vals, v)
				}
				t.row(vals...)
			}
			t.footer("", fmt.Sprintf("%d de %d", len(items), len(ctl.Records())))
			t.render(cmd.OutOrStdout())
			return nil
		},
	}
	listFilter = filterFlags(list)

	var file string
	var raw bool
	export := &cobra.Command{
		Use:   "export",
		Short: "Exporta a visão filtrada em CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, ctl, err := open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()
			defer ctl.Close()

			out, err := ctl.Export(ctl.Apply(exportFilter()), resources.ExportOptions{Raw: raw})
			if err != nil {
				return err
			}
			if file == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			return os.WriteFile(file, out, 0o644)
		},
	}
	exportFilter = filterFlags(export)
	export.Flags().StringVarP(&file, "file", "f", "", "arquivo de destino (padrão: stdout)")
	export.Flags().BoolVar(&raw, "raw", false, "junta os campos sem aspas (formato legado)")

	parent.AddCommand(list, export)
	if describe().ItemPath == "" {
		return parent
	}

	var data string
	readInput := func() (T, error) {
		var in T
		if data == "" {
			return in, errors.New("informe o registro com --data '<json>' ou --data @arquivo.json")
		}
		payload := []byte(data)
		if data[0] == '@' {
			b, err := os.ReadFile(data[1:])
			if err != nil {
				return in, err
			}
			payload = b
		}
		if err := json.Unmarshal(payload, &in); err != nil {
			return in, fmt.Errorf("JSON inválido: %w", err)
		}
		return in, nil
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Cria um registro",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := readInput()
			if err != nil {
				return err
			}
			a, ctl, err := open(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()
			defer ctl.Close()

			rec, err := ctl.Create(cmd.Context(), in)
			return reportMutation(cmd, "criado", rec.RecordID(), err)
		},
	}
	create.Flags().StringVar(&data, "data", "", "registro em JSON, ou @arquivo")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Atualiza um registro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id inválido: %s", args[0])
			}
			in, err := readInput()
			if err != nil {
				return err
			}
			a, ctl, err := open(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()
			defer ctl.Close()

			_, err = ctl.Update(cmd.Context(), id, in)
			return reportMutation(cmd, "atualizado", id, err)
		},
	}
	update.Flags().StringVar(&data, "data", "", "campos em JSON, ou @arquivo")

	remove := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove um registro",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id inválido: %s", args[0])
			}
			a, ctl, err := open(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()
			defer ctl.Close()

			return reportMutation(cmd, "removido", id, ctl.Remove(cmd.Context(), id))
		},
	}

	parent.AddCommand(create, update, remove)
	return parent
}

// reportMutation: a mudança sem confirmação do servidor é aviso, não erro fatal.
func reportMutation(cmd *cobra.Command, verb string, id int64, err error) error {
	var merr *resources.MutationError
	switch {
	case err == nil:
		fmt.Fprintf(cmd.OutOrStdout(), "Registro #%d %s\n", id, verb)
		return nil
	case errors.As(err, &merr):
		warn(cmd.ErrOrStderr(), merr.Error())
		return fmt.Errorf("registro #%d %s apenas localmente", id, verb)
	}
	return err
}
