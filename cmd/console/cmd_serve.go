package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/tenant-console/internal/api"
)

var serveFlags struct {
	listen string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Sobe o console local via HTTP",
	Long: `Sobe o console local em CONSOLE_LISTEN (padrão 127.0.0.1:3000).
As rotas /login e /register são públicas; as demais exigem sessão ativa.
/healthz e /metrics ficam sempre disponíveis.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.listen, "listen", "", "endereço de escuta (sobrepõe CONSOLE_LISTEN)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.ListenAddr
	if serveFlags.listen != "" {
		addr = serveFlags.listen
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	srv := api.New(a.gateway, a.store, a.client, a.log, a.metrics)
	defer srv.Close()
	api.RegisterRoutes(r, srv, a.registry)

	httpSrv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		a.log.Info("console disponível", zap.String("addr", addr), zap.String("api", a.cfg.APIURL))
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.log.Info("encerrando console")
	return httpSrv.Shutdown(shutdownCtx)
}
