// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/tasnuva/tos/internal/issue"
	"github.com/tasnuva/tos/internal/sshserver"

	"github.com/spf13/cobra"
)

func newServeCommand(app *App) *cobra.Command {
	var (
		host, password, hostKey string
		port                    int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shell over SSH",
		Long: `Serve the shell over SSH. All sessions share one filesystem and each has
its own working directory. Clients log in with a password; when none is
configured a random one is generated and logged at startup.`,
		Example: `  tos serve --port 2222
  ssh -p 2222 guest@localhost
  ssh -p 2222 guest@localhost 'ls -l /'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.cfg.SSH
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("password") {
				cfg.Password = password
			}
			if cmd.Flags().Changed("host-key") {
				cfg.HostKeyPath = hostKey
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			store, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer app.closeStore(store)

			srv, err := sshserver.New(store, sshserver.Config{
				Host:        cfg.Host,
				Port:        cfg.Port,
				HostKeyPath: cfg.HostKeyPath,
				Password:    cfg.Password,
				PromptName:  app.cfg.Shell.Prompt,
				User:        app.cfg.Shell.User,
				Banner:      sessionBanner(app),
			}, sshserver.WithLogger(app.logger.WithPrefix("ssh")))
			if err != nil {
				return err
			}
			return serve(ctx, app, srv, cfg.Password == "")
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "address to bind (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config)")
	cmd.Flags().StringVar(&password, "password", "", "password required from clients")
	cmd.Flags().StringVar(&hostKey, "host-key", "", "host key path, generated when missing")
	return cmd
}

// serve runs srv until ctx ends or the server fails.
func serve(ctx context.Context, app *App, srv *sshserver.Server, generated bool) error {
	if err := srv.Start(ctx); err != nil {
		return withIssue(issue.WrapWithContext(err, "start SSH server", ""), issue.ServerStartFailedId)
	}
	if generated {
		app.logger.Info("generated a password for this run", "password", srv.Password())
	}
	app.logger.Info("accepting SSH sessions", "address", srv.Address())

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info(msgShutdownRequested)
	case err, ok := <-srv.Err():
		if ok {
			runErr = err
		}
	}

	if err := srv.Stop(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func sessionBanner(app *App) string {
	if !app.cfg.Shell.Banner {
		return ""
	}
	return "Welcome to Tasnuva TOS.\nType 'help' for available commands or 'exit' to quit.\n\n"
}
