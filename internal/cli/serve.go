// This file implements the serve command that runs the deploy service.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/pagesmith/internal/config"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
	"github.com/mrz1836/pagesmith/internal/hub"
	"github.com/mrz1836/pagesmith/internal/llm"
	"github.com/mrz1836/pagesmith/internal/server"
	"github.com/mrz1836/pagesmith/internal/signal"
	"github.com/mrz1836/pagesmith/internal/task"
)

// AddServeCommand adds the serve command to the root command.
func AddServeCommand(root *cobra.Command) {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the deploy service",
		Long: `Starts the HTTP service that accepts deploy requests, synthesizes
sites in the background, publishes them with Pages hosting, and notifies
the evaluation server on completion.

The service reads its configuration from the global and project config
files, with PAGESMITH_ environment variables taking precedence. Secrets
(deploy secret, hub token, LLM API key) are only ever read from the
environment.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides := &config.Config{}
			if listenAddr != "" {
				overrides.Server.ListenAddr = listenAddr
			}
			return runServe(cmd.Context(), overrides)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")

	root.AddCommand(cmd)
}

// requireSecrets checks that the credentials the pipeline cannot run
// without are actually present in the environment. Catching this at
// startup beats failing the first deploy with an auth error.
func requireSecrets(cfg *config.Config) error {
	if cfg.Server.Secret() == "" {
		return fmt.Errorf("%w: set %s", pserrors.ErrSecretNotConfigured, cfg.Server.SecretEnvVar)
	}

	if cfg.Hub.Token() == "" {
		return fmt.Errorf("%w: set %s", pserrors.ErrTokenNotConfigured, cfg.Hub.TokenEnvVar)
	}

	return nil
}

// runServe wires the pipeline together and serves until interrupted.
func runServe(ctx context.Context, overrides *config.Config) error {
	logger := GetLogger()

	cfg, err := config.LoadWithOverrides(ctx, overrides)
	if err != nil {
		return err
	}

	if err = requireSecrets(cfg); err != nil {
		return err
	}

	home, err := config.Home()
	if err != nil {
		return err
	}

	store, err := task.NewFileStore(home)
	if err != nil {
		return err
	}

	generator := llm.NewClient(&cfg.LLM, llm.WithLogger(logger))

	apiClient := hub.NewAPIClient(&cfg.Hub, hub.WithAPILogger(logger))
	publisher := hub.NewSitePublisher(&cfg.Hub, apiClient, hub.WithPublisherLogger(logger))

	notifier := task.NewHTTPNotifier(&cfg.Notify, task.WithNotifierLogger(logger))

	processor := task.NewProcessor(store, generator, publisher, notifier,
		task.WithProcessorLogger(logger),
		task.WithProcessorRepoPrefix(cfg.Hub.RepoPrefix),
	)

	dispatcher := task.NewDispatcher(processor, int64(cfg.Server.MaxConcurrentDeploys),
		task.WithDispatcherLogger(logger),
	)

	handler := server.NewDeployHandler(&cfg.Server, dispatcher, logger)
	srv := server.New(&cfg.Server, handler, logger)

	sig := signal.NewHandler(ctx)
	defer sig.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-sig.Interrupted():
	}

	logger.Info().Msg("shutdown signal received")

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("http shutdown did not complete cleanly")
	}

	// Let in-flight deploy runs finish, unless a second interrupt arrives
	drained := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-sig.Forced():
		logger.Warn().Msg("second interrupt received, abandoning in-flight runs")
	}

	return <-errCh
}
