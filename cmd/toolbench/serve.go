package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/toolbench/toolbench/internal/content"
	"github.com/toolbench/toolbench/pkg/live"
	"github.com/toolbench/toolbench/pkg/server"
)

func newServeCommand(a *app) *cobra.Command {
	var port int
	var host string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the site server",
		Long:  `Serves the site with live widgets. With --watch, content edits are picked up without a restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags take precedence over the config file
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Content.Watch = watch
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVarP(&host, "host", "H", "localhost", "Host to bind to")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload content when files change")

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := a.loadStore(ctx)
	if err != nil {
		return err
	}

	w := a.cfg.Widgets
	manager := live.NewManager(live.Options{
		FrameRate:      w.FrameRate,
		Progress:       w.Progress(),
		TOC:            w.TOC(),
		Content:        server.ContentFor(store),
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Logger:         a.logger,
	})
	defer manager.Close()

	// Open pages pick up edited headings after a reload
	unsubscribe := store.Version().Subscribe(func(int) {
		manager.Refresh()
	})
	defer unsubscribe()

	site := a.newServer(store, manager)
	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           site,
		ReadHeaderTimeout: a.cfg.Server.ReadTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", "addr", httpServer.Addr, "url", fmt.Sprintf("http://%s", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	if a.cfg.Content.Watch {
		g.Go(func() error {
			return store.Watch(ctx)
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		manager.Close()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *app) loadStore(ctx context.Context) (*content.Store, error) {
	start := time.Now()
	store := content.NewStore(a.cfg.Content.Dir, a.logger, content.WithCache(a.cfg.Content.Cache()))
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading content from %s: %w", a.cfg.Content.Dir, err)
	}
	a.logger.Debug("content ready", "dir", a.cfg.Content.Dir, "took", time.Since(start))
	return store, nil
}

// newServer builds the site; a nil manager renders every page statically
func (a *app) newServer(store *content.Store, manager *live.Manager) *server.Server {
	return server.New(server.Options{
		Site: server.Site{
			Title:       a.cfg.Site.Title,
			BaseURL:     a.cfg.Site.BaseURL,
			Description: a.cfg.Site.Description,
		},
		Store:          store,
		Live:           manager,
		TOC:            a.cfg.Widgets.TOC(),
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Logger:         a.logger,
	})
}
