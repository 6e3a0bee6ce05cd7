package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vagas-go/internal/directory"
	"vagas-go/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many images were generated and the time saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Stats", args)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.Counter().Read(cmd.Context())
		if err != nil {
			return run(a, err)
		}
		fmt.Printf("Imagens geradas:    %d\n", st.Count)
		fmt.Printf("Tempo economizado:  %s (%dh)\n", st.Duration(), st.HoursSaved)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Serve", args)
		if err != nil {
			return err
		}
		defer a.Close()
		cfg := a.Config()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}

		// Request bodies choose photos, so only the blob store and
		// allowed hosts may be fetched.
		a.Loader().RestrictPhotos(cfg.Server.AllowedHosts)

		// Exports retry a failed load and answer 412 until the assets are in.
		go func() {
			if err := a.LoadAssets(ctx); err != nil {
				a.Logger().Error("slide assets unavailable, exports will retry", "error", err)
			}
		}()

		sched := directory.NewScheduler(a.Jobs(), cfg.Server.RefreshSpec, a.Logger())
		if err := sched.Start(ctx); err != nil {
			return run(a, err)
		}
		defer sched.Stop()

		srv := server.New(server.Deps{
			Jobs:         a.Jobs(),
			Library:      a.Library(),
			Stats:        a.Counter(),
			Exporter:     a,
			Captions:     a.Captions(),
			Picker:       a.Picker(),
			AllowedHosts: cfg.Server.AllowedHosts,
			BlobURL:      a.BlobURL(),
			Logger:       a.Logger(),
			Status: func() fiber.Map {
				fetchedAt, count, lastErr := a.Jobs().Status()
				m := fiber.Map{
					"jobs":        count,
					"fetchedAt":   fetchedAt,
					"exportState": a.Pipeline().State(),
				}
				if lastErr != nil {
					m["refreshError"] = lastErr.Error()
				}
				return m
			},
		})

		errc := make(chan error, 1)
		go func() { errc <- srv.Listen(addr) }()

		select {
		case err := <-errc:
			return run(a, err)
		case <-ctx.Done():
		}

		a.Logger().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return run(a, fmt.Errorf("shutting down server: %w", err))
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default: server.addr)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
}
