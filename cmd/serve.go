package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/finbot/internal/cli"
	"github.com/theirongolddev/finbot/internal/logger"
	"github.com/theirongolddev/finbot/internal/server"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve assistant sessions over a JSON HTTP API",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show status of a running server",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr() string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return loadConfig().Server.Addr
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	if flagServeAddr != "" {
		cfg.Server.Addr = flagServeAddr
	}

	if err := logger.Init(flagDev, logger.LogLevel(cfg.General.LogLevel), logger.Stderr); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	svc := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		Currency:     cfg.General.Currency,
		Market:       cfg.General.Market,
		Provider:     cfg.LLM.Provider,
		EventsBuffer: flagServeEventsBuffer,
	}, generatorFactory(cfg.LLM), logger.Get())

	fmt.Printf("  finbot listening on http://%s\n", cfg.Server.Addr)
	fmt.Printf("  Provider: %s (%s)\n", cfg.LLM.Provider, modelName(cfg.LLM))
	fmt.Println("  Create a session with: POST /v1/sessions {\"api_key\": \"...\"}")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	addr := serveAddr()
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st server.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Started: %s (up %s)\n", st.StartedAt.Local().Format(time.RFC3339), time.Since(st.StartedAt).Round(time.Second))
	fmt.Printf("  Provider: %s\n", st.Provider)
	fmt.Printf("  Sessions: %d\n", st.Sessions)
	if st.ActionCount > 0 {
		fmt.Printf("  Actions: %d (%s failed)\n", st.ActionCount,
			cli.FormatPercent(float64(st.FailedActions)/float64(st.ActionCount)))
	} else {
		fmt.Println("  Actions: none yet")
	}
	fmt.Printf("  Events: %d buffered, %d subscribers\n", st.EventCount, st.SubscriberCount)
	return nil
}
