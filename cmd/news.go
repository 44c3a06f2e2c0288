package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/theirongolddev/finbot/internal/cli"
	"github.com/theirongolddev/finbot/internal/gateway"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Print the latest market headlines",
	RunE:  runNews,
}

func init() {
	rootCmd.AddCommand(newsCmd)
}

func runNews(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	var key string
	err := huh.NewInput().
		Title(fmt.Sprintf("%s API key", cfg.LLM.Provider)).
		Description("Used for this request only; never stored.").
		EchoMode(huh.EchoModePassword).
		Value(&key).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("an API key is required")
			}
			return nil
		}).
		Run()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	gen, err := generatorFactory(cfg.LLM)(ctx, key)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "  Fetching %s market news from %s...\n", cfg.General.Market, modelName(cfg.LLM))
	res := gateway.New(gen, zap.NewNop()).MarketNews(ctx, cfg.General.Market)
	if !res.OK() {
		return fmt.Errorf("fetching news: %w", res.Err)
	}

	rows := make([][]string, len(res.Headlines))
	for i, h := range res.Headlines {
		rows[i] = []string{strconv.Itoa(i + 1), h}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("Latest %s Market News", cfg.General.Market)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   []string{"#", "Headline"},
		Rows:      rows,
		LeftAlign: true,
	}))
	fmt.Println()
	return nil
}
