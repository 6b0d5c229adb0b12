package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Pavlentiyys/digitalFest/internal/assets"
	"github.com/Pavlentiyys/digitalFest/internal/config"
	"github.com/Pavlentiyys/digitalFest/internal/db"
	"github.com/Pavlentiyys/digitalFest/internal/gateway"
	"github.com/Pavlentiyys/digitalFest/internal/logger"
	"github.com/Pavlentiyys/digitalFest/internal/repository"
	"github.com/Pavlentiyys/digitalFest/internal/repository/sqlite"
	"github.com/Pavlentiyys/digitalFest/internal/rewards"
	"github.com/Pavlentiyys/digitalFest/internal/session"
)

var (
	logLevel string
	initData string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envLevel := os.Getenv("LOG_LEVEL")
	if envLevel == "" {
		envLevel = "INFO"
	}

	cmd := &cobra.Command{
		Use:   "companion",
		Short: "Event companion: login, quiz, rewards, AR assets and the leaderboard",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDefault(logger.New(
				logger.WithLevel(logger.ParseLevel(logLevel)),
				logger.WithColors(true),
			))
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", envLevel, "log level (DEBUG, INFO, WARN, ERROR)")
	cmd.PersistentFlags().StringVar(&initData, "init-data", os.Getenv("TELEGRAM_INIT_DATA"), "signed Telegram init payload override")

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newProfileCmd())
	cmd.AddCommand(newQuizCmd())
	cmd.AddCommand(newLeaderboardCmd())
	cmd.AddCommand(newClaimCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newAICmd())
	cmd.AddCommand(newAssetsCmd())
	cmd.AddCommand(newServeAssetsCmd())
	return cmd
}

// app holds everything a command needs, wired once per invocation.
type app struct {
	cfg      config.Config
	database *db.DB
	gw       *gateway.Client
	store    *session.Store
	creds    repository.CredentialRepository
	ledger   *rewards.Ledger
	loader   *assets.Loader
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	gw := gateway.New(cfg.APIV1(), cfg.RequestTimeout)
	store := session.NewStore(gw, sqlite.NewIdentityRepository(database.DB))
	store.Restore(ctx)

	return &app{
		cfg:      cfg,
		database: database,
		gw:       gw,
		store:    store,
		creds:    sqlite.NewCredentialRepository(database.DB),
		ledger:   rewards.NewLedger(store),
		loader:   assets.NewLoader(assets.NewHTTPFetcher(), cfg.BundleBaseURL, cfg.AssetTimeout),
	}, nil
}

func (a *app) Close() {
	if err := a.database.Close(); err != nil {
		logger.Default().Warn("failed to close local store: %v", err)
	}
}

// resolveInitData honors the --init-data flag first, then the environment,
// then the stored debug credential.
func (a *app) resolveInitData(ctx context.Context) (string, error) {
	override := initData
	if override == "" {
		override = a.cfg.InitData
	}
	return session.NewCredentialResolver(override, a.creds).Resolve(ctx)
}
