package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yiorgosm/ynabex/pkg/config"
	"github.com/yiorgosm/ynabex/pkg/executors"
	"github.com/yiorgosm/ynabex/pkg/models"
	"github.com/yiorgosm/ynabex/pkg/server"
	"github.com/yiorgosm/ynabex/pkg/service"
	"github.com/yiorgosm/ynabex/pkg/ynab"
)

var (
	cfgFile string
	verbose bool
)

func newLogger() *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "ynabex",
	}
	if verbose {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}
	return log.NewWithOptions(os.Stderr, opts)
}

var rootCmd = &cobra.Command{
	Use:   "ynabex",
	Short: "Convert NBG and Revolut statements to YNAB CSV and reconcile them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <statement_file>",
	Short: "Convert a bank statement to YNAB CSV format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		previous, _ := cmd.Flags().GetString("previous")
		dropOlder, _ := cmd.Flags().GetBool("drop-older")
		actual, _ := cmd.Flags().GetBool("actual")

		converter := service.NewConverter(logger)
		txs, source, err := converter.ConvertFile(args[0], service.ConvertOptions{
			PreviousPath: previous,
			DropOlder:    dropOlder,
		})
		if err != nil {
			return err
		}

		var outPath string
		if actual {
			outPath, err = converter.WriteActualOutput(args[0], cfg.OutputDir, source, txs)
		} else {
			outPath, err = converter.WriteOutput(args[0], cfg.OutputDir, source, txs)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %d transaction(s) to %s\n", len(txs), outPath)
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan [flags] <statement_file>",
	Short: "Preview which transactions already exist on the ledger (dry-run)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			return fmt.Errorf("missing YNAB token (set YNAB_TOKEN or the token config key)")
		}
		if cfg.BudgetID == "" {
			return fmt.Errorf("missing budget id (--budget or the budget_id config key)")
		}
		accountID, _ := cmd.Flags().GetString("account")
		if accountID == "" {
			return fmt.Errorf("missing account id (--account)")
		}

		exec := executors.New(logger, cfg, ynab.New(cfg.Token))
		return exec.Plan(&models.Statement{FilePath: args[0], AccountID: accountID})
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply [flags] <manifest_file>",
	Short: "Upload the missing transactions for every statement in a manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		manifest, err := models.FromFile(args[0])
		if err != nil {
			return err
		}

		token := cfg.Token
		if manifest.YNAB.TokenEnv != "" {
			if v := os.Getenv(manifest.YNAB.TokenEnv); v != "" {
				token = v
			}
		}
		if token == "" {
			return fmt.Errorf("missing YNAB token (set YNAB_TOKEN or the manifest token_env)")
		}

		exec := executors.New(logger, cfg, ynab.New(token))
		return exec.Apply(manifest)
	},
}

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "List the budgets visible to the configured token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			return fmt.Errorf("missing YNAB token (set YNAB_TOKEN or the token config key)")
		}

		budgets, err := ynab.New(cfg.Token).Budgets()
		if err != nil {
			return err
		}
		for _, b := range budgets {
			fmt.Printf("%s  %s\n", b.ID, b.Name)
		}
		return nil
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the accounts of the configured budget",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			return fmt.Errorf("missing YNAB token (set YNAB_TOKEN or the token config key)")
		}
		if cfg.BudgetID == "" {
			return fmt.Errorf("missing budget id (--budget or the budget_id config key)")
		}

		snapshot, err := ynab.New(cfg.Token).Accounts(cfg.BudgetID)
		if err != nil {
			return err
		}
		for _, a := range snapshot.Accounts {
			fmt.Printf("%s  %s\n", a.ID, a.Name)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")

		logger.Info("starting server", "addr", addr)
		return server.New(cfg, logger).Start(addr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	convertCmd.Flags().StringP("previous", "p", "", "Previous export CSV used to drop already written transactions")
	convertCmd.Flags().Bool("drop-older", false, "Also drop transactions older than the previous export's latest date")
	convertCmd.Flags().Bool("actual", false, "Write the Actual Budget import shape instead of the YNAB one")
	convertCmd.Flags().String("output-dir", "", "Directory for the output CSV (default: next to the input file)")

	planCmd.Flags().String("budget", "", "Budget id")
	planCmd.Flags().String("account", "", "Account id")
	planCmd.Flags().Int("lookback-days", 0, "Days of remote history to check against")
	planCmd.Flags().Int("max-count", 0, "Maximum remote transactions to fetch")

	applyCmd.Flags().String("budget", "", "Budget id (overridden by the manifest)")
	applyCmd.Flags().Int("lookback-days", 0, "Days of remote history to check against")
	applyCmd.Flags().Int("max-count", 0, "Maximum remote transactions to fetch")

	accountsCmd.Flags().String("budget", "", "Budget id")

	serveCmd.Flags().String("addr", ":8080", "Listen address")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(budgetsCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
