package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"vagas-go/internal/app"
	"vagas-go/internal/config"
	"vagas-go/internal/database"
	"vagas-go/internal/database/migrations"
	"vagas-go/internal/secrets"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file at the default location.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config and creates a VagasApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Carousel", "Serve").
func newApp(ctx context.Context, operation string, args []string) (*app.VagasApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewVagasApp(ctx, cfg, operation, app.Options{Passphrase: promptPassphrase})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	a.Operation().SetParameters(args...)
	return a, nil
}

// run wraps a command body so its failure is recorded on the operation.
func run(a *app.VagasApp, err error) error {
	a.Fail(err)
	return err
}

// promptPassphrase reads the secrets passphrase from VAGAS_PASSPHRASE or,
// when stdin is a terminal, from an echo-free prompt.
func promptPassphrase() (string, error) {
	if p := os.Getenv("VAGAS_PASSPHRASE"); p != "" {
		return p, nil
	}
	return readSecret("Secrets passphrase: ")
}

func readSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal to prompt on: set VAGAS_PASSPHRASE")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

var rootCmd = &cobra.Command{
	Use:          "vagas",
	Short:        "Job posting slides, carousels and captions for METARH",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		cfg.OutputDir = defaults["output_dir"]
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		fmt.Printf("Exports:  %s\n", defaults["output_dir"])
		fmt.Printf("Secrets:  %s\n", defaults["secrets_path"])
		fmt.Println("Set VAGAS_ATS_TOKEN or store the token with 'vagas secrets set ats_token'.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Output Dir: %s\n", cfg.OutputDir)
		fmt.Printf("ATS:        %s (token %s)\n", cfg.ATS.BaseURL, describeSecret(cfg.ATS.Token))
		fmt.Printf("Database:   %s\n", cfg.Database.Type)
		fmt.Printf("Blobs:      %s\n", cfg.Blobs.Type)
		fmt.Printf("Mirror:     %s (%s)\n", cfg.Mirror.Type, cfg.Mirror.Policy)
		fmt.Printf("Renderer:   %s\n", cfg.Renderer.Type)
		fmt.Printf("Server:     %s, refresh %s\n", cfg.Server.Addr, cfg.Server.RefreshSpec)
		fmt.Printf("Assist:     %s\n", describeSecret(cfg.Assist.APIKey))
		return nil
	},
}

// describeSecret never prints a credential, only where it comes from.
func describeSecret(v string) string {
	switch {
	case v == "":
		return "not set"
	case strings.HasPrefix(v, secrets.Prefix):
		return "from secrets file"
	default:
		return "set"
	}
}

// secrets command
var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage the encrypted secrets file",
}

func secretsStore() (*secrets.Store, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return secrets.NewStore(cfg.Secrets.Path), nil
}

var secretsSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Store a secret; reference it in the config as secret:NAME",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secretsStore()
		if err != nil {
			return err
		}

		pass, err := promptPassphrase()
		if err != nil {
			return err
		}
		if !store.Exists() && os.Getenv("VAGAS_PASSPHRASE") == "" {
			again, err := readSecret("Repeat passphrase: ")
			if err != nil {
				return err
			}
			if again != pass {
				return errors.New("passphrases do not match")
			}
		}

		value, _ := cmd.Flags().GetString("value")
		if value == "" {
			if value, err = readSecret("Value for " + args[0] + ": "); err != nil {
				return err
			}
		}

		if err := store.Set(pass, args[0], value); err != nil {
			return err
		}
		fmt.Printf("Stored %s in %s\n", args[0], store.Path())
		return nil
	},
}

var secretsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List secret names",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secretsStore()
		if err != nil {
			return err
		}
		if !store.Exists() {
			fmt.Println("No secrets stored.")
			return nil
		}
		pass, err := promptPassphrase()
		if err != nil {
			return err
		}
		names, err := store.Names(pass)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var secretsRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Delete a secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secretsStore()
		if err != nil {
			return err
		}
		pass, err := promptPassphrase()
		if err != nil {
			return err
		}
		if err := store.Delete(pass, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the library database",
}

func openDatabase() (*database.SQLiteDatabase, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if errors.Is(err, database.ErrDisabled) {
		return nil, fmt.Errorf("database type is %q: the library uses %s", cfg.Database.Type, cfg.Database.Fallback)
	}
	return db, err
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			return err
		}
		st, err := migrations.ReadStatus(db.DB())
		if err != nil {
			return err
		}
		fmt.Printf("Database %s is at version %d\n", db.Path(), st.Version)
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		st, err := migrations.ReadStatus(db.DB())
		if err != nil {
			return err
		}
		switch {
		case st.Empty:
			fmt.Printf("No schema (latest %d): run 'vagas db migrate'\n", st.Latest)
		case st.Dirty:
			fmt.Printf("Version %d is dirty: a migration failed\n", st.Version)
		case st.Current():
			fmt.Printf("Version %d (current)\n", st.Version)
		default:
			fmt.Printf("Version %d, latest %d\n", st.Version, st.Latest)
		}
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// secrets subcommands
	secretsCmd.AddCommand(secretsSetCmd)
	secretsSetCmd.Flags().String("value", "", "Secret value (prompted when empty)")
	secretsCmd.AddCommand(secretsListCmd)
	secretsCmd.AddCommand(secretsRmCmd)

	// db subcommands
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(secretsCmd)
	rootCmd.AddCommand(dbCmd)
}
