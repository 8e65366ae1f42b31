package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kestrelbank/kestrel"
	"github.com/kestrelbank/kestrel/config"
	"github.com/kestrelbank/kestrel/internal/notification"
	"github.com/kestrelbank/kestrel/store"
)

// Kestrel represents the CLI application, encapsulating the root Cobra command.
type Kestrel struct {
	cmd *cobra.Command
}

// kestrelInstance holds the service instance and its configuration for the
// subcommands.
type kestrelInstance struct {
	kestrel *kestrel.Kestrel
	cnf     *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and boots the service before any
// subcommand runs: the store is connected and the full ledger state is
// loaded into memory.
func preRun(app *kestrelInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("kestrel.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newKestrel, err := setupKestrel()
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.kestrel = newKestrel
		app.cnf = cnf

		return nil
	}
}

func setupKestrel() (*kestrel.Kestrel, error) {
	db, err := store.NewRedisStore()
	if err != nil {
		return nil, fmt.Errorf("error getting store: %v", err)
	}

	newKestrel, err := kestrel.NewKestrel(context.Background(), db)
	if err != nil {
		return nil, fmt.Errorf("error creating kestrel: %v", err)
	}
	return newKestrel, nil
}

// NewCLI creates the command-line interface for the Kestrel application.
func NewCLI() *Kestrel {
	var configFile string
	k := &kestrelInstance{}

	var rootCmd = &cobra.Command{
		Use:   "kestrel",
		Short: "Minimal custodial ledger",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./kestrel.json", "Configuration file for the ledger")

	rootCmd.PersistentPreRunE = preRun(k)

	rootCmd.AddCommand(serverCommands(k))
	rootCmd.AddCommand(adminCommands(k))

	return &Kestrel{cmd: rootCmd}
}

func (w Kestrel) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
