/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/allbin/go-mode/internal/config"
	"github.com/allbin/go-mode/internal/logging"
	"github.com/allbin/go-mode/internal/state"
	"github.com/allbin/go-mode/internal/sysdev"
)

// rootCmd runs a MODE command line
var rootCmd = &cobra.Command{
	Use:   "mode [device] [settings]",
	Short: "Configure console, serial and parallel devices",
	Long: `Configure system devices with MODE.COM compatible command lines.

  mode                               status of every device
  mode COM1: 9600,n,8,1              positional serial settings
  mode COM1 BAUD=9600 DATA=8 XON=ON  keyword serial settings
  mode LPT1=COM2                     redirect printer output
  mode CON COLS=120 LINES=40         resize the console
  mode CON CP SELECT=65001           select a code page

Run "mode /?" for the full syntax. Settings are read from
$GOMODE_CONFIG or the go-mode directory under the user config dir.`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
	Run: func(cmd *cobra.Command, args []string) {
		env, err := setup()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
			os.Exit(1)
		}
		defer env.close()

		runner := env.devices.Runner(env.logger)
		runner.Out = cmd.OutOrStdout()
		if code := runner.Run(args); code != 0 {
			env.close()
			os.Exit(code)
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// environment is the configured device stack shared by every command.
type environment struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *state.Store
	devices *sysdev.Devices
}

func setup() (*environment, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store := state.NewStore(cfg.State.Path)
	devices, err := sysdev.New(sysdev.Options{
		Driver: cfg.Serial.Driver,
		Ports: sysdev.PortMap{
			Template: cfg.Serial.PortTemplate,
			Ports:    cfg.Serial.Ports,
		},
		Store:          store,
		KeyboardDevice: cfg.Console.KeyboardDevice,
		XtermResize:    cfg.Console.XtermResize,
		Logger:         logger,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	logger.Debug("initialized",
		zap.String("driver", cfg.Serial.Driver),
		zap.String("state", store.Path()))

	return &environment{cfg: cfg, logger: logger, store: store, devices: devices}, nil
}

func (e *environment) close() {
	_ = e.logger.Sync()
}
