// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the rootreset command line: the root command that runs the
// reset, the check and config subcommands, their flags and the exit codes.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/toeirei/rootreset/internal/config"
	"github.com/toeirei/rootreset/internal/i18n"
	"github.com/toeirei/rootreset/internal/logging"
	"github.com/toeirei/rootreset/internal/reset"
)

var (
	cfgFile    string
	verbose    bool
	showVer    bool
	writeCfg   bool
	appConfig  config.Config
	configUsed string
	exitCode   int
)

// secretReader is the console input the reset needs.
type secretReader interface {
	reset.Prompter
	Restore()
	WaitForEnter(msg string)
}

// swapped by tests
var (
	newDeps              = reset.DefaultDeps
	stdin                = os.Stdin
	newReader            = func(in *os.File, out io.Writer) secretReader { return newPrompter(in, out) }
	installSignalHandler = reset.InstallSignalHandler
)

func setupDefaultServices(cmd *cobra.Command, _ []string) error {
	if verbose {
		logging.SetDebug(true)
	}

	path, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, configUsed, err = config.LoadConfig[config.Config](cmd, config.Defaults(), path)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if configUsed != "" {
		logging.Debugf("using config file %s", configUsed)
	}

	i18n.Init(appConfig.Language)
	return nil
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		logging.Errorf("%v", err)
		return reset.ExitUsage
	}
	return exitCode
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// an explicit file that does not exist is an operator mistake, not a first run
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// applyDefaultFlags adds the dotted configuration keys as flags. Defaults
// live in config.Defaults; a flag only counts when it is set.
func applyDefaultFlags(fs *pflag.FlagSet) {
	flags := []struct{ name, usage string }{
		{"service.name", "Service name (default: detect mysql, mysqld, mariadb / MySQL80, ...)"},
		{"service.manager", "Service manager: auto, systemd, sysv or windows"},
		{"mysql.bin_dir", "Directory holding mysqld and mysql"},
		{"mysql.server", "Path of the mysqld executable"},
		{"mysql.client", "Path of the mysql client executable"},
		{"mysql.defaults_file", "Defaults file passed to mysqld (my.ini / my.cnf)"},
		{"mysql.run_as_user", "OS account mysqld runs as (unix)"},
		{"mysql.socket", "Socket or host:port of the regular server, used to test the new password"},
		{"account.user", "Account whose password is reset"},
		{"account.host", "Host part of the account"},
		{"safe_mode.method", "skip-grant-tables or init-file"},
		{"safe_mode.temp_dir", "Parent directory of the temporary workspace"},
		{"client.kind", "driver (built in) or cli (mysql executable)"},
	}
	for _, f := range flags {
		if fs.Lookup(f.name) == nil {
			fs.String(f.name, "", f.usage)
		}
	}
	if fs.Lookup("service.kill_stray") == nil {
		fs.Bool("service.kill_stray", false, "Terminate mysqld processes still running after the service stopped")
	}
	if fs.Lookup("verify.enabled") == nil {
		fs.Bool("verify.enabled", true, "Log in with the new password after the restart")
	}
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	exitCode = reset.ExitOK

	cmd := &cobra.Command{
		Use:   "rootreset",
		Short: "Reset the root password of a local MySQL or MariaDB server.",
		Long: `rootreset recovers administrative access to a local MySQL or MariaDB
server whose root password is lost. It stops the service, starts the
server with authentication disabled and networking off, sets the new
password and restarts the service.

Run it as root or from an elevated prompt. No flag is required; every
flag overrides an auto-detected value.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupDefaultServices,
		Run: func(cmd *cobra.Command, _ []string) {
			exitCode = runReset(cmd)
		},
	}

	cmd.Version = compositeVersion()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&showVer, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "", `Language ("en", "de")`)
	applyDefaultFlags(cmd.PersistentFlags())

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check privileges and detect the installation without changing anything",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			exitCode = runCheck(cmd)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd, writeCfg)
		},
	}
	configCmd.Flags().BoolVar(&writeCfg, "write", false, "Write the effective configuration to the user config file")

	cmd.AddCommand(checkCmd, configCmd)
	return cmd
}

func runReset(cmd *cobra.Command) int {
	out := cmd.OutOrStdout()
	con := newConsole(out)

	deps, err := newDeps(appConfig)
	if err != nil {
		logging.Errorf("%v", err)
		return reset.ExitUsage
	}
	in := newReader(stdin, out)
	deps.Prompter = in
	deps.Reporter = con

	con.Banner()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	o := reset.New(appConfig, deps)
	uninstall := installSignalHandler(cancel, o, in.Restore)
	defer uninstall()

	res := o.Run(ctx)
	con.Summary(res)

	if appConfig.Console.PauseOnExit {
		in.WaitForEnter(i18n.T("exit.pause"))
	}
	return res.ExitCode()
}

func runCheck(cmd *cobra.Command) int {
	con := newConsole(cmd.OutOrStdout())
	deps, err := newDeps(appConfig)
	if err != nil {
		logging.Errorf("%v", err)
		return reset.ExitUsage
	}
	deps.Reporter = con

	rep, err := reset.New(appConfig, deps).Check(cmd.Context())
	con.Check(rep)
	if err != nil {
		return reset.ExitFailed
	}
	return reset.ExitOK
}

func runConfig(cmd *cobra.Command, write bool) error {
	data, err := config.Marshal(&appConfig)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if configUsed != "" {
		fmt.Fprintf(out, "# %s\n", configUsed)
	}
	fmt.Fprint(out, string(data))

	if write {
		path, err := config.WriteConfigFile(&appConfig, false)
		if err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(out, "# written to %s\n", path)
	}
	return nil
}
