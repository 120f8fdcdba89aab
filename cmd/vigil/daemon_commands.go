package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vigil/internal/daemonctl"
	"vigil/internal/ipc"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the vigil daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.EnsureStarted(
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx),
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.Launched {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
			}

			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintln(stdout, "Daemon started")
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon already running")
			case daemonctl.StartStateRequested:
				if strings.TrimSpace(result.Message) != "" {
					fmt.Fprintln(stdout, result.Message)
					return nil
				}
				fmt.Fprintln(stdout, "Start request sent")
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the vigil daemon (completely terminates the process)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(ctx.socketPath(), ctx.configValue(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if !result.StopAcknowledged {
				fmt.Fprintln(stdout, "Stop request sent")
			} else {
				fmt.Fprintln(stdout, "Stopping monitor loop...")
			}
			if result.ForcedKill && result.PID > 0 {
				fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the vigil daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.Restart(
				ctx.socketPath(),
				ctx.configValue(),
				exe,
				daemonLaunchOptions(ctx),
				5*time.Second,
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.WasRunning {
				if result.Stop.ForcedKill && result.Stop.PID > 0 {
					fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.Stop.PID)
				}
				fmt.Fprintln(stdout, "Daemon stopped")
			}

			switch result.Start.State {
			case daemonctl.StartStateStarted, daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon restarted")
			case daemonctl.StartStateRequested:
				if strings.TrimSpace(result.Start.Message) != "" {
					fmt.Fprintln(stdout, result.Start.Message)
					return nil
				}
				fmt.Fprintln(stdout, "Start request sent")
			}
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and watched-process status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			var status *ipc.StatusResponse
			err := ctx.withClient(func(client *ipc.Client) error {
				resp, statusErr := client.Status()
				if statusErr != nil {
					return statusErr
				}
				status = resp
				return nil
			})
			if err != nil {
				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Vigil", statusWarn, "Not running (run `vigil start`)", colorize))
				return nil
			}

			printStatus(stdout, status, colorize)
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

func printStatus(stdout io.Writer, status *ipc.StatusResponse, colorize bool) {
	for _, line := range renderSectionHeader("Daemon", colorize) {
		fmt.Fprintln(stdout, line)
	}
	if status.Running {
		fmt.Fprintln(stdout, renderStatusLine("Vigil", statusOK, fmt.Sprintf("Running (pid %d)", status.PID), colorize))
	} else {
		fmt.Fprintln(stdout, renderStatusLine("Vigil", statusWarn, "Monitoring stopped", colorize))
	}
	fmt.Fprintln(stdout, renderStatusLine("Poll interval", statusInfo, fmt.Sprintf("%dms", status.PollIntervalMS), colorize))
	fmt.Fprintln(stdout, renderStatusLine("Cycles", statusInfo, fmt.Sprintf("%d", status.Cycles), colorize))
	if !status.LastCycle.IsZero() {
		fmt.Fprintln(stdout, renderStatusLine("Last cycle", statusInfo, status.LastCycle.Format("2006-01-02 15:04:05"), colorize))
	}
	if status.NotifyConfigured {
		fmt.Fprintln(stdout, renderStatusLine("Notifications", statusOK, "Configured", colorize))
	} else {
		fmt.Fprintln(stdout, renderStatusLine("Notifications", statusInfo, "Not configured", colorize))
	}

	fmt.Fprintln(stdout)
	for _, line := range renderSectionHeader("Watched Processes", colorize) {
		fmt.Fprintln(stdout, line)
	}

	downSince := make(map[string]time.Time, len(status.Down))
	for _, outage := range status.Down {
		downSince[outage.Process] = outage.DownSince
	}
	rows := make([][]string, 0, len(status.Watched))
	for _, name := range status.Watched {
		state := "up"
		detail := ""
		if since, ok := downSince[name]; ok {
			state = "down"
			detail = since.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{name, state, detail})
	}
	if len(rows) == 0 {
		fmt.Fprintln(stdout, "No processes configured")
		return
	}
	fmt.Fprintln(stdout, renderTable(
		[]string{"Process", "State", "Down Since"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	))
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return exe, nil
}

func daemonLaunchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{}
	if ctx.socketFlag != nil {
		if socket := strings.TrimSpace(*ctx.socketFlag); socket != "" {
			opts.SocketPath = socket
		}
	}
	if ctx.configFlag != nil {
		if config := strings.TrimSpace(*ctx.configFlag); config != "" {
			opts.ConfigPath = config
		}
	}
	return opts
}
