// Command capsolver is a thin CLI over the capsolver client: it checks the
// balance, submits raw task documents and polls for their results.
//
// # Usage
//
//	capsolver balance
//	capsolver create --file task.json
//	capsolver result TASK_ID [--timeout 2m]
//	capsolver solve --file task.json [--timeout 2m]
//	capsolver mcp
//
// # Configuration
//
// Configuration is loaded from config.json in the current directory or in
// CAPSOLVER_HOME. CAPSOLVER_API_KEY and CAPSOLVER_BASE_URL override it; a
// .env file is honored.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"capsolver"
)

var version = "dev"

func main() {
	_ = godotenv.Load()
	log := newLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(log).ExecuteContext(ctx); err != nil {
		log.err(err.Error())
		stop()
		os.Exit(1)
	}
}

// app carries state shared by all subcommands.
type app struct {
	log        *logger
	configPath string
	verbose    bool
}

func (a *app) session() (*capsolver.Session, capsolver.Config, error) {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return nil, capsolver.Config{}, err
	}
	if a.verbose {
		a.log.verbose()
	}
	s, err := capsolver.New(cfg.sessionConfig(), capsolver.WithLogger(a.log.z), capsolver.WithUserAgent("capsolver-cli/"+version))
	if err != nil {
		return nil, capsolver.Config{}, err
	}
	return s, s.Config(), nil
}

func newRootCmd(log *logger) *cobra.Command {
	a := &app{log: log}
	root := &cobra.Command{
		Use:           "capsolver",
		Short:         "capsolver: CapSolver task API client",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "path to config.json")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every request")

	root.AddCommand(
		newBalanceCmd(a),
		newCreateCmd(a),
		newResultCmd(a),
		newSolveCmd(a),
		newMCPCmd(a),
	)
	return root
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := a.session()
			if err != nil {
				return err
			}
			b, err := s.Balance(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "balance: %.4f\n", b.Balance)
			if len(b.Packages) > 0 {
				_, _ = fmt.Fprintf(out, "packages: %s\n", strings.Join(b.Packages, ", "))
			}
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a raw task document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			s, _, err := a.session()
			if err != nil {
				return err
			}
			created, err := s.CreateTaskRaw(cmd.Context(), raw)
			if err != nil {
				return err
			}
			a.log.infof("task created: taskId=%s status=%s", created.TaskID, created.Status)
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "-", "task JSON file, - for stdin")
	return cmd
}

func newResultCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "result TASK_ID",
		Short: "Poll a task until its solution is ready",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := a.session()
			if err != nil {
				return err
			}
			a.log.infof("polling: taskId=%s interval=%s", args[0], cfg.PollInterval)
			start := time.Now()
			sol, err := capsolver.GetTaskResult[json.RawMessage](cmd.Context(), s, args[0], pollOpts(timeout)...)
			if err != nil {
				return explain(a.log, err)
			}
			a.log.infof("ready (elapsed %s)", time.Since(start).Round(100*time.Millisecond))
			return printJSON(cmd.OutOrStdout(), sol)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "maximum wait, overrides poll_timeout_ms")
	return cmd
}

func newSolveCmd(a *app) *cobra.Command {
	var (
		path    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Submit a raw task document and wait for its solution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			s, _, err := a.session()
			if err != nil {
				return err
			}
			start := time.Now()
			sol, err := capsolver.SolveRaw[json.RawMessage](cmd.Context(), s, raw, pollOpts(timeout)...)
			if err != nil {
				return explain(a.log, err)
			}
			a.log.infof("solved (elapsed %s)", time.Since(start).Round(100*time.Millisecond))
			return printJSON(cmd.OutOrStdout(), sol)
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "-", "task JSON file, - for stdin")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "maximum wait, overrides poll_timeout_ms")
	return cmd
}

func pollOpts(timeout time.Duration) []capsolver.PollOption {
	if timeout > 0 {
		return []capsolver.PollOption{capsolver.PollTimeout(timeout)}
	}
	return nil
}

// explain logs a hint for errors a user can act on and returns err.
func explain(log *logger, err error) error {
	var re *capsolver.RemoteError
	switch {
	case errors.Is(err, capsolver.ErrTimeout):
		log.warn("task not ready in time, retry with `capsolver result` or a larger --timeout")
	case errors.As(err, &re) && re.Code == "ERROR_KEY_DENIED_ACCESS":
		log.warnf("api key rejected, check %s", envAPIKey)
	}
	return err
}

// readInput reads path, or r when path is "-".
func readInput(r io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return b, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
