package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ventures/internal/cli"
	"ventures/internal/config"
	"ventures/internal/game"
	"ventures/internal/store"
	"ventures/internal/tui"
)

const commandTimeout = 30 * time.Second

// session lazily opens the backend the first time a command needs one.
type session struct {
	configPath string
	remote     bool
	verbose    bool

	logger  *slog.Logger
	backend cli.Backend
	closer  func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := &session{}
	root := &cobra.Command{
		Use:          "vt",
		Short:        "Ventures: run a startup one day at a time",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if s.verbose {
				level = slog.LevelDebug
			}
			s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			if !stdoutIsTerminal() {
				color.NoColor = true
			}
			if s.configPath == "" {
				dir, err := config.DefaultCLIDir()
				if err != nil {
					return err
				}
				s.configPath = filepath.Join(dir, "config.yaml")
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.close()
		},
	}
	root.PersistentFlags().StringVar(&s.configPath, "config", "", "config file (default ~/.vt/config.yaml)")
	root.PersistentFlags().BoolVar(&s.remote, "remote", false, "play against the configured ventures-api")
	root.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		newNewCmd(s),
		newStatusCmd(s),
		newNextCmd(s),
		newHireCmd(s),
		newRolesCmd(),
		newFeaturesCmd(s),
		newDevelopCmd(s),
		newChannelsCmd(s),
		newUnlockCmd(s),
		newCampaignCmd(s),
		newPitchCmd(s),
		newRepayCmd(s),
		newOfficeCmd(s),
		newLogCmd(s),
		newWipeCmd(s),
		newPlayCmd(s),
		newRemoteCmd(s),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		_ = s.close()
		if errors.Is(err, game.ErrNoVenture) {
			fmt.Fprintln(os.Stderr, "error: no venture yet, start one with `vt new <name>`")
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func (s *session) open(ctx context.Context) (cli.Backend, error) {
	if s.backend != nil {
		return s.backend, nil
	}
	cfg, err := config.LoadCLI(s.configPath)
	if err != nil {
		return nil, err
	}
	if s.remote {
		cfg.Remote = true
	}
	if cfg.UseRemote() {
		s.logger.Debug("using remote backend", "base_url", cfg.BaseURL())
		s.backend = cli.NewClient(cfg.BaseURL(), cfg.APIToken)
		return s.backend, nil
	}

	st, err := store.Open(ctx, cfg.Store, s.logger)
	if err != nil {
		return nil, err
	}
	s.closer = st.Close
	s.backend = game.NewService(st, game.Engine{ResolvePrerequisites: cfg.ResolvePrerequisites}, s.logger)
	return s.backend, nil
}

func (s *session) close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer()
	s.closer = nil
	return err
}

// action runs fn against the backend with the per-command timeout.
func (s *session) action(cmd *cobra.Command, fn func(context.Context, cli.Backend) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()
	backend, err := s.open(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, backend)
}

func newNewCmd(s *session) *cobra.Command {
	var (
		typeFlag string
		pathFlag string
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Found a new venture (replaces the current one)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive := stdinIsTerminal()
			name := strings.Join(args, " ")
			if name == "" && interactive {
				var err error
				if name, err = promptRequired("Company name"); err != nil {
					return err
				}
			}
			if typeFlag == "" {
				if !interactive {
					return errors.New("--type is required")
				}
				choice, err := promptChoice("Startup type", stringsOf(game.StartupTypes), string(game.StartupSaaS))
				if err != nil {
					return err
				}
				typeFlag = choice
			}
			if pathFlag == "" {
				if !interactive {
					return errors.New("--path is required")
				}
				choice, err := promptChoice("Starting path", stringsOf(game.StartingPaths), string(game.PathBootstrap))
				if err != nil {
					return err
				}
				pathFlag = choice
			}
			startupType, err := game.ParseStartupType(typeFlag)
			if err != nil {
				return fmt.Errorf("%w: %q", err, typeFlag)
			}
			path, err := game.ParseStartingPath(pathFlag)
			if err != nil {
				return fmt.Errorf("%w: %q", err, pathFlag)
			}

			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				if !force {
					current, err := b.Dashboard(ctx)
					switch {
					case err == nil && !current.Venture.IsGameOver:
						if !interactive {
							return fmt.Errorf("%s is still running, pass --force to replace it", current.Venture.CompanyName)
						}
						ok, err := promptConfirm(fmt.Sprintf("Replace %s (day %d)?", current.Venture.CompanyName, current.Venture.Day))
						if err != nil {
							return err
						}
						if !ok {
							printInfo("Kept the current venture.")
							return nil
						}
					case err != nil && !errors.Is(err, game.ErrNoVenture):
						return err
					}
				}
				res, err := b.NewVenture(ctx, name, startupType, path)
				if err != nil {
					return err
				}
				renderEvents(res.Events)
				renderDashboard(game.Dashboard{Venture: res.Venture, Metrics: res.Metrics})
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&typeFlag, "type", "", "startup type: SaaS, Gaming, FinTech, E-commerce, AI/ML")
	cmd.Flags().StringVar(&pathFlag, "path", "", "starting path: Bootstrap, Angel, VC Pre-Seed, Bank Loan, Accelerator")
	cmd.Flags().BoolVar(&force, "force", false, "replace a running venture without asking")
	return cmd
}

func newStatusCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"dash"},
		Short:   "Show the dashboard",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				d, err := b.Dashboard(ctx)
				if err != nil {
					return err
				}
				renderDashboard(d)
				return nil
			})
		},
	}
}

func newNextCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "next [days]",
		Short: "Advance the simulation (default one day)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 || n > game.MaxAdvanceDays {
					return fmt.Errorf("days must be a whole number between 1 and %d", game.MaxAdvanceDays)
				}
				days = n
			}
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				res, err := b.AdvanceDays(ctx, days)
				if err != nil {
					return err
				}
				renderResult(res)
				return nil
			})
		},
	}
}

func newHireCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "hire [role] [salary]",
		Short: "Start recruiting (preset roles use their listed salary)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var role string
			if len(args) > 0 {
				role = args[0]
			} else {
				if !stdinIsTerminal() {
					return errors.New("role is required")
				}
				choice, err := promptChoice("Role", roleNames(), game.HiringRoles[0].Role)
				if err != nil {
					return err
				}
				role = choice
			}

			var salary float64
			if len(args) == 2 {
				v, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("salary: %w", err)
				}
				salary = v
			} else if preset, ok := game.HiringRoleByName(role); ok {
				role, salary = preset.Role, preset.Salary
			} else {
				if !stdinIsTerminal() {
					return fmt.Errorf("salary is required for custom role %q", role)
				}
				v, err := promptFloat("Monthly salary", 0)
				if err != nil {
					return err
				}
				salary = v
			}

			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				res, err := b.StartHiring(ctx, role, salary)
				if err != nil {
					return err
				}
				renderResult(res)
				return nil
			})
		},
	}
}

func newRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List preset hiring roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderRoles(game.DefaultCatalog().HiringRoles)
			return nil
		},
	}
}

func newFeaturesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List product features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				d, err := b.Dashboard(ctx)
				if err != nil {
					return err
				}
				renderFeatures(d.Venture)
				return nil
			})
		},
	}
}

func newDevelopCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "develop <feature-id>",
		Short: "Start building (or scaling) a feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				res, err := b.DevelopFeature(ctx, strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				renderResult(res)
				return nil
			})
		},
	}
}

func newChannelsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List marketing channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				d, err := b.Dashboard(ctx)
				if err != nil {
					return err
				}
				renderChannels(d.Venture)
				return nil
			})
		},
	}
}

func newUnlockCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <channel-id>",
		Short: "Unlock a marketing channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				res, err := b.UnlockChannel(ctx, strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				renderResult(res)
				return nil
			})
		},
	}
}

func newCampaignCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "campaign <channel-id>",
		Short: "Run a campaign on an unlocked channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				res, err := b.RunCampaign(ctx, strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				renderResult(res)
				return nil
			})
		},
	}
}

func newPitchCmd(s *session) *cobra.Command {
	var accept bool
	cmd := &cobra.Command{
		Use:   "pitch",
		Short: "Pitch investors; shows the offer and asks before giving up equity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				eval, err := b.EvaluatePitch(ctx)
				if err != nil {
					return err
				}
				renderPitch(eval)
				if !eval.Qualified && !accept {
					return nil
				}
				answer := accept
				if !answer {
					if !stdinIsTerminal() {
						printInfo("Run `vt pitch --accept` to take the offer.")
						return nil
					}
					if answer, err = promptConfirm("Accept the offer?"); err != nil {
						return err
					}
				}
				out, err := b.Pitch(ctx, answer)
				if err != nil {
					return err
				}
				renderResult(out.Result)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&accept, "accept", false, "accept the offer without asking")
	return cmd
}

func newRepayCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "repay <amount|all>",
		Short: "Repay outstanding debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				var amount float64
				if strings.EqualFold(args[0], "all") {
					d, err := b.Dashboard(ctx)
					if err != nil {
						return err
					}
					amount = d.Venture.DebtAmount
				} else {
					v, err := strconv.ParseFloat(args[0], 64)
					if err != nil {
						return fmt.Errorf("amount: %w", err)
					}
					amount = v
				}
				res, err := b.RepayDebt(ctx, amount)
				if err != nil {
					return err
				}
				renderResult(res)
				return nil
			})
		},
	}
}

func newOfficeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:       "office <on|off>",
		Short:     "Rent or leave an office",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var rented bool
			switch strings.ToLower(args[0]) {
			case "on", "rent", "true":
				rented = true
			case "off", "leave", "false":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				res, err := b.SetOffice(ctx, rented)
				if err != nil {
					return err
				}
				renderResult(res)
				return nil
			})
		},
	}
}

func newLogCmd(s *session) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				records, err := b.Events(ctx, limit)
				if err != nil {
					return err
				}
				renderLog(records)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of events to show")
	return cmd
}

func newWipeCmd(s *session) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete the current venture and its log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !stdinIsTerminal() {
					return errors.New("pass --yes to wipe without a terminal")
				}
				ok, err := promptConfirm("Delete the current venture?")
				if err != nil {
					return err
				}
				if !ok {
					printInfo("Nothing deleted.")
					return nil
				}
			}
			return s.action(cmd, func(ctx context.Context, b cli.Backend) error {
				if err := b.Wipe(ctx); err != nil {
					return err
				}
				printSuccess("Venture wiped.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func newPlayCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Interactive full-screen play",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stdinIsTerminal() || !stdoutIsTerminal() {
				return errors.New("play needs an interactive terminal")
			}
			ctx := cmd.Context()
			backend, err := s.open(ctx)
			if err != nil {
				return err
			}
			p := tea.NewProgram(tui.New(ctx, backend), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return nil
		},
	}
}

func newRemoteCmd(s *session) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Configure play against a ventures-api server",
	}
	setCmd := &cobra.Command{
		Use:   "set <base-url>",
		Short: "Play against the server at base-url",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.SetRemote(s.configPath, strings.TrimSpace(args[0]), token); err != nil {
				return err
			}
			printSuccess("Remote play enabled: " + args[0])
			return nil
		},
	}
	setCmd.Flags().StringVar(&token, "token", "", "bearer token for the server")
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Go back to the local save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ClearRemote(s.configPath); err != nil {
				return err
			}
			printSuccess("Remote play disabled.")
			return nil
		},
	}
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCLI(s.configPath)
			if err != nil {
				return err
			}
			if cfg.UseRemote() || s.remote {
				printInfo("remote: " + cfg.BaseURL())
				return nil
			}
			printInfo(fmt.Sprintf("local: %s store", cfg.Store.Driver))
			return nil
		},
	}
	cmd.AddCommand(setCmd, clearCmd, showCmd)
	return cmd
}

func stringsOf[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func roleNames() []string {
	out := make([]string, len(game.HiringRoles))
	for i, r := range game.HiringRoles {
		out[i] = r.Role
	}
	return out
}
