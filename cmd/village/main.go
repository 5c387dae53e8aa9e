package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/catvillage/internal/clock"
	"github.com/napolitain/catvillage/internal/converter"
	"github.com/napolitain/catvillage/internal/economy"
	"github.com/napolitain/catvillage/internal/loader"
	"github.com/napolitain/catvillage/internal/models"
	"github.com/napolitain/catvillage/internal/service"
	"github.com/napolitain/catvillage/internal/store"
)

type app struct {
	dataDir  string
	dbPath   string
	playerID string
	quiet    bool
	verbose  bool
	asJSON   bool

	clk clock.Clock
}

// env is everything a subcommand needs once flags are parsed
type env struct {
	tables *models.Tables
	engine *economy.Engine
	svc    *service.VillageService
	close  func()
}

func main() {
	a := &app{clk: clock.RealClock{}}
	if err := newRootCmd(a).Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "village",
		Short: "Cat Village idle economy",
		Long: `Manage cat village players: harvest resources, upgrade buildings,
trade at the market, collect cats and tap the pond.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.dataDir, "data", "d", "", "Path to data directory (default: built-in tables)")
	pf.StringVar(&a.dbPath, "db", "village.db", "Path to SQLite player database")
	pf.StringVarP(&a.playerID, "player", "p", "", "Player id")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Minimal output")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Log service activity to stderr")
	pf.BoolVar(&a.asJSON, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		a.newCmd(),
		a.playersCmd(),
		a.showCmd(),
		a.harvestCmd(),
		a.upgradeCmd(),
		a.costCmd(),
		a.nextCmd(),
		a.sellCmd(),
		a.catsCmd(),
		a.unitCmd("activate", true),
		a.unitCmd("deactivate", false),
		a.tapCmd(),
		a.applyCmd(),
		a.historyCmd(),
		a.deleteCmd(),
		a.tablesCmd(),
	)
	return rootCmd
}

func (a *app) loadTables() (*models.Tables, error) {
	if a.dataDir == "" {
		return loader.DefaultTables()
	}
	return loader.LoadTables(a.dataDir)
}

func (a *app) open(cmd *cobra.Command) (*env, error) {
	tables, err := a.loadTables()
	if err != nil {
		return nil, fmt.Errorf("loading tables: %w", err)
	}

	st, err := store.OpenSQLite(a.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", a.dbPath, err)
	}

	logger := log.New(io.Discard, "", 0)
	if a.verbose {
		logger = log.New(cmd.ErrOrStderr(), "village: ", log.LstdFlags)
	}

	engine := economy.NewEngine(tables)
	return &env{
		tables: tables,
		engine: engine,
		svc:    service.NewVillageService(engine, st, a.clk, logger),
		close:  func() { _ = st.Close() },
	}, nil
}

func (a *app) requirePlayer() error {
	if a.playerID == "" {
		return errors.New("no player selected (use --player)")
	}
	return nil
}

// playerCmd builds a subcommand that needs an open store and a selected player
func (a *app) playerCmd(use, short string, args cobra.PositionalArgs, run func(cmd *cobra.Command, e *env, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requirePlayer(); err != nil {
				return err
			}
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.close()
			return run(cmd, e, args)
		},
	}
}

func (a *app) newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create a new player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			id, _, err := e.svc.CreatePlayer(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.quiet {
				fmt.Fprintln(out, id)
				return nil
			}
			color.New(color.FgGreen, color.Bold).Fprintf(out, "✓ Created player %s\n", id)
			fmt.Fprintf(out, "   Use --player %s with other commands\n", id)
			return nil
		},
	}
}

func (a *app) playersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List stored players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ids, err := e.svc.Players(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return a.playerCmd("show", "Show resources, buildings, cats and the pond", cobra.NoArgs,
		func(cmd *cobra.Command, e *env, args []string) error {
			status, err := e.svc.Status(cmd.Context(), a.playerID)
			if err != nil {
				return err
			}
			if a.asJSON {
				st, err := converter.SnapshotToProto(status.Snapshot)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), st)
			}
			printStatus(cmd.OutOrStdout(), a.playerID, e, status, a.quiet)
			return nil
		})
}

func (a *app) harvestCmd() *cobra.Command {
	return a.playerCmd("harvest <resource> <amount>", "Harvest a resource", cobra.ExactArgs(2),
		func(cmd *cobra.Command, e *env, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			return a.execute(cmd, e, economy.Action{
				Kind:     economy.ActionHarvest,
				Resource: models.ResourceKind(args[0]),
				Amount:   amount,
			})
		})
}

func (a *app) upgradeCmd() *cobra.Command {
	return a.playerCmd("upgrade <building>", "Upgrade a building by one level", cobra.ExactArgs(1),
		func(cmd *cobra.Command, e *env, args []string) error {
			return a.execute(cmd, e, economy.Action{
				Kind:     economy.ActionUpgrade,
				Building: models.BuildingKind(args[0]),
			})
		})
}

func (a *app) costCmd() *cobra.Command {
	return a.playerCmd("cost <building>", "Show the cost of the next building level", cobra.ExactArgs(1),
		func(cmd *cobra.Command, e *env, args []string) error {
			cost, err := e.svc.UpgradeCost(cmd.Context(), a.playerID, models.BuildingKind(args[0]))
			if err != nil {
				return fmt.Errorf("%s: %w", economy.Code(err), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", formatName(args[0]), formatCosts(cost))
			return nil
		})
}

func (a *app) nextCmd() *cobra.Command {
	return a.playerCmd("next", "Suggest the next building upgrade", cobra.NoArgs,
		func(cmd *cobra.Command, e *env, args []string) error {
			options, err := e.svc.Plan(cmd.Context(), a.playerID)
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), options, a.quiet)
			return nil
		})
}

func (a *app) sellCmd() *cobra.Command {
	return a.playerCmd("sell <resource> <amount>", "Sell whole batches at the market", cobra.ExactArgs(2),
		func(cmd *cobra.Command, e *env, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			return a.execute(cmd, e, economy.Action{
				Kind:     economy.ActionSell,
				Resource: models.ResourceKind(args[0]),
				Amount:   amount,
			})
		})
}

func (a *app) catsCmd() *cobra.Command {
	return a.playerCmd("cats", "List owned cats and their bonuses", cobra.NoArgs,
		func(cmd *cobra.Command, e *env, args []string) error {
			status, err := e.svc.Status(cmd.Context(), a.playerID)
			if err != nil {
				return err
			}
			printCats(cmd.OutOrStdout(), e.tables, status.Snapshot)
			return nil
		})
}

func (a *app) unitCmd(use string, activate bool) *cobra.Command {
	kind := economy.ActionDeactivate
	short := "Send a cat to rest"
	if activate {
		kind = economy.ActionActivate
		short = "Put a cat to work"
	}
	return a.playerCmd(use+" <cat>", short, cobra.ExactArgs(1),
		func(cmd *cobra.Command, e *env, args []string) error {
			return a.execute(cmd, e, economy.Action{Kind: kind, UnitID: args[0]})
		})
}

func (a *app) tapCmd() *cobra.Command {
	var times int
	cmd := a.playerCmd("tap", "Tap the pond", cobra.NoArgs,
		func(cmd *cobra.Command, e *env, args []string) error {
			for i := 0; i < max(times, 1); i++ {
				if err := a.execute(cmd, e, economy.Action{Kind: economy.ActionTap}); err != nil {
					return err
				}
			}
			return nil
		})
	cmd.Flags().IntVarP(&times, "times", "n", 1, "Number of taps")
	return cmd
}

func (a *app) applyCmd() *cobra.Command {
	return a.playerCmd("apply <action-json>", "Apply an action given as JSON", cobra.ExactArgs(1),
		func(cmd *cobra.Command, e *env, args []string) error {
			var st structpb.Struct
			if err := protojson.Unmarshal([]byte(args[0]), &st); err != nil {
				return fmt.Errorf("invalid action JSON: %w", err)
			}
			action, err := converter.ProtoToAction(&st)
			if err != nil {
				return err
			}
			return a.execute(cmd, e, action)
		})
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := a.playerCmd("history", "Show recent actions", cobra.NoArgs,
		func(cmd *cobra.Command, e *env, args []string) error {
			entries, err := e.svc.History(cmd.Context(), a.playerID, limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), entries)
			return nil
		})
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries (0 for all)")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return a.playerCmd("delete", "Delete the selected player", cobra.NoArgs,
		func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.svc.DeletePlayer(cmd.Context(), a.playerID); err != nil {
				return err
			}
			if !a.quiet {
				color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "Deleted player %s\n", a.playerID)
			}
			return nil
		})
}

func (a *app) tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the static resource, building and cat tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.loadTables()
			if err != nil {
				return fmt.Errorf("loading tables: %w", err)
			}
			printTables(cmd.OutOrStdout(), tables)
			return nil
		},
	}
}

// execute runs one action through the service and prints its result
func (a *app) execute(cmd *cobra.Command, e *env, action economy.Action) error {
	_, res, err := e.svc.Execute(cmd.Context(), a.playerID, action)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("player %s: %w", a.playerID, err)
		}
		return fmt.Errorf("%s: %w", economy.Code(err), err)
	}

	out := cmd.OutOrStdout()
	if a.asJSON {
		st, err := converter.ResultToProto(res)
		if err != nil {
			return err
		}
		return printJSON(out, st)
	}
	printResult(out, e.tables, res, a.quiet)
	return nil
}

func printJSON(w io.Writer, st *structpb.Struct) error {
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
