package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"finledger/internal/backup"
	"finledger/internal/cli"
	"finledger/internal/config"
	"finledger/internal/core"
	"finledger/internal/insights"
	"finledger/internal/ledger"
	"finledger/internal/log"
	"finledger/internal/repository"
	"finledger/internal/storage"
)

const usage = `usage: finledger <command> [flags]

commands:
  summary                 totals, rates and health score
  advice                  prioritized advice
  verify                  report stored amounts that disagree with their records
  carryover               start a new period if the current one has changed
  snapshot                write a full backup to stdout
  snapshot-minimal        write a minimal backup to stdout
  restore <file>          restore a backup file
  add-revenue             -name -amount -type
  add-expense             -name -amount -category -revenue [-description]
  add-goal                -title -target [-deadline YYYY-MM-DD]
  deposit | withdraw      -goal -amount [-revenue] [-description]
  settings                [-currency] [-language] [-notifications=true|false]
`

type app struct {
	cfg     *config.Config
	repos   *repository.Repositories
	engine  *ledger.Engine
	carry   *ledger.CarryOver
	backups *backup.Service
	logger  *log.Logger
	out     io.Writer
}

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	res := cli.OpenBackend(ctx, logger, cfg)
	defer res.Cleanup()

	notifier, closeNotifier := cli.SetupNotifier(logger, cfg)
	defer closeNotifier()

	status := backup.NewStatusNotifier()
	unsubscribe := status.Subscribe(func(s backup.Status) {
		logger.Debug("Backup status", log.FieldOperation, s.Op, "state", string(s.State))
	})
	defer unsubscribe()

	repos := repository.New(storage.NewAdapter(res.Store, logger), repository.WithLogger(logger))
	a := &app{
		cfg:     cfg,
		repos:   repos,
		engine:  ledger.New(repos, ledger.WithLogger(logger), ledger.WithNotifier(notifier)),
		carry:   ledger.NewCarryOver(repos, logger),
		backups: backup.NewService(repos, backup.WithLogger(logger), backup.WithStatusNotifier(status)),
		logger:  logger,
		out:     os.Stdout,
	}

	// every start begins by settling the period, like opening the app
	if _, err := a.carry.Run(ctx, time.Now()); err != nil {
		logger.Error("Carry-over failed", log.FieldError, err)
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		var fundsErr *ledger.InsufficientFundsError
		if errors.As(err, &fundsErr) {
			fmt.Fprintln(os.Stderr, "not enough funds:", fundsErr)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "summary":
		return a.print(insights.Summarize(insights.Load(ctx, a.repos)))
	case "advice":
		advice := insights.GenerateAdvice(insights.Load(ctx, a.repos), time.Now(), a.cfg.AdviceLimit)
		for _, line := range insights.Render(advice, insights.English) {
			fmt.Fprintln(a.out, line)
		}
		return nil
	case "verify":
		discrepancies := a.engine.Verify(ctx)
		for _, d := range discrepancies {
			fmt.Fprintln(a.out, d)
		}
		if len(discrepancies) > 0 {
			return fmt.Errorf("%d discrepancies found", len(discrepancies))
		}
		fmt.Fprintln(a.out, "ledger is consistent")
		return nil
	case "carryover":
		ran, err := a.carry.Run(ctx, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "carried over:", ran)
		return nil
	case "snapshot":
		doc, err := a.backups.Snapshot(ctx)
		if err != nil {
			return err
		}
		return a.writeDocument(doc)
	case "snapshot-minimal":
		doc, err := a.backups.SnapshotMinimal(ctx, a.cfg.MinimalBackupSize)
		if err != nil {
			return err
		}
		return a.writeDocument(doc)
	case "restore":
		if len(args) != 1 {
			return errors.New("restore takes exactly one file")
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := backup.Decode(raw)
		if err != nil {
			return err
		}
		return a.backups.Restore(ctx, doc)
	case "add-revenue":
		return a.addRevenue(ctx, args)
	case "add-expense":
		return a.addExpense(ctx, args)
	case "add-goal":
		return a.addGoal(ctx, args)
	case "deposit":
		return a.addTransaction(ctx, core.Deposit, args)
	case "withdraw":
		return a.addTransaction(ctx, core.Withdrawal, args)
	case "settings":
		return a.updateSettings(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) writeDocument(doc *backup.Document) error {
	raw, err := backup.Encode(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(raw))
	return err
}

// amountFlag parses amounts with either decimal separator.
type amountFlag float64

func (f *amountFlag) String() string { return core.FormatAmount(float64(*f), "") }

func (f *amountFlag) Set(s string) error {
	v, err := core.ParseAmount(s)
	if err != nil {
		return err
	}
	*f = amountFlag(v)
	return nil
}

func (a *app) addRevenue(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-revenue", flag.ContinueOnError)
	name := fs.String("name", "", "revenue name")
	typ := fs.String("type", string(core.Salary), "salary|freelance|business|investment|other")
	var amount amountFlag
	fs.Var(&amount, "amount", "amount")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rev, err := a.engine.CreateRevenue(ctx, core.Revenue{Name: *name, Amount: float64(amount), Type: core.RevenueType(*typ)})
	if err != nil {
		return err
	}
	return a.print(rev)
}

func (a *app) addExpense(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-expense", flag.ContinueOnError)
	name := fs.String("name", "", "expense name")
	category := fs.String("category", "", "category")
	revenue := fs.String("revenue", "", "revenue id paying for the expense")
	description := fs.String("description", "", "optional description")
	var amount amountFlag
	fs.Var(&amount, "amount", "amount")
	if err := fs.Parse(args); err != nil {
		return err
	}
	x, err := a.engine.CreateExpense(ctx, core.Expense{
		Name: *name, Amount: float64(amount), Category: *category,
		Description: *description, RevenueSourceID: *revenue,
	})
	if err != nil {
		return err
	}
	return a.print(x)
}

func (a *app) addGoal(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-goal", flag.ContinueOnError)
	title := fs.String("title", "", "goal title")
	deadline := fs.String("deadline", "", "optional deadline (YYYY-MM-DD)")
	var target amountFlag
	fs.Var(&target, "target", "target amount")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g := core.Goal{Title: *title, TargetAmount: float64(target)}
	if *deadline != "" {
		d, err := time.Parse("2006-01-02", *deadline)
		if err != nil {
			return fmt.Errorf("invalid deadline: %w", err)
		}
		g.Deadline = &d
	}
	created, err := a.engine.CreateGoal(ctx, g)
	if err != nil {
		return err
	}
	return a.print(created)
}

func (a *app) addTransaction(ctx context.Context, typ core.TransactionType, args []string) error {
	fs := flag.NewFlagSet(string(typ), flag.ContinueOnError)
	goal := fs.String("goal", "", "goal id")
	revenue := fs.String("revenue", "", "revenue id funding a deposit")
	description := fs.String("description", "", "optional description")
	var amount amountFlag
	fs.Var(&amount, "amount", "amount")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, g, err := a.engine.AddSavingsTransaction(ctx, core.SavingsTransaction{
		GoalID: *goal, Amount: float64(amount), Type: typ,
		Description: *description, RevenueSourceID: *revenue,
	})
	if err != nil {
		return err
	}
	return a.print(g)
}

// updateSettings prints the current settings when no flag is given.
// Otherwise it saves them, which schedules or cancels reminders.
func (a *app) updateSettings(ctx context.Context, args []string) error {
	current := a.repos.Settings.GetSettings(ctx)
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	currency := fs.String("currency", current.Currency, "currency code")
	language := fs.String("language", current.Language, "language code")
	notifications := fs.Bool("notifications", current.NotificationsEnabled, "enable reminders")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NFlag() == 0 {
		return a.print(current)
	}
	s := core.AppSettings{Currency: *currency, Language: *language, NotificationsEnabled: *notifications}
	if err := a.engine.UpdateSettings(ctx, s); err != nil {
		return err
	}
	return a.print(s)
}
