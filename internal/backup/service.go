package backup

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/repository"
)

type Service struct {
	repos  *repository.Repositories
	status *StatusNotifier
	logger *log.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithStatusNotifier(n *StatusNotifier) Option {
	return func(s *Service) { s.status = n }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = log.OrDefault(logger, log.ComponentBackup) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repos *repository.Repositories, opts ...Option) *Service {
	s := &Service{
		repos:  repos,
		logger: log.OrDefault(nil, log.ComponentBackup),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) publish(op string, state State, err error) {
	if s.status == nil {
		return
	}
	s.status.Publish(Status{Op: op, State: state, At: s.now(), Err: err})
}

// Snapshot reads every collection into a full backup document and records
// the backup time.
func (s *Service) Snapshot(ctx context.Context) (*Document, error) {
	s.publish(log.OpSnapshot, StateStarted, nil)
	doc, err := s.read(ctx)
	if err == nil {
		doc.Timestamp = s.now()
		doc.Version = Version
		if werr := s.repos.Settings.SetLastBackupTime(ctx, doc.Timestamp); werr != nil {
			// the document is still usable
			s.logger.WarnContext(ctx, "Could not record backup time", log.FieldError, werr)
		}
	}
	s.finish(ctx, log.OpSnapshot, "full", err)
	return doc, err
}

// read loads the collections concurrently. Each read touches its own key.
func (s *Service) read(ctx context.Context) (*Document, error) {
	var doc Document
	var settings core.AppSettings
	var profile core.UserProfile

	g, gctx := errgroup.WithContext(ctx)
	reads := []func(context.Context){
		func(ctx context.Context) { doc.Revenues = s.repos.Revenues.GetAll(ctx) },
		func(ctx context.Context) { doc.Expenses = s.repos.Expenses.GetAll(ctx) },
		func(ctx context.Context) { doc.Categories = s.repos.Categories.List(ctx) },
		func(ctx context.Context) { doc.RevenueCategories = s.repos.Categories.RevenueCategories(ctx) },
		func(ctx context.Context) { settings = s.repos.Settings.GetSettings(ctx) },
		func(ctx context.Context) { profile = s.repos.Settings.GetProfile(ctx) },
		func(ctx context.Context) { doc.Savings = s.repos.Savings.GetAll(ctx) },
		func(ctx context.Context) { doc.Goals = s.repos.Goals.GetAll(ctx) },
		func(ctx context.Context) { doc.SavingsTransactions = s.repos.Transactions.GetAll(ctx) },
	}
	for _, read := range reads {
		read := read
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			read(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("read collections: %w", err)
	}

	doc.Settings = &settings
	doc.UserProfile = &profile
	normalizeEmpty(&doc)
	return &doc, nil
}

func normalizeEmpty(doc *Document) {
	if doc.Revenues == nil {
		doc.Revenues = []core.Revenue{}
	}
	if doc.Expenses == nil {
		doc.Expenses = []core.Expense{}
	}
	if doc.Savings == nil {
		doc.Savings = []core.Saving{}
	}
	if doc.Goals == nil {
		doc.Goals = []core.Goal{}
	}
	if doc.SavingsTransactions == nil {
		doc.SavingsTransactions = []core.SavingsTransaction{}
	}
}

// SnapshotMinimal keeps only the n most recent revenues and expenses, plus
// goals, settings and profile. It is meant for small transports.
func (s *Service) SnapshotMinimal(ctx context.Context, n int) (*Document, error) {
	s.publish(log.OpSnapshot, StateStarted, nil)
	full, err := s.read(ctx)
	if err != nil {
		s.finish(ctx, log.OpSnapshot, TypeMinimal, err)
		return nil, err
	}

	doc := &Document{
		Revenues:    lastN(full.Revenues, n, func(r core.Revenue) time.Time { return r.CreatedAt }),
		Expenses:    lastN(full.Expenses, n, func(e core.Expense) time.Time { return e.CreatedAt }),
		Settings:    full.Settings,
		UserProfile: full.UserProfile,
		Goals:       full.Goals,
		Timestamp:   s.now(),
		Version:     Version,
		Type:        TypeMinimal,
	}
	s.finish(ctx, log.OpSnapshot, TypeMinimal, nil)
	return doc, nil
}

// lastN returns the n items with the latest timestamps in chronological
// order. n <= 0 keeps nothing.
func lastN[T any](items []T, n int, at func(T) time.Time) []T {
	sorted := append([]T(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return at(sorted[i]).Before(at(sorted[j])) })
	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

// Restore writes doc back to storage. A full document overwrites every
// collection, with missing collections restored as empty. A minimal
// document merges its revenues and expenses by id, replaces goals,
// settings and profile, and leaves everything else alone. Writes are not
// transactional: a failure part way leaves earlier collections restored.
func (s *Service) Restore(ctx context.Context, doc *Document) error {
	if doc == nil {
		return ErrInvalidDocument
	}
	kind := "full"
	if doc.IsMinimal() {
		kind = TypeMinimal
	}
	s.publish(log.OpRestore, StateStarted, nil)

	var err error
	if doc.IsMinimal() {
		err = s.restoreMinimal(ctx, doc)
	} else {
		err = s.restoreFull(ctx, doc)
	}
	s.finish(ctx, log.OpRestore, kind, err)
	return err
}

type write struct {
	key string
	run func(context.Context) error
}

func apply(ctx context.Context, writes []write) error {
	for _, w := range writes {
		if err := w.run(ctx); err != nil {
			return fmt.Errorf("restore %s: %w", w.key, err)
		}
	}
	return nil
}

func settingsOrDefault(doc *Document) core.AppSettings {
	if doc.Settings == nil {
		return core.DefaultSettings()
	}
	return *doc.Settings
}

func profileOrDefault(doc *Document) core.UserProfile {
	if doc.UserProfile == nil {
		return core.DefaultProfile()
	}
	return *doc.UserProfile
}

func (s *Service) restoreFull(ctx context.Context, doc *Document) error {
	r := s.repos
	return apply(ctx, []write{
		{repository.KeyRevenues, func(ctx context.Context) error {
			return r.Revenues.ReplaceAll(ctx, repository.DedupeSalary(doc.Revenues))
		}},
		{repository.KeyExpenses, func(ctx context.Context) error { return r.Expenses.ReplaceAll(ctx, doc.Expenses) }},
		{repository.KeyCategories, func(ctx context.Context) error {
			return r.Categories.ReplaceAll(ctx, doc.Categories, doc.RevenueCategories)
		}},
		{repository.KeySettings, func(ctx context.Context) error { return r.Settings.SaveSettings(ctx, settingsOrDefault(doc)) }},
		{repository.KeyUserProfile, func(ctx context.Context) error { return r.Settings.SaveProfile(ctx, profileOrDefault(doc)) }},
		{repository.KeySavings, func(ctx context.Context) error { return r.Savings.ReplaceAll(ctx, doc.Savings) }},
		{repository.KeyGoals, func(ctx context.Context) error { return r.Goals.ReplaceAll(ctx, doc.Goals) }},
		{repository.KeySavingsTransactions, func(ctx context.Context) error {
			return r.Transactions.ReplaceAll(ctx, doc.SavingsTransactions)
		}},
	})
}

func (s *Service) restoreMinimal(ctx context.Context, doc *Document) error {
	r := s.repos
	return apply(ctx, []write{
		{repository.KeyRevenues, func(ctx context.Context) error {
			merged := upsert(r.Revenues.GetAll(ctx), doc.Revenues, core.Revenue.EntityID)
			return r.Revenues.ReplaceAll(ctx, repository.DedupeSalary(merged))
		}},
		{repository.KeyExpenses, func(ctx context.Context) error {
			return r.Expenses.ReplaceAll(ctx, upsert(r.Expenses.GetAll(ctx), doc.Expenses, core.Expense.EntityID))
		}},
		{repository.KeyGoals, func(ctx context.Context) error { return r.Goals.ReplaceAll(ctx, doc.Goals) }},
		{repository.KeySettings, func(ctx context.Context) error { return r.Settings.SaveSettings(ctx, settingsOrDefault(doc)) }},
		{repository.KeyUserProfile, func(ctx context.Context) error { return r.Settings.SaveProfile(ctx, profileOrDefault(doc)) }},
	})
}

// upsert replaces items of existing that share an id with incoming and
// appends the rest.
func upsert[T any](existing, incoming []T, id func(T) string) []T {
	index := make(map[string]int, len(existing))
	out := append([]T(nil), existing...)
	for i, it := range out {
		index[id(it)] = i
	}
	for _, it := range incoming {
		if i, ok := index[id(it)]; ok {
			out[i] = it
			continue
		}
		index[id(it)] = len(out)
		out = append(out, it)
	}
	return out
}

func (s *Service) finish(ctx context.Context, op, kind string, err error) {
	if err != nil {
		s.logger.ErrorContext(ctx, "Backup operation failed",
			log.FieldOperation, op, log.FieldBackupType, kind, log.FieldError, err)
		s.publish(op, StateFailed, err)
		return
	}
	s.logger.InfoContext(ctx, "Backup operation completed",
		log.FieldOperation, op, log.FieldBackupType, kind)
	s.publish(op, StateSucceeded, nil)
}
