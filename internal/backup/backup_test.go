package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/repository"
	"finledger/internal/storage"
	"finledger/internal/storage/memory"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	n := 0
	tick := testNow
	return repository.New(storage.NewAdapter(memory.New(), log.Discard()),
		repository.WithLogger(log.Discard()),
		repository.WithClock(func() time.Time { tick = tick.Add(time.Minute); return tick }),
		repository.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
}

func newService(repos *repository.Repositories, opts ...Option) *Service {
	opts = append([]Option{WithLogger(log.Discard()), WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(repos, opts...)
}

func seed(t *testing.T, repos *repository.Repositories) {
	t.Helper()
	ctx := context.Background()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	for i, typ := range []core.RevenueType{core.Salary, core.Freelance, core.Business} {
		_, err := repos.Revenues.Add(ctx, core.Revenue{Name: fmt.Sprintf("rev %d", i), Amount: 100 * float64(i+1), Type: typ})
		must(err)
	}
	for i := 0; i < 4; i++ {
		_, err := repos.Expenses.Add(ctx, core.Expense{Name: fmt.Sprintf("exp %d", i), Amount: 10, Category: "food", RevenueSourceID: "id-1"})
		must(err)
	}
	g, err := repos.Goals.Add(ctx, core.Goal{Title: "trip", TargetAmount: 500, CurrentAmount: 50, Currency: "MAD"})
	must(err)
	_, err = repos.Transactions.Add(ctx, core.SavingsTransaction{GoalID: g.ID, Amount: 50, Type: core.Deposit})
	must(err)
	_, err = repos.Savings.Add(ctx, core.Saving{Amount: 25, Description: "jar"})
	must(err)
	must(repos.Categories.Add(ctx, "gym"))
	must(repos.Settings.SaveSettings(ctx, core.AppSettings{Currency: "EUR", Language: "en"}))
	must(repos.Settings.SaveProfile(ctx, core.UserProfile{Name: "Sam", Cadence: core.CadenceWeekly}))
}

// stateJSON renders the collections of a snapshot without its timestamp.
func stateJSON(t *testing.T, doc *Document) []byte {
	t.Helper()
	c := *doc
	c.Timestamp = time.Time{}
	raw, err := Encode(&c)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	seed(t, repos)
	svc := newService(repos)

	before, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if before.Version != Version || before.Type != "" || !before.Timestamp.Equal(testNow) {
		t.Fatalf("header = %s %q %v", before.Version, before.Type, before.Timestamp)
	}
	if len(before.Revenues) != 3 || len(before.Expenses) != 4 || len(before.SavingsTransactions) != 1 {
		t.Fatalf("snapshot is missing data: %+v", before)
	}

	raw, err := Encode(before)
	if err != nil {
		t.Fatal(err)
	}

	fresh := newRepos(t)
	if _, err := fresh.Revenues.Add(ctx, core.Revenue{Name: "stale", Amount: 1, Type: core.Other}); err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	restoreSvc := newService(fresh)
	if err := restoreSvc.Restore(ctx, decoded); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	after, err := restoreSvc.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(stateJSON(t, before), stateJSON(t, after)) {
		t.Fatalf("round trip mismatch:\n%s\nvs\n%s", stateJSON(t, before), stateJSON(t, after))
	}
	if got, ok := repos.Settings.LastBackupTime(ctx); !ok || !got.Equal(testNow) {
		t.Fatalf("last backup time = %v, %v", got, ok)
	}
}

func TestRestoreLegacyDocumentDefaultsMissingFields(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	seed(t, repos)

	doc, err := Decode([]byte(`{"revenues":[{"id":"r","name":"old","amount":10,"type":"other","remainingAmount":4}],"version":"1.0.0"}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := newService(repos).Restore(ctx, doc); err != nil {
		t.Fatal(err)
	}

	if revs := repos.Revenues.GetAll(ctx); len(revs) != 1 || revs[0].RemainingAmount != 4 {
		t.Fatalf("revenues = %+v", revs)
	}
	if n := len(repos.Goals.GetAll(ctx)) + len(repos.Expenses.GetAll(ctx)) + len(repos.Savings.GetAll(ctx)) + len(repos.Transactions.GetAll(ctx)); n != 0 {
		t.Fatalf("missing collections should restore empty, %d records left", n)
	}
	if got := repos.Settings.GetSettings(ctx); got != core.DefaultSettings() {
		t.Fatalf("settings = %+v", got)
	}
	if got := repos.Settings.GetProfile(ctx); got != core.DefaultProfile() {
		t.Fatalf("profile = %+v", got)
	}
	if got := repos.Categories.List(ctx); len(got) != len(core.FixedCategories) {
		t.Fatalf("categories = %v", got)
	}
}

func TestRestoreDedupesSalary(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	doc := &Document{Revenues: []core.Revenue{
		{ID: "a", Name: "old job", Amount: 1, Type: core.Salary},
		{ID: "b", Name: "gig", Amount: 1, Type: core.Freelance},
		{ID: "c", Name: "new job", Amount: 1, Type: core.Salary},
	}}
	if err := newService(repos).Restore(ctx, doc); err != nil {
		t.Fatal(err)
	}
	revs := repos.Revenues.GetAll(ctx)
	if len(revs) != 2 || revs[0].ID != "b" || revs[1].ID != "c" {
		t.Fatalf("revenues = %+v", revs)
	}
}

func TestRestoreNilDocument(t *testing.T) {
	if err := newService(newRepos(t)).Restore(context.Background(), nil); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("err = %v", err)
	}
}

func TestSnapshotMinimal(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	seed(t, repos)

	doc, err := newService(repos).SnapshotMinimal(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Type != TypeMinimal || !doc.IsMinimal() {
		t.Fatalf("type = %q", doc.Type)
	}
	if len(doc.Revenues) != 2 || doc.Revenues[0].ID != "id-2" || doc.Revenues[1].ID != "id-3" {
		t.Fatalf("revenues = %+v", doc.Revenues)
	}
	if len(doc.Expenses) != 2 || doc.Expenses[1].Name != "exp 3" {
		t.Fatalf("expenses = %+v", doc.Expenses)
	}
	if len(doc.Goals) != 1 || doc.Settings.Currency != "EUR" || doc.UserProfile.Name != "Sam" {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.Savings != nil || doc.SavingsTransactions != nil || doc.Categories != nil {
		t.Fatal("minimal snapshot carries more than it should")
	}
}

func TestRestoreMinimalMerges(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	seed(t, repos)

	doc := &Document{
		Type: TypeMinimal,
		Revenues: []core.Revenue{
			{ID: "id-2", Name: "renamed", Amount: 999, Type: core.Freelance, RemainingAmount: 999},
			{ID: "new", Name: "bonus", Amount: 5, Type: core.Other, RemainingAmount: 5},
		},
		Goals:       []core.Goal{{ID: "g2", Title: "car", TargetAmount: 1, Status: core.GoalActive}},
		Settings:    &core.AppSettings{Currency: "USD", Language: "fr"},
		UserProfile: &core.UserProfile{Name: "Alex"},
	}
	if err := newService(repos).Restore(ctx, doc); err != nil {
		t.Fatal(err)
	}

	revs := repos.Revenues.GetAll(ctx)
	if len(revs) != 4 {
		t.Fatalf("revenues = %+v", revs)
	}
	if r, _ := repos.Revenues.Get(ctx, "id-2"); r.Name != "renamed" || r.Amount != 999 {
		t.Fatalf("id-2 = %+v", r)
	}
	if n := len(repos.Expenses.GetAll(ctx)); n != 4 {
		t.Fatalf("expenses should be untouched, got %d", n)
	}
	if n := len(repos.Transactions.GetAll(ctx)); n != 1 {
		t.Fatalf("transactions should be untouched, got %d", n)
	}
	if n := len(repos.Savings.GetAll(ctx)); n != 1 {
		t.Fatalf("savings should be untouched, got %d", n)
	}
	if goals := repos.Goals.GetAll(ctx); len(goals) != 1 || goals[0].ID != "g2" {
		t.Fatalf("goals = %+v", goals)
	}
	if got := repos.Settings.GetSettings(ctx).Currency; got != "USD" {
		t.Fatalf("currency = %s", got)
	}
	if got := repos.Categories.List(ctx); got[len(got)-1] != "gym" {
		t.Fatalf("categories should be untouched: %v", got)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrInvalidDocument},
		{"null", "null", ErrInvalidDocument},
		{"array", "[]", ErrInvalidDocument},
		{"malformed", "{", ErrInvalidDocument},
		{"unknown type", `{"type":"partial"}`, ErrInvalidDocument},
		{"future major", `{"version":"2.0.0"}`, ErrUnsupportedVersion},
		{"same major", `{"version":"1.4.2"}`, nil},
		{"no version", `{}`, nil},
		{"minimal", `{"type":"minimal","version":"1.0.0"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.input))
			if tt.wantErr == nil {
				if err != nil || doc == nil {
					t.Fatalf("Decode = %v, %v", doc, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStatusEvents(t *testing.T) {
	ctx := context.Background()
	notifier := NewStatusNotifier()
	var mu sync.Mutex
	var events []State
	unsubscribe := notifier.Subscribe(func(s Status) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, s.State)
	})

	svc := newService(newRepos(t), WithStatusNotifier(notifier))
	if _, err := svc.Snapshot(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.Restore(ctx, &Document{UserProfile: &core.UserProfile{Cadence: "daily"}}); err == nil {
		t.Fatal("invalid profile should fail the restore")
	}
	unsubscribe()
	if _, err := svc.Snapshot(ctx); err != nil {
		t.Fatal(err)
	}

	want := []State{StateStarted, StateSucceeded, StateStarted, StateFailed}
	if len(events) != len(want) {
		t.Fatalf("events = %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestUnsubscribeInsideCallback(t *testing.T) {
	n := NewStatusNotifier()
	calls := 0
	var unsubscribe func()
	unsubscribe = n.Subscribe(func(Status) {
		calls++
		unsubscribe()
	})
	n.Publish(Status{State: StateStarted})
	n.Publish(Status{State: StateStarted})
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}
