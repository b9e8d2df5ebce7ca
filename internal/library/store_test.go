package library

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChamsBouzaiene/promptstitch/internal/events"
	"github.com/ChamsBouzaiene/promptstitch/internal/gate"
	"github.com/ChamsBouzaiene/promptstitch/internal/pipeline"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
	"github.com/ChamsBouzaiene/promptstitch/internal/version"
)

func newTestStore(t *testing.T, sink events.Sink) *Store {
	t.Helper()
	if sink == nil {
		sink = events.NopSink{}
	}

	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "library.db"), sink)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testOutput(tier schema.Tier, task string) *pipeline.PromptOutput {
	rec := schema.Defaults()
	rec.TaskDescription = task
	rec.ComplexityTier = tier

	return &pipeline.PromptOutput{
		Prompt:   "You are a Expert Assistant.\n\n[OBJECTIVE]\nYour objective is to " + task + ".",
		Metadata: version.NewGenerator().Version(rec),
		Input:    rec,
	}
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	saved, err := store.Save(ctx, "alice", "Board update", testOutput(schema.TierPro, "Draft the board update"))
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" {
		t.Fatal("saved prompt has no id")
	}

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Board update" || got.UserID != "alice" {
		t.Errorf("unexpected row: %+v", got)
	}
	if got.Input.TaskDescription != "Draft the board update" {
		t.Errorf("input record did not survive: %q", got.Input.TaskDescription)
	}
	if got.Tier != schema.TierPro {
		t.Errorf("expected pro tier, got %q", got.Tier)
	}
}

func TestList_NewestFirstPerUser(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Save(ctx, "alice", fmt.Sprintf("Prompt %d", i), testOutput(schema.TierPro, "Write the release announcement")); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.Save(ctx, "bob", "Bob's prompt", testOutput(schema.TierPro, "Write the rollback plan")); err != nil {
		t.Fatal(err)
	}

	prompts, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(prompts) != 3 {
		t.Fatalf("expected 3 prompts for alice, got %d", len(prompts))
	}
	for _, p := range prompts {
		if p.UserID != "alice" {
			t.Errorf("listing leaked another user's prompt: %+v", p)
		}
	}
}

func TestSave_EnforcesSavedPromptCap(t *testing.T) {
	rec := &events.Recorder{}
	store := newTestStore(t, rec)
	ctx := context.Background()

	limit := gate.QuotaLimit(schema.TierFree, gate.QuotaSavedPrompts)
	for i := 0; i < limit; i++ {
		if _, err := store.Save(ctx, "carol", fmt.Sprintf("Saved %d", i), testOutput(schema.TierFree, "Summarize the meeting notes")); err != nil {
			t.Fatal(err)
		}
	}

	_, err := store.Save(ctx, "carol", "One too many", testOutput(schema.TierFree, "Summarize the meeting notes"))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if len(rec.ByKind(events.KindQuotaExceeded)) != 1 {
		t.Error("expected a quota event")
	}

	// Another user is unaffected.
	if _, err := store.Save(ctx, "dave", "First save", testOutput(schema.TierFree, "Summarize the meeting notes")); err != nil {
		t.Errorf("other users must not share the cap: %v", err)
	}
}

func TestSave_EnforcesPromptLength(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	out := testOutput(schema.TierFree, "Write the onboarding guide")
	out.Prompt = strings.Repeat("p", gate.QuotaLimit(schema.TierFree, gate.QuotaMaxPromptLength)+1)

	_, err := store.Save(ctx, "erin", "Too long", out)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	// The same prompt is fine on a tier with a larger cap.
	out.Input.ComplexityTier = schema.TierPro
	if _, err := store.Save(ctx, "erin", "Long but allowed", out); err != nil {
		t.Errorf("pro tier should accept this length: %v", err)
	}
}

func TestUsageCounting(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.RecordGeneration(ctx, "frank"); err != nil {
			t.Fatal(err)
		}
	}

	count, err := store.Usage(ctx, "frank", gate.QuotaPromptsPerDay)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("expected 3 generations recorded, got %d", count)
	}

	ok, err := store.CheckQuota(ctx, "frank", schema.TierFree, gate.QuotaPromptsPerDay)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("3 of 10 should leave quota")
	}

	status, err := store.QuotaStatus(ctx, "frank", schema.TierFree, gate.QuotaPromptsPerDay)
	if err != nil {
		t.Fatal(err)
	}
	if status.CurrentUsage != 3 || status.Limit != 10 || status.IsUnlimited {
		t.Errorf("unexpected status %+v", status)
	}
}

func TestCheckQuota_UnlimitedTier(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	ok, err := store.CheckQuota(ctx, "grace", schema.TierEnterprise, gate.QuotaPromptsPerDay)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("enterprise quotas are unlimited")
	}

	status, err := store.QuotaStatus(ctx, "grace", schema.TierEnterprise, gate.QuotaSavedPrompts)
	if err != nil {
		t.Fatal(err)
	}
	if !status.IsUnlimited {
		t.Error("expected unlimited status")
	}
}

func TestSearch_ScopedToUser(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	if _, err := store.Save(ctx, "alice", "Kubernetes migration plan", testOutput(schema.TierPro, "Plan the kubernetes migration")); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(ctx, "bob", "Kubernetes cost report", testOutput(schema.TierPro, "Report on kubernetes spend")); err != nil {
		t.Fatal(err)
	}

	results, err := store.Search("kubernetes", "alice", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 hit for alice, got %d", len(results))
	}
	if results[0].Title != "Kubernetes migration plan" {
		t.Errorf("unexpected hit %+v", results[0])
	}
}

func TestDelete_RemovesFromStoreAndIndex(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	saved, err := store.Save(ctx, "alice", "Disposable draft", testOutput(schema.TierPro, "Draft something disposable"))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, saved.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Get(ctx, saved.ID); err == nil {
		t.Error("deleted prompt still readable")
	}
	results, err := store.Search("disposable", "alice", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("deleted prompt still indexed: %+v", results)
	}
}
