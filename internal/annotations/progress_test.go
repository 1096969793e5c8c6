package annotations_test

import (
	"context"
	"errors"
	"testing"

	"cryptoscholar/internal/annotations"
	"cryptoscholar/internal/storage"
	"cryptoscholar/internal/storage/mocks"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"
)

func TestProgressStore_ToggleCompleted(t *testing.T) {
	ctx := context.Background()
	p := annotations.NewProgressStore(storage.NewMemoryKV())

	if p.IsCompleted(ctx, "bitcoin") {
		t.Fatal("IsCompleted() = true for unknown slug")
	}

	for i, want := range []bool{true, false, true} {
		got, err := p.ToggleCompleted(ctx, "bitcoin")
		if err != nil {
			t.Fatalf("ToggleCompleted() #%d error = %v", i, err)
		}
		if got != want {
			t.Errorf("ToggleCompleted() #%d = %v, want %v", i, got, want)
		}
	}
	if !p.IsCompleted(ctx, "bitcoin") {
		t.Error("IsCompleted() = false after odd number of toggles")
	}
	if p.IsCompleted(ctx, "ether") {
		t.Error("toggling one slug affected another")
	}
}

func TestProgressStore_ToggleSection(t *testing.T) {
	ctx := context.Background()
	p := annotations.NewProgressStore(storage.NewMemoryKV())

	_, _ = p.ToggleSection(ctx, "bitcoin", "overview")
	_, _ = p.ToggleSection(ctx, "bitcoin", "risks")
	done, err := p.ToggleSection(ctx, "bitcoin", "overview")
	if err != nil {
		t.Fatalf("ToggleSection() error = %v", err)
	}
	if done {
		t.Error("ToggleSection() second toggle = true, want false")
	}

	got := p.Get(ctx, "bitcoin")
	want := annotations.PageProgress{CompletedSections: []string{"risks"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
	if got.PageCompleted {
		t.Error("section toggles must not change page completion")
	}
}

func TestProgressStore_PersistsLegacyFormat(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	_ = kv.Set(ctx, annotations.ProgressKey, `{"bitcoin":{"pageCompleted":true},"ether":{"pageCompleted":false,"completedSections":["a","b"]}}`)

	p := annotations.NewProgressStore(kv)
	want := map[string]annotations.PageProgress{
		"bitcoin": {PageCompleted: true, CompletedSections: []string{}},
		"ether":   {CompletedSections: []string{"a", "b"}},
	}
	if diff := cmp.Diff(want, p.All(ctx)); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}

	if err := p.SetCompleted(ctx, "ether", true); err != nil {
		t.Fatalf("SetCompleted() error = %v", err)
	}
	if !annotations.NewProgressStore(kv).IsCompleted(ctx, "ether") {
		t.Error("SetCompleted() was not persisted")
	}
}

func TestProgressStore_SaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kv := mocks.NewMockKVStore(ctrl)
	kv.EXPECT().Get(gomock.Any(), annotations.ProgressKey).Return("", storage.ErrNotFound)
	kv.EXPECT().Set(gomock.Any(), annotations.ProgressKey, gomock.Any()).Return(errors.New("read-only"))

	p := annotations.NewProgressStore(kv)
	done, err := p.ToggleCompleted(context.Background(), "bitcoin")
	if !errors.Is(err, annotations.ErrPersistence) {
		t.Fatalf("ToggleCompleted() error = %v, want ErrPersistence", err)
	}
	if !done || !p.IsCompleted(context.Background(), "bitcoin") {
		t.Error("in-memory state should keep the toggle")
	}
}

func TestProgressStore_ReadErrorKeepsStoredProgress(t *testing.T) {
	ctx := context.Background()
	backing := storage.NewMemoryKV()
	if err := annotations.NewProgressStore(backing).SetCompleted(ctx, "bitcoin", true); err != nil {
		t.Fatalf("SetCompleted() seed error = %v", err)
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kv := mocks.NewMockKVStore(ctrl)
	gomock.InOrder(
		kv.EXPECT().Get(gomock.Any(), annotations.ProgressKey).Return("", errors.New("database is locked")),
		kv.EXPECT().Get(gomock.Any(), annotations.ProgressKey).DoAndReturn(backing.Get),
	)
	kv.EXPECT().Set(gomock.Any(), annotations.ProgressKey, gomock.Any()).DoAndReturn(backing.Set)

	p := annotations.NewProgressStore(kv)
	if _, err := p.ToggleCompleted(ctx, "ether"); !errors.Is(err, annotations.ErrUnavailable) {
		t.Fatalf("ToggleCompleted() error = %v, want ErrUnavailable", err)
	}
	if _, err := p.ToggleSection(ctx, "ether", "gas"); err != nil {
		t.Fatalf("ToggleSection() retry error = %v", err)
	}

	want := map[string]annotations.PageProgress{
		"bitcoin": {PageCompleted: true, CompletedSections: []string{}},
		"ether":   {CompletedSections: []string{"gas"}},
	}
	if diff := cmp.Diff(want, annotations.NewProgressStore(backing).All(ctx)); diff != "" {
		t.Errorf("stored progress mismatch (-want +got):\n%s", diff)
	}
}
