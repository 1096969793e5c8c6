package annotations_test

import (
	"context"
	"errors"
	"testing"

	"cryptoscholar/internal/annotations"
	"cryptoscholar/internal/storage"
	"cryptoscholar/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

func TestPreferenceStore_Defaults(t *testing.T) {
	p := annotations.NewPreferenceStore(storage.NewMemoryKV())

	got := p.ReadingMode(context.Background())
	if got != annotations.DefaultReadingMode() {
		t.Errorf("ReadingMode() = %+v, want default", got)
	}
	if got.Color != "#ffff00" {
		t.Errorf("default color = %s, want #ffff00", got.Color)
	}
}

func TestPreferenceStore_SetReadingMode(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	p := annotations.NewPreferenceStore(kv)

	tests := []struct {
		name    string
		in      annotations.ReadingMode
		want    annotations.ReadingMode
		wantErr error
	}{
		{
			name: "enable with color",
			in:   annotations.ReadingMode{HighlightMode: true, Color: "#90ee90"},
			want: annotations.ReadingMode{HighlightMode: true, Color: "#90ee90"},
		},
		{
			name: "empty color keeps current",
			in:   annotations.ReadingMode{HighlightMode: false},
			want: annotations.ReadingMode{HighlightMode: false, Color: "#90ee90"},
		},
		{
			name:    "unknown color",
			in:      annotations.ReadingMode{HighlightMode: true, Color: "#000000"},
			want:    annotations.ReadingMode{HighlightMode: false, Color: "#90ee90"},
			wantErr: annotations.ErrUnknownColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.SetReadingMode(ctx, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetReadingMode() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SetReadingMode() = %+v, want %+v", got, tt.want)
			}
		})
	}

	reloaded := annotations.NewPreferenceStore(kv).ReadingMode(ctx)
	if reloaded.Color != "#90ee90" {
		t.Errorf("reloaded color = %s, want #90ee90", reloaded.Color)
	}
}

func TestPreferenceStore_IgnoresUnknownStoredColor(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	_ = kv.Set(ctx, annotations.ReadingModeKey, `{"highlightMode":true,"color":"purple"}`)

	got := annotations.NewPreferenceStore(kv).ReadingMode(ctx)
	want := annotations.ReadingMode{HighlightMode: true, Color: "#ffff00"}
	if got != want {
		t.Errorf("ReadingMode() = %+v, want %+v", got, want)
	}
}

func TestPreferenceStore_ReadErrorRefusesChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kv := mocks.NewMockKVStore(ctrl)
	kv.EXPECT().Get(gomock.Any(), annotations.ReadingModeKey).Return("", errors.New("database is locked")).Times(2)

	ctx := context.Background()
	p := annotations.NewPreferenceStore(kv)

	if got := p.ReadingMode(ctx); got != annotations.DefaultReadingMode() {
		t.Errorf("ReadingMode() = %+v, want default", got)
	}
	_, err := p.SetReadingMode(ctx, annotations.ReadingMode{HighlightMode: true})
	if !errors.Is(err, annotations.ErrUnavailable) {
		t.Errorf("SetReadingMode() error = %v, want ErrUnavailable", err)
	}
}
