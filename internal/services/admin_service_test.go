package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-report-bot/internal/catalog"
	"github.com/tbourn/go-report-bot/internal/fingerprint"
	"github.com/tbourn/go-report-bot/internal/store"
)

func newAdminService(t *testing.T, fs *fakeStore) *AdminService {
	t.Helper()
	cat := catalog.New(fs, testSheets(), 300*time.Second, zerolog.Nop())
	return NewAdminService(fs, cat, testSheets())
}

func TestParseHideTarget(t *testing.T) {
	cases := map[string]struct {
		want    HideTarget
		wantErr bool
	}{
		"123":      {want: HideTarget{Model: "123", Kind: HideModel}},
		"123_g456": {want: HideTarget{Model: "123", Kind: HideGroup, Key: "456"}},
		"123_o789": {want: HideTarget{Model: "123", Kind: HideOperation, Key: "789"}},
		"123_x456": {wantErr: true},
		"":         {wantErr: true},
		"_g456":    {wantErr: true},
	}
	for payload, tc := range cases {
		got, err := ParseHideTarget(payload)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseHideTarget(%q): expected error, got %+v", payload, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHideTarget(%q): %v", payload, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHideTarget(%q) = %+v; want %+v", payload, got, tc.want)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	fs := newFakeStore()
	fs.data["Настройки!A2:H"] = [][]string{
		{"Администратор", "42"},
		{"Администратор", "100"},
		{"Интервал уведомлений", "1;2;3;4;5_18:00_20:00", "Пора заполнить отчет!"},
	}
	svc := newAdminService(t, fs)
	if err := svc.Catalog.Refresh(context.Background(), true, catalog.TableSettings); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if !svc.IsAdmin(42) || !svc.IsAdmin(100) {
		t.Error("listed admin not recognized")
	}
	if svc.IsAdmin(7) {
		t.Error("unlisted chat recognized as admin")
	}
}

func TestHide_ModelWide(t *testing.T) {
	fs := newFakeStore()
	fs.data["Операции!U2:AB"] = [][]string{
		{"M", "G1", "Op1"},
		{"M", "G2", "Op2"},
		{"X", "G1", "Op3"},
	}
	svc := newAdminService(t, fs)

	labels, err := svc.Hide(context.Background(), HideTarget{Model: fingerprint.Of("M"), Kind: HideModel})
	if err != nil {
		t.Fatalf("Hide: %v", err)
	}
	if labels.Model != "M" || labels.Rows != 2 || labels.Detail != "" {
		t.Fatalf("labels = %+v", labels)
	}
	ups := fs.updates["Операции"]
	if len(ups) != 2 {
		t.Fatalf("updates = %v", ups)
	}
	// Detail range starts at U2: flag column is AB (28), rows 2 and 3.
	for i, wantRow := range []int{2, 3} {
		if ups[i].Row != wantRow || ups[i].Col != 28 || ups[i].Value != "1" {
			t.Errorf("update %d = %+v; want row %d col 28 value 1", i, ups[i], wantRow)
		}
	}
}

func TestHide_GroupAndOperation(t *testing.T) {
	fs := newFakeStore()
	fs.data["Операции!U2:AB"] = [][]string{
		{"M", "G1", "Op1"},
		{"M", "G2", "Op2"},
	}
	svc := newAdminService(t, fs)

	labels, err := svc.Hide(context.Background(), HideTarget{
		Model: fingerprint.Of("M"), Kind: HideGroup, Key: fingerprint.Of("G1"),
	})
	if err != nil {
		t.Fatalf("Hide group: %v", err)
	}
	if labels.Detail != "G1" || labels.Rows != 1 {
		t.Fatalf("labels = %+v", labels)
	}
	if ups := fs.updates["Операции"]; len(ups) != 1 || ups[0].Row != 2 {
		t.Fatalf("updates = %v", ups)
	}

	fs.updates = map[string][]store.CellUpdate{}
	labels, err = svc.Hide(context.Background(), HideTarget{
		Model: fingerprint.Of("M"), Kind: HideOperation, Key: fingerprint.Of("Op2"),
	})
	if err != nil {
		t.Fatalf("Hide operation: %v", err)
	}
	if labels.Detail != "Op2" || labels.Rows != 1 {
		t.Fatalf("labels = %+v", labels)
	}
	if ups := fs.updates["Операции"]; len(ups) != 1 || ups[0].Row != 3 {
		t.Fatalf("updates = %v", ups)
	}
}

func TestHide_NoMatch(t *testing.T) {
	fs := newFakeStore()
	fs.data["Операции!U2:AB"] = [][]string{{"M", "G1", "Op1"}}
	svc := newAdminService(t, fs)

	_, err := svc.Hide(context.Background(), HideTarget{Model: "999999", Kind: HideModel})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("err = %v; want ErrRecordNotFound", err)
	}
}
