package notify

import (
	"testing"
	"time"
)

func TestCenter_PendingResolvesInPlace(t *testing.T) {
	c := NewCenter(time.Second)
	id := c.Pending("Menyimpan...")
	c.Success(id, "Tersimpan")

	toasts := c.Toasts()
	if len(toasts) != 1 {
		t.Fatalf("len(toasts) = %d, want 1", len(toasts))
	}
	if toasts[0].ID != id || toasts[0].Level != LevelSuccess || toasts[0].Message != "Tersimpan" {
		t.Fatalf("toast = %#v, want resolved success", toasts[0])
	}
}

func TestCenter_ResolvedToastsExpirePendingStay(t *testing.T) {
	now := time.Unix(100, 0)
	c := NewCenter(2 * time.Second)
	c.now = func() time.Time { return now }

	pending := c.Pending("upload")
	failed := c.Pending("delete")
	c.Error(failed, "Gagal menghapus")

	now = now.Add(3 * time.Second)
	toasts := c.Toasts()
	if len(toasts) != 1 || toasts[0].ID != pending {
		t.Fatalf("toasts = %#v, want only the pending toast", toasts)
	}
}

func TestCenter_UnknownIDOpensToast(t *testing.T) {
	c := NewCenter(0)
	c.Error("", "Email atau password salah.")
	c.Success("missing", "ok")
	toasts := c.Toasts()
	if len(toasts) != 2 || toasts[0].Level != LevelError || toasts[1].ID != "missing" {
		t.Fatalf("toasts = %#v", toasts)
	}
}

func TestCenter_OnChangeAndDismiss(t *testing.T) {
	c := NewCenter(0)
	calls := 0
	cancel := c.OnChange(func() { calls++ })
	id := c.Pending("x")
	c.Dismiss(id)
	cancel()
	c.Pending("y")
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if got := len(c.Toasts()); got != 1 {
		t.Fatalf("len(toasts) = %d, want 1", got)
	}
}

func TestLevelString(t *testing.T) {
	if LevelPending.String() != "pending" || LevelError.String() != "error" || Level(9).String() != "unknown" {
		t.Fatalf("Level.String mismatch")
	}
}
