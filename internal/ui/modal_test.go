package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestConfirmer_NotRunning(t *testing.T) {
	var c Confirmer
	if _, err := c.Confirm(context.Background(), "delete?"); !errors.Is(err, errNotRunning) {
		t.Fatalf("Confirm err = %v, want errNotRunning", err)
	}
}

func TestConfirmer_RoundTripThroughModal(t *testing.T) {
	keys := DefaultKeyMap()
	requests := make(chan confirmRequestMsg, 1)

	var c Confirmer
	c.Attach(func(msg tea.Msg) { requests <- msg.(confirmRequestMsg) })

	type result struct {
		ok  bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		ok, err := c.Confirm(context.Background(), "Hapus berita?")
		done <- result{ok, err}
	}()

	var req confirmRequestMsg
	select {
	case req = <-requests:
	case <-time.After(time.Second):
		t.Fatal("no confirm request delivered")
	}
	if req.prompt != "Hapus berita?" {
		t.Fatalf("prompt = %q, want %q", req.prompt, "Hapus berita?")
	}

	modal := newConfirmModal(req, "Ya", "Batal")
	if _, _, closed := modal.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, keys); closed {
		t.Fatalf("unrelated key closed the dialog")
	}
	if _, _, closed := modal.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, keys); !closed {
		t.Fatalf("y did not close the dialog")
	}

	select {
	case r := <-done:
		if !r.ok || r.err != nil {
			t.Fatalf("Confirm = %v, %v, want true, nil", r.ok, r.err)
		}
	case <-time.After(time.Second):
		t.Fatal("Confirm did not return")
	}
}

func TestConfirmer_Decline(t *testing.T) {
	keys := DefaultKeyMap()
	var c Confirmer
	c.Attach(func(msg tea.Msg) {
		req := msg.(confirmRequestMsg)
		m := newConfirmModal(req, "yes", "no")
		m.Update(tea.KeyMsg{Type: tea.KeyEsc}, keys)
		// a second answer must not block
		m.answer(true)
	})

	ok, err := c.Confirm(context.Background(), "delete?")
	if ok || err != nil {
		t.Fatalf("Confirm = %v, %v, want false, nil", ok, err)
	}
}

func TestConfirmer_ContextCancelled(t *testing.T) {
	var c Confirmer
	c.Attach(func(tea.Msg) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Confirm(ctx, "delete?"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Confirm err = %v, want context.Canceled", err)
	}
}
