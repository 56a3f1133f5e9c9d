package nanoui

import (
	"testing"
)

func TestMenuItemsAndTags(t *testing.T) {
	memRT(t)

	m := NewMenu("File")
	open := NewMenuItem("Open", "open:", "o")
	open.SetTag(42)
	m.AddItem(open)
	m.AddSeparator()
	m.AddItem(NewMenuItem("Quit", "terminate:", "q"))

	if got := m.Len(); got != 3 {
		t.Fatalf("menu length = %d", got)
	}
	if got := m.ItemWithTag(42); got == nil || got.Tag() != 42 {
		t.Fatal("tagged item not found")
	}
	if m.ItemWithTag(99) != nil {
		t.Fatal("phantom tag matched")
	}
	if m.Native() == 0 || open.Native() == 0 {
		t.Fatal("missing native handles")
	}
}

func TestSubmenuAttachment(t *testing.T) {
	memRT(t)

	bar := NewMenu("")
	holder := NewMenuItem("", "", "")
	sub := NewMenu("Edit")
	holder.SetSubmenu(sub)
	bar.AddItem(holder)

	if got := bar.Len(); got != 1 {
		t.Fatalf("bar length = %d", got)
	}
}
