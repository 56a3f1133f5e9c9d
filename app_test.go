package nanoui

import (
	"testing"

	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

func TestApplicationIsSingleton(t *testing.T) {
	memRT(t)
	a, err := App()
	if err != nil {
		t.Fatal(err)
	}
	b, err := App()
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("App returned two applications")
	}
	if a.Native() == 0 {
		t.Fatal("application has no native peer")
	}
}

func TestApplicationRunQuitAndVeto(t *testing.T) {
	memRT(t)
	a, err := App()
	if err != nil {
		t.Fatal(err)
	}

	var events []string
	vetoes := 0
	a.OnPrepare = func() { events = append(events, "prepare") }
	a.OnInitialise = func() {
		events = append(events, "init")
		// First quit is vetoed, second goes through.
		PostMessage(a.Quit)
		PostMessage(a.Quit)
	}
	a.OnShouldTerminate = func() bool {
		vetoes++
		return vetoes > 1
	}
	a.OnShutdown = func() { events = append(events, "shutdown") }
	defer func() {
		a.OnPrepare, a.OnInitialise, a.OnShouldTerminate, a.OnShutdown = nil, nil, nil, nil
	}()

	a.Run()

	if vetoes != 2 {
		t.Fatalf("termination asked %d times, want 2", vetoes)
	}
	want := []string{"prepare", "init", "shutdown"}
	if len(events) != len(want) {
		t.Fatalf("events = %v", events)
	}
	for i, e := range events {
		if e != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestRunInstallsQuitMenu(t *testing.T) {
	memRT(t)
	a, err := App()
	if err != nil {
		t.Fatal(err)
	}
	a.OnInitialise = func() { PostMessage(a.Quit) }
	defer func() { a.OnInitialise = nil }()
	a.Run()

	mainMenu := objc.Call[objc.ID](objc.ID(a.Native()), "mainMenu")
	if mainMenu == objc.Nil {
		t.Fatal("no main menu after Run")
	}
	bar := &Menu{peer: mainMenu}
	holder := bar.ItemWithTag(quitItemTag)
	if holder == nil {
		t.Fatal("quit holder item missing from menu bar")
	}

	// Running again must not stack a second quit item.
	a.OnInitialise = func() { PostMessage(a.Quit) }
	a.Run()
	if got := bar.Len(); got != 1 {
		t.Fatalf("menu bar has %d items after second Run", got)
	}
}

func TestArgs(t *testing.T) {
	if got := ArgsString(); got != "" && len(Args()) == 0 {
		t.Fatalf("ArgsString %q without Args", got)
	}
}
