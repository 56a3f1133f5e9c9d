package nanoui

import (
	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

// Tag stamped on the quit item so repeated installs can find it.
const quitItemTag = 128932

// Menu wraps an NSMenu.
type Menu struct {
	peer objc.ID
}

// MenuItem wraps an NSMenuItem.
type MenuItem struct {
	peer objc.ID
}

// NewMenu creates a titled menu.
func NewMenu(title string) *Menu {
	peer := objc.CallClass[objc.ID]("NSMenu", "alloc")
	objc.CallVoid(peer, "initWithTitle:", title)
	return &Menu{peer: peer}
}

// AddItem appends item to the menu.
func (m *Menu) AddItem(item *MenuItem) {
	objc.ICall(m.peer, "addItem:", item.peer)
}

// AddSeparator appends a separator line.
func (m *Menu) AddSeparator() {
	sep := objc.ClassProperty("NSMenuItem", "separatorItem")
	objc.ICall(m.peer, "addItem:", sep)
}

// Len returns the number of items, separators included.
func (m *Menu) Len() int {
	return objc.Call[int](m.peer, "numberOfItems")
}

// ItemWithTag finds the item carrying tag, or nil.
func (m *Menu) ItemWithTag(tag int) *MenuItem {
	item := objc.Call[objc.ID](m.peer, "itemWithTag:", tag)
	if item == objc.Nil {
		return nil
	}
	return &MenuItem{peer: item}
}

// Native returns the NSMenu handle.
func (m *Menu) Native() uintptr { return uintptr(m.peer) }

// NewMenuItem creates an item that sends action (an Objective-C
// selector name such as "terminate:") with the given key equivalent.
func NewMenuItem(title, action, key string) *MenuItem {
	peer := objc.CallClass[objc.ID]("NSMenuItem", "alloc")
	objc.CallVoid(peer, "initWithTitle:action:keyEquivalent:",
		title, objc.Sel(action), key)
	return &MenuItem{peer: peer}
}

// SetTag stamps an identifying tag on the item.
func (mi *MenuItem) SetTag(tag int) {
	objc.CallVoid(mi.peer, "setTag:", tag)
}

// Tag returns the item's tag.
func (mi *MenuItem) Tag() int {
	return objc.Call[int](mi.peer, "tag")
}

// SetSubmenu attaches sub to the item.
func (mi *MenuItem) SetSubmenu(sub *Menu) {
	objc.ICall(mi.peer, "setSubmenu:", sub.peer)
}

// Native returns the NSMenuItem handle.
func (mi *MenuItem) Native() uintptr { return uintptr(mi.peer) }

// installMainMenu gives the application a minimal main menu whose app
// submenu carries a Quit item wired to terminate:. Installing twice is
// a no-op; the quit item's tag marks a menu as already ours.
func installMainMenu(appPeer objc.ID) {
	if existing := objc.Call[objc.ID](appPeer, "mainMenu"); existing != objc.Nil {
		menu := &Menu{peer: existing}
		if menu.ItemWithTag(quitItemTag) != nil {
			return
		}
	}

	appMenu := NewMenu("")
	quit := NewMenuItem("Quit", "terminate:", "q")
	quit.SetTag(quitItemTag)
	appMenu.AddItem(quit)

	holder := NewMenuItem("", "", "")
	holder.SetTag(quitItemTag)
	holder.SetSubmenu(appMenu)

	bar := NewMenu("")
	bar.AddItem(holder)
	objc.ICall(appPeer, "setMainMenu:", bar.peer)
}
