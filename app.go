package nanoui

import (
	"os"
	"strings"
	"sync"

	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

// NSApplicationActivationPolicyRegular.
const activationPolicyRegular = 0

// NSApplicationTerminateReply.
const (
	terminateCancel = 0
	terminateNow    = 1
)

// Application is the process-wide application bridge. Obtain it with
// App; there is exactly one per process, mirroring NSApplication.
type Application struct {
	peer     objc.ID
	delegate objc.ID

	// OnPrepare runs before the application finishes launching, while
	// windows are still unrealized.
	OnPrepare func()
	// OnInitialise runs once launching completed.
	OnInitialise func()
	// OnResume and OnSuspend track the application gaining and losing
	// the active state.
	OnResume  func()
	OnSuspend func()
	// OnShouldTerminate is consulted when termination is requested.
	// Return false to veto. Termination proceeds when the hook is nil.
	OnShouldTerminate func() bool
	// OnShutdown runs right before the process-level run loop winds down.
	OnShutdown func()
}

var appDelegateClass = sync.OnceValue(func() *objc.ClassDef[Application] {
	def := objc.NewClassDef[Application]("NanouiAppDelegate", "NSObject")
	def.AddProtocol("NSApplicationDelegate", true)

	def.AddNotificationMethod("applicationWillFinishLaunching:", func(a *Application, _ objc.ID) {
		if a.OnPrepare != nil {
			a.OnPrepare()
		}
	})
	def.AddNotificationMethod("applicationDidFinishLaunching:", func(a *Application, _ objc.ID) {
		if a.OnInitialise != nil {
			a.OnInitialise()
		}
	})
	def.AddNotificationMethod("applicationDidBecomeActive:", func(a *Application, _ objc.ID) {
		if a.OnResume != nil {
			a.OnResume()
		}
	})
	def.AddNotificationMethod("applicationDidResignActive:", func(a *Application, _ objc.ID) {
		if a.OnSuspend != nil {
			a.OnSuspend()
		}
	})
	def.AddUintObjectMethod("applicationShouldTerminate:", terminateNow, func(a *Application, _ objc.ID) uint {
		if a.OnShouldTerminate != nil && !a.OnShouldTerminate() {
			return terminateCancel
		}
		return terminateNow
	})
	def.AddNotificationMethod("applicationWillTerminate:", func(a *Application, _ objc.ID) {
		if a.OnShutdown != nil {
			a.OnShutdown()
		}
	})

	def.Register()
	return def
})

var (
	appOnce sync.Once
	app     *Application
	appErr  error
)

// App returns the shared application, creating it and installing the
// delegate on first use.
func App() (*Application, error) {
	appOnce.Do(func() {
		if appErr = Init(); appErr != nil {
			return
		}
		a := &Application{}
		a.peer = objc.ClassProperty("NSApplication", "sharedApplication")
		if a.peer == objc.Nil {
			appErr = ErrNotLoaded
			return
		}
		a.delegate = appDelegateClass().NewInstance(a)
		objc.CallVoid(a.delegate, "init")
		objc.ICall(a.peer, "setDelegate:", a.delegate)
		app = a
	})
	return app, appErr
}

// Run makes the application a regular foreground app, installs the
// main menu and enters the event loop. It blocks until Quit, returning
// on the goroutine that called it.
func (a *Application) Run() {
	objc.CallVoid(a.peer, "setActivationPolicy:", activationPolicyRegular)
	installMainMenu(a.peer)
	objc.CallVoid(a.peer, "activateIgnoringOtherApps:", true)
	objc.CallVoid(a.peer, "run")
}

// IsRunning reports whether the event loop is live.
func (a *Application) IsRunning() bool {
	return objc.Call[bool](a.peer, "isRunning")
}

// Quit requests termination. The delegate may veto through
// OnShouldTerminate; when it does not, the run loop stops and Run
// returns.
func (a *Application) Quit() {
	objc.ICall(a.peer, "terminate:", a.peer)
}

// Native returns the NSApplication handle.
func (a *Application) Native() uintptr { return uintptr(a.peer) }

// Args returns the process arguments after the program name.
func Args() []string {
	if len(os.Args) <= 1 {
		return nil
	}
	return os.Args[1:]
}

// ArgsString returns the process arguments joined with single spaces,
// the form legacy command-line consumers expect.
func ArgsString() string {
	return strings.Join(Args(), " ")
}
