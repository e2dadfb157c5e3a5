package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	reportError(ctx context.Context, err error)

	Signup(ctx context.Context) error
	Signin(ctx context.Context) error
	Logout(ctx context.Context) error

	Profile(ctx context.Context) error
	SetProfile(ctx context.Context) error
	Avatar(ctx context.Context) error

	Goals(ctx context.Context) error
	AddGoal(ctx context.Context) error
	AddActivity(ctx context.Context) error
	Activities(ctx context.Context) error
	Recompute(ctx context.Context) error
	DeleteGoal(ctx context.Context) error
	Report(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: signup, signin, exit"
	helpSignedIn  = "Available commands: profile, setprofile, avatar, (g)oals, addgoal, addactivity, (a)ctivities, recompute, deletegoal, report, logout, exit"
)

// runREPL reads commands line by line from r and dispatches them to a.
//
// The prompt shows the current status (from statusFn). Signed out, only
// help, signup, signin and exit are accepted; everything else asks the user
// to sign in first. Command errors are handed to a.reportError and the loop
// carries on. The loop exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fit%s> ", statusFn()))
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var run func(context.Context) error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "signup":
			run = a.Signup
		case "signin", "login":
			run = a.Signin
		case "logout":
			run = a.Logout
		case "profile":
			run = a.Profile
		case "setprofile":
			run = a.SetProfile
		case "avatar":
			run = a.Avatar
		case "g", "goals":
			run = a.Goals
		case "addgoal":
			run = a.AddGoal
		case "addactivity":
			run = a.AddActivity
		case "a", "activities":
			run = a.Activities
		case "recompute":
			run = a.Recompute
		case "deletegoal":
			run = a.DeleteGoal
		case "report":
			run = a.Report
		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if !a.isLoggedIn() && !signedOutCommand(cmd) {
			printlnFn("Please sign in first (signin or signup)")
			continue
		}

		if err := run(ctx); err != nil {
			a.reportError(ctx, err)
		}
	}
}

func signedOutCommand(cmd string) bool {
	switch cmd {
	case "signup", "signin", "login", "logout":
		return true
	}
	return false
}
