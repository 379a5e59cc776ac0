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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Jobs(ctx context.Context) error
	Blog(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the KodJobs CLI.
//
// Commands read their own prompts from the same reader, so the loop reads
// whole lines rather than using a scanner that would buffer ahead.
//
//	Not logged in:
//	  - help                  show available commands
//	  - register              create an account
//	  - login                 authenticate
//	  - jobs | blog           browse listings and posts
//	  - exit | quit           leave the program
//
//	Logged in:
//	  - profile               show the profile and its completion
//	  - edit [field value]    edit the profile
//	  - attach <kind> <path>  upload a resume or profileImage
//	  - jobs | blog           listings and posts ranked for the profile
//	  - logout                sign out
//	  - exit | quit           leave the program
//
// Errors returned by command handlers are not printed here; the session
// store reports them through its notifier.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("kj> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, edit, attach <resume|profileImage> <path>, jobs, blog, logout, exit")
			} else {
				printlnFn("Available commands: register, login, jobs, blog, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "edit":
			_ = a.Edit(ctx, args)

		case "attach":
			_ = a.Attach(ctx, args)

		case "jobs":
			_ = a.Jobs(ctx)

		case "blog":
			_ = a.Blog(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
