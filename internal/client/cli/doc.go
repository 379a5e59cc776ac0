// Package cli provides the interactive KodJobs command-line client.
//
// It drives a SessionStore through a small REPL: register, log in, inspect
// and edit the profile, attach a resume or profile image, and browse the
// job listings and blog posts ranked for the signed-in user.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends. See App and runREPL for details.
package cli
