package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/kodjobs/internal/client/assets"
	"github.com/dmitrijs2005/kodjobs/internal/client/content"
	"github.com/dmitrijs2005/kodjobs/internal/client/models"
	"github.com/dmitrijs2005/kodjobs/internal/logging"
)

// SessionService is the part of the session store the CLI drives.
type SessionService interface {
	Register(ctx context.Context, name, email, password, dateOfBirth string) (*models.UserRecord, error)
	Authenticate(ctx context.Context, email, password string) (*models.UserRecord, error)
	SignOut(ctx context.Context)
	UpdateProfile(ctx context.Context, patch models.Patch) (*models.UserRecord, error)
	AttachAsset(ctx context.Context, kind models.AssetKind, ref string) (*models.UserRecord, error)
	CurrentUser() *models.UserRecord
	IsAuthenticated() bool
}

type App struct {
	session  SessionService
	uploader assets.Uploader
	catalog  *content.Catalog
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp wires the CLI to its services. Input is read from stdin and output
// goes to stdout.
func NewApp(session SessionService, uploader assets.Uploader, catalog *content.Catalog, logger logging.Logger) *App {
	return &App{
		session:  session,
		uploader: uploader,
		catalog:  catalog,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
}

// Run blocks in the REPL until the user exits, input ends or ctx is done.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to KodJobs CLI (type 'help' for commands)")
	if u := a.session.CurrentUser(); u != nil {
		fmt.Fprintf(a.out, "Signed in as %s <%s>\n", u.Name, u.Email)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	u := a.session.CurrentUser()
	if u == nil {
		return ""
	}
	return fmt.Sprintf("(%s %d%%)", u.Name, u.ProfileCompletion)
}

// requireLogin prints a hint and reports false when nobody is signed in.
func (a *App) requireLogin() bool {
	if a.session.IsAuthenticated() {
		return true
	}
	fmt.Fprintln(a.out, "You need to log in first")
	return false
}
