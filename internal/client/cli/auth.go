package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/kodjobs/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Register prompts for name, email, password and date of birth and creates
// the account. The session store reports the outcome through its notifier;
// the error is returned for callers that need it.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	dob, err := getSimpleText(a.reader, "Enter date of birth (YYYY-MM-DD)", a.out)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Creating account...")
	_, err = a.session.Register(ctx, name, email, string(password), dob)
	return err
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	fmt.Fprintln(a.out, "Signing in...")
	_, err = a.session.Authenticate(ctx, email, string(password))
	return err
}

// Logout signs the current user out. It always succeeds.
func (a *App) Logout(ctx context.Context) error {
	a.session.SignOut(ctx)
	return nil
}
