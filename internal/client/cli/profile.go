package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/kodjobs/internal/client/completion"
	"github.com/dmitrijs2005/kodjobs/internal/client/models"
	"github.com/dmitrijs2005/kodjobs/internal/common"
)

// editableField is one profile field offered by the edit command.
type editableField struct {
	name      string
	label     string
	multiline bool
	get       func(u *models.UserRecord) string
}

var editableFields = []editableField{
	{"name", "Full name", false, func(u *models.UserRecord) string { return u.Name }},
	{"dateOfBirth", "Date of birth", false, func(u *models.UserRecord) string { return u.DateOfBirth }},
	{"title", "Professional title", false, func(u *models.UserRecord) string { return u.Title }},
	{"summary", "Professional summary", true, func(u *models.UserRecord) string { return u.Summary }},
	{"skills", "Skills (comma separated)", false, func(u *models.UserRecord) string { return u.Skills }},
	{"phone", "Phone", false, func(u *models.UserRecord) string { return u.Phone }},
	{"location", "Location", false, func(u *models.UserRecord) string { return u.Location }},
	{"linkedin", "LinkedIn", false, func(u *models.UserRecord) string { return u.LinkedIn }},
	{"github", "GitHub", false, func(u *models.UserRecord) string { return u.GitHub }},
	{"education", "Education", false, func(u *models.UserRecord) string { return u.Education }},
	{"experience", "Experience", true, func(u *models.UserRecord) string { return u.Experience }},
}

// clearValue entered at an edit prompt empties the field.
const clearValue = "-"

// Profile prints the session user and which weighted fields are missing.
func (a *App) Profile(ctx context.Context) error {
	if !a.requireLogin() {
		return common.ErrNotAuthenticated
	}
	u := a.session.CurrentUser()

	fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
	for _, f := range editableFields[1:] {
		if v := f.get(u); v != "" {
			fmt.Fprintf(a.out, "  %-24s %s\n", f.label+":", strings.ReplaceAll(v, "\n", "\n"+strings.Repeat(" ", 27)))
		}
	}
	fmt.Fprintf(a.out, "  %-24s %s\n", "Resume:", yesNo(u.Resume))
	fmt.Fprintf(a.out, "  %-24s %s\n", "Profile image:", imageLabel(u))

	fmt.Fprintf(a.out, "Profile completion: %d%%\n", u.ProfileCompletion)
	if missing := completion.Missing(u); len(missing) > 0 {
		fmt.Fprintf(a.out, "Missing: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

// Edit updates the profile. With arguments ("edit title Staff Engineer")
// it sets one field and needs a value, "-" to clear; without, it walks
// every editable field. An empty answer keeps the current value and "-"
// clears it.
func (a *App) Edit(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return common.ErrNotAuthenticated
	}

	var patch models.Patch
	if len(args) > 0 {
		if len(args) < 2 {
			fmt.Fprintln(a.out, "Usage: edit <field> <value|->")
			return fmt.Errorf("edit: no value for %q", args[0])
		}
		value := strings.Join(args[1:], " ")
		if value == clearValue {
			value = ""
		}
		if !patch.SetField(args[0], value) {
			fmt.Fprintf(a.out, "Unknown field %q. Editable: %s\n", args[0], editableNames())
			return fmt.Errorf("unknown field %q", args[0])
		}
	} else {
		u := a.session.CurrentUser()
		changed := false
		for _, f := range editableFields {
			prompt := fmt.Sprintf("%s [%s]", f.label, f.get(u))
			var v string
			var err error
			if f.multiline {
				v, err = getMultiline(a.reader, prompt, a.out)
			} else {
				v, err = getSimpleText(a.reader, prompt, a.out)
			}
			if err != nil {
				return err
			}
			switch v {
			case "":
				continue
			case clearValue:
				v = ""
			}
			patch.SetField(f.name, v)
			changed = true
		}
		if !changed {
			fmt.Fprintln(a.out, "Nothing changed")
			return nil
		}
	}

	_, err := a.session.UpdateProfile(ctx, patch)
	return err
}

// Attach uploads a local file as a resume or profile image and marks it on
// the profile. Usage: attach <resume|profileImage> <path>.
func (a *App) Attach(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return common.ErrNotAuthenticated
	}
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: attach <resume|profileImage> <path>")
		return fmt.Errorf("attach: want 2 arguments, got %d", len(args))
	}

	kind, err := models.ParseAssetKind(args[0])
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	f, err := os.Open(args[1])
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	defer f.Close()

	u := a.session.CurrentUser()
	ref, err := a.uploader.Upload(ctx, string(u.ID), kind, filepath.Base(args[1]), f)
	if err != nil {
		a.logger.Error(ctx, "asset upload failed", "kind", kind, "error", err)
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	_, err = a.session.AttachAsset(ctx, kind, ref)
	return err
}

func editableNames() string {
	names := make([]string, len(editableFields))
	for i, f := range editableFields {
		names[i] = f.name
	}
	return strings.Join(names, ", ")
}

func yesNo(b bool) string {
	if b {
		return "uploaded"
	}
	return "not uploaded"
}

func imageLabel(u *models.UserRecord) string {
	if !u.ProfileImage {
		return "not uploaded"
	}
	if u.ProfileImageURL == "" {
		return "uploaded"
	}
	return u.ProfileImageURL
}
