package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for the account details, registers the user and keeps the
// session the server issues, so no separate signin is needed.
func (a *App) Signup(ctx context.Context) error {
	var in models.RegisterInput
	var err error

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
		{"Username", &in.UserName},
		{"Date of birth (YYYY-MM-DD)", &in.DOB},
		{"Gender", &in.Gender},
	}
	for _, f := range fields {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	age, err := getSimpleText(a.reader, "Age", a.out)
	if err != nil {
		return err
	}
	if in.Age, err = strconv.Atoi(age); err != nil {
		return fmt.Errorf("%w: age must be a whole number", common.ErrValidation)
	}

	emails, err := getSimpleText(a.reader, "E-mail addresses (comma separated, may be empty)", a.out)
	if err != nil {
		return err
	}
	for _, e := range strings.Split(emails, ",") {
		if e = strings.TrimSpace(e); e != "" {
			in.Emails = append(in.Emails, e)
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	in.Password = string(password)

	user, err := a.api.Signup(ctx, in)
	if err != nil {
		return err
	}
	if err := a.persistSession(ctx, user.UserName); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s %s, signed in as %s\n", user.FirstName, user.LastName, user.UserName)
	return nil
}

// Signin prompts for credentials, suggesting the last used username.
func (a *App) Signin(ctx context.Context) error {
	prompt := "Username"
	last, _ := a.store.LastUserName(ctx)
	if last != "" {
		prompt = fmt.Sprintf("Username [%s]", last)
	}

	userName, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if userName == "" {
		userName = last
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.api.Signin(ctx, userName, string(password))
	if err != nil {
		return err
	}
	if err := a.persistSession(ctx, user.UserName); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Signed in as", user.UserName)
	return nil
}

// Logout revokes the session on the server and always forgets it locally.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}

	apiErr := a.api.Logout(ctx)
	if err := a.dropSession(ctx); err != nil {
		return err
	}

	if apiErr != nil {
		fmt.Fprintln(a.out, "Signed out locally; server not reached:", apiErr)
		return nil
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}
