package main

import (
	"context"
	"fmt"

	"github.com/TechyShie/ecopulse/internal/domain/account"
)

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = a.prompt("Email: "); err != nil {
			return err
		}
	}
	if *password == "" {
		if *password, err = a.prompt("Password: "); err != nil {
			return err
		}
	}

	user, err := a.client.Auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	name := *email
	if user != nil {
		name = user.DisplayName()
	}
	fmt.Fprintf(a.out, "Logged in as %s.\n", name)
	return nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := a.flags("signup")
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "full name")
	password := fs.String("password", "", "password, 8 to 72 characters (prompted when omitted)")
	confirm := fs.String("confirm", "", "password again (prompted when omitted)")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	var err error
	if *password == "" {
		if *password, err = a.prompt("Password: "); err != nil {
			return err
		}
	}
	if *confirm == "" {
		if *confirm, err = a.prompt("Confirm password: "); err != nil {
			return err
		}
	}

	user, err := a.client.Auth.Signup(ctx, *email, *password, *name, *confirm)
	if err != nil {
		return err
	}
	if a.session.IsAuthenticated(ctx) {
		fmt.Fprintf(a.out, "Welcome, %s. You are logged in.\n", user.DisplayName())
		return nil
	}
	fmt.Fprintf(a.out, "Account created for %s. Run `ecopulse login` to sign in.\n", *email)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.client.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	user := a.session.User(ctx)
	if user == nil {
		fresh, err := a.client.Auth.Me(ctx)
		if err != nil {
			return err
		}
		user = fresh
	}
	printUser(a, *user)
	return nil
}

func printUser(a *app, u account.User) {
	fmt.Fprintf(a.out, "%s\n", u.DisplayName())
	if u.Username != "" {
		fmt.Fprintf(a.out, "  username: %s\n", u.Username)
	}
	fmt.Fprintf(a.out, "  email:    %s\n", u.Email)
}
