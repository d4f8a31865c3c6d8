package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/snapline/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for account details and creates a new account. Username
// and email availability are checked up front so the user learns about a
// conflict before typing a password.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	if taken, err := a.apiClient.UsernameExists(ctx, username); err == nil && taken {
		return fmt.Errorf("username %q is already taken", username)
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	if taken, err := a.apiClient.EmailExists(ctx, email); err == nil && taken {
		return fmt.Errorf("an account for %s already exists", email)
	}

	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	input := api.RegisterInput{Username: username, Email: email, Name: name, Password: password}
	if err := a.authService.Register(ctx, input); err != nil {
		return err
	}

	if id, err := a.authService.CurrentUserID(ctx); err == nil {
		a.setIdentity(id)
	}

	fmt.Println("Success!")
	return nil
}

// Login prompts for credentials and authenticates. On success the session
// token is persisted locally and the derived user id becomes the REPL
// identity.
func (a *App) Login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter email or username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, login, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return nil
	}

	id, err := a.authService.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	a.setIdentity(id)
	log.Printf("Login successful")
	return nil
}

// Logout invalidates the session on the server when possible and always
// clears the local token.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.setIdentity("")
	a.setOpenChat("")
	return nil
}

// Whoami prints the profile of the currently logged-in user.
func (a *App) Whoami(ctx context.Context) error {
	id := a.currentUser()
	if id == "" {
		printlnFn("Not logged in")
		return nil
	}
	user, err := a.apiClient.GetUser(ctx, id)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("%s (@%s) <%s>", user.Name, user.Username, user.Email))
	if user.Bio != "" {
		printlnFn(user.Bio)
	}
	return nil
}

// ResetPassword walks through the forgotten-password flow: request a code
// by email, then exchange the code and a new password for a reset.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter account email", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.authService.RequestPasswordReset(ctx, email); err != nil {
		return err
	}
	printlnFn("A reset code was sent to", email)

	otp, err := getSimpleText(a.reader, "Enter the code", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	if err := a.authService.ResetPassword(ctx, email, otp, password); err != nil {
		return err
	}
	printlnFn("Password updated, you can log in now")
	return nil
}
