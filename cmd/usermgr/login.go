package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	usermgmt "github.com/goliatone/go-usermgmt"
)

func handleLogin(args []string) {
	var username, password string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--username", "-u":
			i++
			if i >= len(args) {
				fatal(errors.New("--username requires a value"))
			}
			username = args[i]
		case "--password", "-p":
			i++
			if i >= len(args) {
				fatal(errors.New("--password requires a value"))
			}
			password = args[i]
		default:
			fatal(fmt.Errorf("unknown flag: %s", args[i]))
		}
	}

	store := sessionStore()
	client := apiClient(store)

	resp, err := client.Login(context.Background(), username, password)
	if err != nil {
		if usermgmt.IsRequestRejected(err) || usermgmt.IsValidation(err) {
			fatal(fmt.Errorf("login failed: %s", errMessage(err)))
		}
		fatal(err)
	}

	fmt.Printf("Logged in as %s (%s)\n", resp.Username, resp.Role)
}

func handleLogout(args []string) {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: usermgr logout")
		os.Exit(1)
	}

	store := sessionStore()
	if _, ok := store.Get(); !ok {
		fmt.Println("No active session.")
		return
	}

	client := usermgmt.NewClient("", store)
	client.Logout()
	fmt.Println("Logged out.")
}

func handleSignup(args []string) {
	payload := usermgmt.SignupPayload{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--username":
			i++
			if i >= len(args) {
				fatal(errors.New("--username requires a value"))
			}
			payload.Username = args[i]
		case "--email":
			i++
			if i >= len(args) {
				fatal(errors.New("--email requires a value"))
			}
			payload.Email = args[i]
		case "--password":
			i++
			if i >= len(args) {
				fatal(errors.New("--password requires a value"))
			}
			payload.Password = args[i]
		case "--confirm-password":
			i++
			if i >= len(args) {
				fatal(errors.New("--confirm-password requires a value"))
			}
			payload.ConfirmPassword = args[i]
		case "--phone":
			i++
			if i >= len(args) {
				fatal(errors.New("--phone requires a value"))
			}
			payload.PhoneNumber = args[i]
		case "--dob":
			i++
			if i >= len(args) {
				fatal(errors.New("--dob requires a value"))
			}
			payload.DateOfBirth = args[i]
		default:
			fatal(fmt.Errorf("unknown flag: %s", args[i]))
		}
	}

	store := sessionStore()
	client := apiClient(store)

	user, err := client.Register(context.Background(), payload)
	if err != nil {
		if usermgmt.IsValidation(err) {
			for field, message := range usermgmt.ValidationFieldErrors(err) {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", field, message)
			}
			fatal(errors.New("signup validation failed"))
		}
		fatal(fmt.Errorf("signup failed: %s", errMessage(err)))
	}

	fmt.Printf("Registered %s. Log in with 'usermgr login'.\n", user.Username)
}
