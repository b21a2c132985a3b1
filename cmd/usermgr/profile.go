package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	usermgmt "github.com/goliatone/go-usermgmt"
)

func handleWhoAmI(args []string) {
	asJSON := false
	for _, arg := range args {
		switch arg {
		case "--json":
			asJSON = true
		default:
			fatal(fmt.Errorf("unknown flag: %s", arg))
		}
	}

	store := sessionStore()
	requireRoute(store, profileRoute)

	client := apiClient(store)
	user, err := client.CurrentUser(context.Background())
	if err != nil {
		if usermgmt.IsUnauthorized(err) {
			os.Exit(1)
		}
		fatal(fmt.Errorf("failed to load profile: %s", errMessage(err)))
	}

	if asJSON {
		printJSON(user)
		return
	}
	printUser(user)
}

func handleUpdate(args []string) {
	store := sessionStore()
	requireRoute(store, profileRoute)

	client := apiClient(store)
	ctx := context.Background()

	// Prefill from the server confirmed record so a partial edit does not
	// blank the other fields.
	current, err := client.CurrentUser(ctx)
	if err != nil {
		if usermgmt.IsUnauthorized(err) {
			os.Exit(1)
		}
		fatal(fmt.Errorf("failed to load profile: %s", errMessage(err)))
	}

	payload := usermgmt.ProfilePayload{
		Username:    current.Username,
		Email:       current.Email,
		PhoneNumber: current.PhoneNumber,
		DateOfBirth: current.DateOfBirth,
	}

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
		case "--password":
			i++
			if i >= len(args) {
				fatal(errors.New("--password requires a value"))
			}
			payload.Password = args[i]
		default:
			fatal(fmt.Errorf("unknown flag: %s", args[i]))
		}
	}

	user, err := client.UpdateProfile(ctx, payload)
	if err != nil {
		if usermgmt.IsUnauthorized(err) {
			os.Exit(1)
		}
		if usermgmt.IsValidation(err) {
			for field, message := range usermgmt.ValidationFieldErrors(err) {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", field, message)
			}
			fatal(errors.New("profile validation failed"))
		}
		fatal(fmt.Errorf("update failed: %s", errMessage(err)))
	}

	fmt.Println("Profile updated.")
	printUser(user)
}
