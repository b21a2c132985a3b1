package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	usermgmt "github.com/goliatone/go-usermgmt"
	"github.com/google/uuid"
)

func handleUsers(args []string) {
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
	requireRoute(store, usersRoute)

	client := apiClient(store)
	users, err := client.Users(context.Background())
	if err != nil {
		if usermgmt.IsUnauthorized(err) {
			os.Exit(1)
		}
		fatal(fmt.Errorf("failed to list users: %s", errMessage(err)))
	}

	if asJSON {
		printJSON(users)
		return
	}

	session, _ := store.Get()
	printUserTable(users, session)
}

func handleDelete(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: usermgr delete <id> [--yes]")
		os.Exit(1)
	}

	id, err := uuid.Parse(args[0])
	fatal(err)

	assumeYes := false
	for _, arg := range args[1:] {
		switch arg {
		case "--yes", "-y":
			assumeYes = true
		default:
			fatal(fmt.Errorf("unknown flag: %s", arg))
		}
	}

	store := sessionStore()
	requireRoute(store, usersRoute)

	client := apiClient(store)
	ctx := context.Background()

	session, _ := store.Get()
	if !session.CanDeleteUser(id) {
		fmt.Fprintln(os.Stderr, "This session cannot delete that user (admins only).")
	}

	target, err := client.UserByID(ctx, id)
	if err != nil {
		if usermgmt.IsUnauthorized(err) {
			os.Exit(1)
		}
		fatal(fmt.Errorf("failed to load user: %s", errMessage(err)))
	}

	confirmation := usermgmt.NewDeleteConfirmation(*target)
	if assumeYes {
		fatal(confirmation.Confirm())
	} else if promptYes(fmt.Sprintf("Delete user %q? [y/N]: ", target.Username)) {
		fatal(confirmation.Confirm())
	} else {
		fatal(confirmation.Cancel())
		fmt.Println("Cancelled.")
		return
	}

	if err := client.DeleteUserConfirmed(ctx, confirmation); err != nil {
		if usermgmt.IsUnauthorized(err) {
			os.Exit(1)
		}
		if usermgmt.IsForbidden(err) {
			fatal(errors.New(errMessage(err)))
		}
		fatal(fmt.Errorf("delete failed: %s", errMessage(err)))
	}

	fmt.Printf("Deleted %s.\n", target.Username)
}

func promptYes(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
