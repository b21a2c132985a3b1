// The `usermgr` CLI is a thin front end over the user management API client:
// it keeps the authenticated session on disk, attaches it to every call, and
// surfaces forced logouts as a redirect to the login command.
//
// Usage:
//
//	usermgr signup [options]         register a new account
//	usermgr login [options]          authenticate and persist the session
//	usermgr logout                   clear the persisted session
//	usermgr whoami                   show the current profile
//	usermgr users                    list users
//	usermgr update [options]         edit the current profile
//	usermgr delete <id> [--yes]      delete a user (admins, or yourself)
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	switch cmd {
	case "signup", "register":
		handleSignup(os.Args[2:])
	case "login":
		handleLogin(os.Args[2:])
	case "logout":
		handleLogout(os.Args[2:])
	case "whoami", "me":
		handleWhoAmI(os.Args[2:])
	case "users", "list":
		handleUsers(os.Args[2:])
	case "update":
		handleUpdate(os.Args[2:])
	case "delete", "rm":
		handleDelete(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`usermgr - user management client

Usage:
  usermgr signup [options]          Register a new account
    --username <name>
    --email <addr>
    --password <pwd>
    --confirm-password <pwd>
    --phone <number>
    --dob <YYYY-MM-DD>
  usermgr login --username <name> --password <pwd>
  usermgr logout                    Clear the persisted session
  usermgr whoami [--json]           Show the current profile
  usermgr users [--json]            List users
  usermgr update [options]          Edit the current profile
    --username <name> --email <addr>
    --phone <number> --dob <YYYY-MM-DD>
    --password <pwd>                Only sent when non-empty
  usermgr delete <id> [--yes]       Delete a user

Environment:
  USERMGR_API_URL                   API base URL (default http://localhost:8080/api)`)
}

func fatal(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
