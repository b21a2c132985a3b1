package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	usermgmt "github.com/goliatone/go-usermgmt"
)

func errMessage(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Message
	}
	return err.Error()
}

func printJSON(v any) {
	fmt.Println(print.MaybePrettyJSON(v))
}

func printUserTable(users []usermgmt.User, session usermgmt.Session) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\t")
	for _, user := range users {
		marker := ""
		if session.CanDeleteUser(user.ID) {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", user.ID, user.Username, user.Email, user.Role, marker)
	}
	_ = w.Flush()
	fmt.Println("\n* deletable from this session (server has the final say)")
}

func printUser(user *usermgmt.User) {
	fmt.Printf("ID:       %s\n", user.ID)
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Email:    %s\n", user.Email)
	fmt.Printf("Role:     %s\n", user.Role)
	if user.PhoneNumber != "" {
		fmt.Printf("Phone:    %s\n", user.PhoneNumber)
	}
	if user.DateOfBirth != "" {
		fmt.Printf("DOB:      %s\n", user.DateOfBirth)
	}
	if user.CreatedAt != nil {
		fmt.Printf("Created:  %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}
