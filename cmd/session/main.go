package main

import (
	"flag"
	"fmt"
	"os"

	"stafflink/internal/config"
	"stafflink/internal/models"
	"stafflink/internal/session"
)

// Login and credential flows live outside the portal; this tool seeds and
// inspects the local session store the way a browser login would.
func main() {
	kind := flag.String("kind", "employee", "identity kind: employee or hr-staff")
	id := flag.Int64("id", 0, "employee id (set)")
	name := flag.String("name", "", "first name (set)")
	surname := flag.String("surname", "", "surname (set)")
	fullName := flag.String("full-name", "", "full name, overrides name/surname (set)")
	department := flag.String("department", "", "department (set)")
	role := flag.String("role", "", "role (set)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: session [flags] show|set|clear")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}

	store, err := session.NewBboltStore(cfg.SessionFile)
	if err != nil {
		fmt.Printf("Session store error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	identityKind := models.IdentityKind(*kind)
	if identityKind != models.KindEmployee && identityKind != models.KindHRStaff {
		fmt.Printf("Unknown kind %q\n", *kind)
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "show":
		identity, err := store.Get(identityKind)
		if err != nil {
			fmt.Printf("No %s session: %v\n", identityKind, err)
			os.Exit(1)
		}
		fmt.Printf("%s: %s (id=%d, department=%s, role=%s)\n",
			identityKind, identity.DisplayName(), identity.ID, identity.Department, identity.Role)

	case "set":
		if *id == 0 || *department == "" {
			fmt.Println("set requires -id and -department")
			os.Exit(1)
		}
		identity := models.Identity{
			ID:         *id,
			Kind:       identityKind,
			Name:       *name,
			Surname:    *surname,
			FullName:   *fullName,
			Department: *department,
			Role:       *role,
		}
		if err := store.Set(identityKind, identity); err != nil {
			fmt.Printf("Failed to store session: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Stored %s session for %s\n", identityKind, identity.DisplayName())

	case "clear":
		if err := store.Clear(identityKind); err != nil {
			fmt.Printf("Failed to clear session: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared %s session\n", identityKind)

	default:
		fmt.Printf("Unknown command %q\n", flag.Arg(0))
		os.Exit(1)
	}
}
