package console

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fourcorners/opsdesk/internal/identity"
)

// Deps bundles everything the console needs. All fields are required.
type Deps struct {
	AppName   string
	Logger    *slog.Logger
	Registrar *identity.Registrar
	Auth      *identity.Authenticator
	Access    *identity.AccessChecker
	Grants    *identity.GrantService
	Companies identity.CompanyRepository
	Users     identity.UserRepository
	Perms     identity.PermissionRepository
}

// Console drives the interactive terminal UI.
type Console struct {
	prompt  *Prompter
	log     *slog.Logger
	appName string

	registrar *identity.Registrar
	auth      *identity.Authenticator
	access    *identity.AccessChecker
	grants    *identity.GrantService
	companies identity.CompanyRepository
	users     identity.UserRepository
	perms     identity.PermissionRepository
}

// New creates a Console reading from in and writing to out.
func New(in io.Reader, out io.Writer, deps Deps) *Console {
	return &Console{
		prompt:    NewPrompter(in, out),
		log:       deps.Logger,
		appName:   deps.AppName,
		registrar: deps.Registrar,
		auth:      deps.Auth,
		access:    deps.Access,
		grants:    deps.Grants,
		companies: deps.Companies,
		users:     deps.Users,
		perms:     deps.Perms,
	}
}

// Run drives the top-level menu until the operator exits, the input stream
// ends, or the context is cancelled.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.prompt.Banner(strings.ToUpper(c.appName) + "\n   Business management with access control")
		c.prompt.Printf("1 - Login\n")
		c.prompt.Printf("2 - User and company management (initial setup)\n")
		c.prompt.Printf("0 - Exit\n")
		c.prompt.Rule()

		choice, err := c.prompt.Line("Choose an option: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			if err := c.loginFlow(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		case "2":
			if err := c.managementMenu(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		case "0":
			c.prompt.Banner("Shutting down... goodbye!")
			return nil
		default:
			c.prompt.Printf("\nInvalid option, please try again.\n")
		}
	}
}

// loginFlow authenticates the operator and, on success, runs the main menu
// for the resulting session.
func (c *Console) loginFlow(ctx context.Context) error {
	c.prompt.Banner("LOGIN")

	email, err := c.prompt.Line("\nEmail: ")
	if err != nil {
		return err
	}
	password, err := c.prompt.Line("Password: ")
	if err != nil {
		return err
	}

	user, err := c.auth.Login(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			c.prompt.Printf("\nError: incorrect email or password.\n")
		case errors.Is(err, identity.ErrAccountInactive):
			c.prompt.Printf("\nError: account inactive. Contact your administrator.\n")
		case errors.Is(err, identity.ErrCompanyInactive):
			c.prompt.Printf("\nError: company inactive. Contact support.\n")
		default:
			return err
		}
		return nil
	}

	if err := c.printWelcome(ctx, user); err != nil {
		return err
	}
	c.prompt.Pause()

	return c.mainMenu(ctx, Session{User: user})
}

// printWelcome shows the post-login banner: company, account type and the
// modules this user can enter.
func (c *Console) printWelcome(ctx context.Context, user *identity.User) error {
	company, err := c.companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		return err
	}

	c.prompt.Banner("WELCOME, " + strings.ToUpper(user.Name) + "!")
	c.prompt.Printf("Company: %s\n", company.Name)
	if user.IsAdmin {
		c.prompt.Printf("Type: Administrator\n")
		c.prompt.Printf("\nAccess: ALL MODULES\n")
		return nil
	}
	c.prompt.Printf("Type: User\n")

	granted, err := c.perms.GrantsForUser(ctx, user.ID)
	if err != nil {
		return err
	}
	var active []identity.Permission
	for _, p := range granted {
		if p.IsActive {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		c.prompt.Printf("\nWarning: you have no permissions configured.\n")
		c.prompt.Printf("Contact the system administrator.\n")
		return nil
	}
	c.prompt.Printf("\nAvailable modules:\n")
	for _, p := range active {
		c.prompt.Printf("  - %s\n", p.Name)
	}
	return nil
}

// menuEntry is one selectable item in the per-session main menu.
type menuEntry struct {
	title string
	run   func(ctx context.Context) error
}

// mainMenu shows the module menu rebuilt from the access check on every
// iteration, so permission changes apply mid-session.
func (c *Console) mainMenu(ctx context.Context, session Session) error {
	if !session.LoggedIn() {
		return nil
	}
	company, err := c.companies.GetByID(ctx, session.User.CompanyID)
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.prompt.Banner(strings.ToUpper(c.appName) + " - " + strings.ToUpper(company.Name) +
			"\n   User: " + session.User.Name)

		entries, err := c.buildMenu(ctx, session)
		if err != nil {
			return err
		}
		for i, e := range entries {
			c.prompt.Printf("%d - %s\n", i+1, e.title)
		}
		c.prompt.Printf("0 - Log out\n")
		c.prompt.Rule()

		choice, err := c.prompt.Line("Choose an option: ")
		if err != nil {
			return err
		}

		if choice == "0" {
			c.prompt.Printf("\n%s, you have been logged out.\n", session.User.Name)
			return nil
		}

		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(entries) {
			c.prompt.Printf("\nInvalid option!\n")
			continue
		}

		if err := entries[n-1].run(ctx); err != nil {
			return err
		}
		c.prompt.Pause()
	}
}

// buildMenu assembles the entries the session's user may see. Every module
// goes through the access checker; the management entry is admin-only.
func (c *Console) buildMenu(ctx context.Context, session Session) ([]menuEntry, error) {
	var entries []menuEntry
	for _, screen := range moduleScreens() {
		ok, err := c.access.HasAccess(ctx, session.User, screen.code)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		run := screen.run
		entries = append(entries, menuEntry{
			title: screen.title,
			run:   func(context.Context) error { return run(c.prompt) },
		})
	}

	if session.User.IsAdmin {
		entries = append(entries, menuEntry{
			title: "User and company management",
			run:   c.managementMenu,
		})
	}
	return entries, nil
}
