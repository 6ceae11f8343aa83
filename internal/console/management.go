package console

import (
	"context"
	"errors"
	"strconv"

	"github.com/fourcorners/opsdesk/internal/identity"
)

// managementMenu hosts company, user and permission administration. It is
// reachable both pre-login (initial setup on an empty database) and from an
// admin's main menu.
func (c *Console) managementMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.prompt.Banner("USER AND COMPANY MANAGEMENT")
		c.prompt.Printf("1 - Register company\n")
		c.prompt.Printf("2 - List companies\n")
		c.prompt.Printf("3 - Register user\n")
		c.prompt.Printf("4 - List users\n")
		c.prompt.Printf("5 - Configure permissions\n")
		c.prompt.Printf("0 - Back\n")
		c.prompt.Rule()

		choice, err := c.prompt.Line("Choose an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.registerCompanyFlow(ctx)
		case "2":
			err = c.listCompanies(ctx)
		case "3":
			err = c.registerUserFlow(ctx)
		case "4":
			err = c.listUsers(ctx)
		case "5":
			err = c.configurePermissionsFlow(ctx)
		case "0":
			return nil
		default:
			c.prompt.Printf("\nInvalid option!\n")
			continue
		}
		if err != nil {
			return err
		}
		c.prompt.Pause()
	}
}

func (c *Console) registerCompanyFlow(ctx context.Context) error {
	c.prompt.Banner("COMPANY REGISTRATION")

	name, err := c.prompt.Line("\nCompany name (legal name): ")
	if err != nil {
		return err
	}
	taxID, err := c.prompt.Line("Tax ID (digits only): ")
	if err != nil {
		return err
	}

	c.prompt.Printf("\nAvailable segments:\n")
	for i, seg := range identity.Segments {
		c.prompt.Printf("%d - %s\n", i+1, seg)
	}
	segChoice, err := c.prompt.Line("Choose a segment (1-5): ")
	if err != nil {
		return err
	}
	// Anything outside the list leaves the segment empty; the registrar
	// falls back to Unspecified.
	var segment identity.Segment
	if n, convErr := strconv.Atoi(segChoice); convErr == nil && n >= 1 && n <= len(identity.Segments) {
		segment = identity.Segments[n-1]
	}

	company, err := c.registrar.RegisterCompany(ctx, name, taxID, segment)
	if err != nil {
		return c.printIdentityError(err)
	}

	c.prompt.Banner("COMPANY REGISTERED!")
	c.prompt.Printf("ID: %d\n", company.ID)
	c.prompt.Printf("Name: %s\n", company.Name)
	c.prompt.Printf("Tax ID: %s\n", company.TaxID)
	c.prompt.Printf("Segment: %s\n", company.Segment)
	c.prompt.Rule()
	return nil
}

func (c *Console) listCompanies(ctx context.Context) error {
	c.prompt.Banner("REGISTERED COMPANIES")

	companies, err := c.companies.List(ctx)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		c.prompt.Printf("\nNo companies registered yet.\n")
		return nil
	}

	for _, company := range companies {
		count, err := c.users.CountByCompany(ctx, company.ID)
		if err != nil {
			return err
		}
		status := "ACTIVE"
		if !company.IsActive {
			status = "INACTIVE"
		}
		c.prompt.Printf("\nID: %d\n", company.ID)
		c.prompt.Printf("Name: %s\n", company.Name)
		c.prompt.Printf("Tax ID: %s\n", company.TaxID)
		c.prompt.Printf("Segment: %s\n", company.Segment)
		c.prompt.Printf("Status: %s\n", status)
		c.prompt.Printf("Users: %d\n", count)
		c.prompt.Printf("----------------------------------------------------------------------\n")
	}
	return nil
}

func (c *Console) registerUserFlow(ctx context.Context) error {
	c.prompt.Banner("USER REGISTRATION")

	companies, err := c.companies.List(ctx)
	if err != nil {
		return err
	}
	var active []identity.Company
	for _, company := range companies {
		if company.IsActive {
			active = append(active, company)
		}
	}
	if len(active) == 0 {
		c.prompt.Printf("\nNo active company registered!\n")
		c.prompt.Printf("Please register a company first.\n")
		return nil
	}

	c.prompt.Printf("\nAvailable companies:\n")
	for _, company := range active {
		c.prompt.Printf("%d - %s (%s)\n", company.ID, company.Name, company.TaxID)
	}

	companyID, err := c.prompt.Int("\nCompany ID: ")
	if err != nil {
		return err
	}
	name, err := c.prompt.Line("Full name: ")
	if err != nil {
		return err
	}
	email, err := c.prompt.Line("Email: ")
	if err != nil {
		return err
	}
	password, err := c.prompt.Line("Password (minimum 6 characters): ")
	if err != nil {
		return err
	}
	confirm, err := c.prompt.Line("Confirm password: ")
	if err != nil {
		return err
	}
	isAdmin, err := c.prompt.Confirm("Administrator user?")
	if err != nil {
		return err
	}

	user, err := c.registrar.RegisterUser(ctx, identity.NewUserInput{
		CompanyID:       companyID,
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
		IsAdmin:         isAdmin,
	})
	if err != nil {
		return c.printIdentityError(err)
	}

	c.prompt.Banner("USER REGISTERED!")
	c.prompt.Printf("ID: %d\n", user.ID)
	c.prompt.Printf("Name: %s\n", user.Name)
	c.prompt.Printf("Email: %s\n", user.Email)
	if user.IsAdmin {
		c.prompt.Printf("Admin: yes\n")
	} else {
		c.prompt.Printf("Admin: no\n")
	}
	c.prompt.Rule()

	if !user.IsAdmin {
		now, err := c.prompt.Confirm("\nConfigure permissions now?")
		if err != nil {
			return err
		}
		if now {
			return c.configurePermissionsFor(ctx, user.ID)
		}
	}
	return nil
}

func (c *Console) listUsers(ctx context.Context) error {
	c.prompt.Banner("REGISTERED USERS")

	users, err := c.users.List(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		c.prompt.Printf("\nNo users registered yet.\n")
		return nil
	}

	var currentCompany int64
	for _, user := range users {
		if user.CompanyID != currentCompany {
			currentCompany = user.CompanyID
			company, err := c.companies.GetByID(ctx, user.CompanyID)
			if err != nil {
				return err
			}
			c.prompt.Banner("COMPANY: " + company.Name)
		}

		status := "ACTIVE"
		if !user.IsActive {
			status = "INACTIVE"
		}
		kind := "USER"
		if user.IsAdmin {
			kind = "ADMIN"
		}
		c.prompt.Printf("\nID: %d | %s\n", user.ID, kind)
		c.prompt.Printf("Name: %s\n", user.Name)
		c.prompt.Printf("Email: %s\n", user.Email)
		c.prompt.Printf("Status: %s\n", status)

		if user.IsAdmin {
			c.prompt.Printf("Permissions: ALL (administrator)\n")
		} else {
			granted, err := c.perms.GrantsForUser(ctx, user.ID)
			if err != nil {
				return err
			}
			var names []string
			for _, p := range granted {
				if p.IsActive {
					names = append(names, p.Name)
				}
			}
			if len(names) == 0 {
				c.prompt.Printf("Permissions: none configured\n")
			} else {
				c.prompt.Printf("Permissions:")
				for i, n := range names {
					if i > 0 {
						c.prompt.Printf(",")
					}
					c.prompt.Printf(" %s", n)
				}
				c.prompt.Printf("\n")
			}
		}
		c.prompt.Printf("----------------------------------------------------------------------\n")
	}
	return nil
}

func (c *Console) configurePermissionsFlow(ctx context.Context) error {
	c.prompt.Banner("CONFIGURE USER PERMISSIONS")

	userID, err := c.prompt.Int("\nUser ID: ")
	if err != nil {
		return err
	}
	return c.configurePermissionsFor(ctx, userID)
}

// configurePermissionsFor shows the checkbox-style catalog with the user's
// current grants and replaces the grant set from selector input.
func (c *Console) configurePermissionsFor(ctx context.Context, userID int64) error {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return c.printIdentityError(err)
	}
	if user.IsAdmin {
		c.prompt.Printf("\nUser %q is an administrator and already has access to all modules.\n", user.Name)
		return nil
	}

	company, err := c.companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		return err
	}
	c.prompt.Printf("\nConfiguring permissions for: %s (%s)\n", user.Name, user.Email)
	c.prompt.Printf("Company: %s\n", company.Name)

	catalog, err := c.perms.ListActive(ctx)
	if err != nil {
		return err
	}
	granted, err := c.perms.GrantsForUser(ctx, user.ID)
	if err != nil {
		return err
	}
	grantedIDs := make(map[int64]bool, len(granted))
	for _, p := range granted {
		grantedIDs[p.ID] = true
	}

	c.prompt.Banner("AVAILABLE MODULES")
	for _, p := range catalog {
		box := "[ ]"
		if grantedIDs[p.ID] {
			box = "[X]"
		}
		c.prompt.Printf("%s %d - %s\n", box, p.ID, p.Name)
		c.prompt.Printf("    %s\n", p.Description)
	}

	c.prompt.Rule()
	c.prompt.Printf("Enter the module ids to GRANT access to (comma-separated)\n")
	c.prompt.Printf("Example: 1,2,3\n")
	c.prompt.Printf("Type 'all' to grant access to every module\n")
	c.prompt.Printf("Type 'none' to remove all access\n")
	c.prompt.Rule()

	input, err := c.prompt.Line("\nYour choice: ")
	if err != nil {
		return err
	}
	selector, err := identity.ParseGrantSelector(input)
	if err != nil {
		return c.printIdentityError(err)
	}

	result, err := c.grants.SetUserPermissions(ctx, user.ID, selector)
	if err != nil {
		return c.printIdentityError(err)
	}

	if len(result) == 0 {
		c.prompt.Printf("\nAll permissions have been removed.\n")
		return nil
	}
	c.prompt.Banner("PERMISSIONS CONFIGURED!")
	c.prompt.Printf("User: %s\n", user.Name)
	c.prompt.Printf("Modules with access:\n")
	for _, p := range result {
		c.prompt.Printf("  - %s\n", p.Name)
	}
	c.prompt.Rule()
	return nil
}

// printIdentityError prints recoverable identity errors as operator
// feedback and keeps the menu running; anything unexpected propagates.
func (c *Console) printIdentityError(err error) error {
	var verr *identity.ValidationError
	switch {
	case errors.As(err, &verr):
		c.prompt.Printf("\nError: %s.\n", verr.Error())
	case errors.Is(err, identity.ErrTaxIDExists),
		errors.Is(err, identity.ErrEmailExists),
		errors.Is(err, identity.ErrCompanyNotFound),
		errors.Is(err, identity.ErrUserNotFound),
		errors.Is(err, identity.ErrPermissionNotFound),
		errors.Is(err, identity.ErrCompanyNotActive):
		c.prompt.Printf("\nError: %s.\n", err.Error())
	default:
		return err
	}
	return nil
}
