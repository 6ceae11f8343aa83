package console

import "github.com/fourcorners/opsdesk/internal/identity"

// moduleScreen binds a permission code to its interactive screen. The menu
// only offers screens the access checker approves.
type moduleScreen struct {
	code  string
	title string
	run   func(p *Prompter) error
}

func moduleScreens() []moduleScreen {
	return []moduleScreen{
		{identity.ModuleOperational, "Operations (production capacity)", runOperational},
		{identity.ModuleStockIn, "Stock (register incoming products)", runStockIn},
		{identity.ModuleStockOut, "Stock (register sales and output)", runStockOut},
		{identity.ModuleFinancial, "Finance (costs and profit)", runFinancial},
		{identity.ModuleHR, "HR (payroll)", runPayroll},
	}
}

// The screens below are deliberately thin prompt-and-compute flows. Nothing
// here persists; the data model behind these modules lives elsewhere.

func runOperational(p *Prompter) error {
	p.Banner("OPERATIONS - PRODUCTION CAPACITY")

	perHour, err := p.Float("\nUnits produced per hour per machine: ")
	if err != nil {
		return err
	}
	hours, err := p.Float("Hours per shift: ")
	if err != nil {
		return err
	}
	machines, err := p.Int("Number of machines: ")
	if err != nil {
		return err
	}

	perShift := perHour * hours * float64(machines)
	p.Rule()
	p.Printf("Capacity per shift: %.0f units\n", perShift)
	p.Printf("Capacity per day (3 shifts): %.0f units\n", perShift*3)
	p.Rule()
	return nil
}

func runStockIn(p *Prompter) error {
	p.Banner("STOCK - INCOMING PRODUCTS")

	product, err := p.Line("\nProduct name: ")
	if err != nil {
		return err
	}
	quantity, err := p.Int("Quantity received: ")
	if err != nil {
		return err
	}
	unitCost, err := p.Float("Unit cost: ")
	if err != nil {
		return err
	}

	p.Rule()
	p.Printf("Received: %d x %s\n", quantity, product)
	p.Printf("Total cost: %.2f\n", float64(quantity)*unitCost)
	p.Rule()
	return nil
}

func runStockOut(p *Prompter) error {
	p.Banner("STOCK - SALES AND OUTPUT")

	product, err := p.Line("\nProduct name: ")
	if err != nil {
		return err
	}
	quantity, err := p.Int("Quantity sold: ")
	if err != nil {
		return err
	}
	unitPrice, err := p.Float("Unit sale price: ")
	if err != nil {
		return err
	}

	p.Rule()
	p.Printf("Sold: %d x %s\n", quantity, product)
	p.Printf("Total revenue: %.2f\n", float64(quantity)*unitPrice)
	p.Rule()
	return nil
}

func runFinancial(p *Prompter) error {
	p.Banner("FINANCE - COSTS AND PROFIT")

	revenue, err := p.Float("\nTotal revenue: ")
	if err != nil {
		return err
	}
	costs, err := p.Float("Total costs: ")
	if err != nil {
		return err
	}

	profit := revenue - costs
	p.Rule()
	p.Printf("Profit: %.2f\n", profit)
	if revenue != 0 {
		p.Printf("Margin: %.1f%%\n", profit/revenue*100)
	}
	p.Rule()
	return nil
}

func runPayroll(p *Prompter) error {
	p.Banner("HR - PAYROLL")

	gross, err := p.Float("\nGross salary: ")
	if err != nil {
		return err
	}
	bonus, err := p.Float("Bonuses: ")
	if err != nil {
		return err
	}
	deduction, err := p.Float("Deduction rate (%): ")
	if err != nil {
		return err
	}

	total := gross + bonus
	net := total * (1 - deduction/100)
	p.Rule()
	p.Printf("Gross total: %.2f\n", total)
	p.Printf("Deductions: %.2f\n", total-net)
	p.Printf("Net pay: %.2f\n", net)
	p.Rule()
	return nil
}
