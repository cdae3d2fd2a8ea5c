package usecase

import "testing"

func TestIsPlausibleCompanyNameRejectsTitles(t *testing.T) {
	titles := []string{
		"Top 10 CRM Tools 2024",
		"11 Types of Accounting Software",
		"Five Best Payroll Providers",
		"Best 5 HR platforms",
		"The best invoicing apps for freelancers",
		"SaaS Companies in San Francisco",
		"Fintech startups in London",
		"Clutch Directory of Agencies",
		"A complete guide to logistics",
		"G2 Reviews: Helpdesk",
		"Our list of vendors",
		"",
	}
	for _, title := range titles {
		if isPlausibleCompanyName(title) {
			t.Fatalf("expected %q to be rejected", title)
		}
	}
}

func TestIsPlausibleCompanyNameAcceptsCompanies(t *testing.T) {
	names := []string{
		"Acme Corp",
		"Stripe",
		"3M",
		"Best Buy",
		"Listrak",
		"Guidewire",
		"Built In",
		"Bank of America",
	}
	for _, name := range names {
		if !isPlausibleCompanyName(name) {
			t.Fatalf("expected %q to be accepted", name)
		}
	}
}
