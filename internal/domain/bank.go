package domain

// Bank is an entry in the bank directory used when filling payout details.
type Bank struct {
	ID       string `json:"bank_id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// BankSearchFilter controls search and pagination for the bank directory.
type BankSearchFilter struct {
	Search       string `json:"search"`
	Page         int    `json:"page"`
	ItemsPerPage int    `json:"itemsPerPage"`
}
