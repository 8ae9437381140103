package models

// Customer is a person tracked by the CRM
type Customer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	TotalPurchases int    `json:"totalPurchases"`
}

// IsRepeatBuyer reports whether the customer has bought more than once.
func (c *Customer) IsRepeatBuyer() bool {
	return c.TotalPurchases > 1
}

// CountRepeatBuyers counts customers with more than one purchase across the
// whole collection.
func CountRepeatBuyers(customers []Customer) int {
	count := 0
	for i := range customers {
		if customers[i].IsRepeatBuyer() {
			count++
		}
	}
	return count
}
