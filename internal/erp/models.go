package erp

// Customer is the subset of the ERP Customer doctype requested by lookups.
type Customer struct {
	Name           string `json:"name"`
	CustomerName   string `json:"customer_name"`
	MobileNo       string `json:"mobile_no"`
	PrimaryAddress string `json:"customer_primary_address"`
}

// Address is linked to a Customer through a Dynamic Link row, not a foreign key.
type Address struct {
	Name         string `json:"name"`
	AddressTitle string `json:"address_title"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	EmailID      string `json:"email_id"`
}

// Document is an arbitrary ERP document as returned by /api/resource/{DocType}/{id}.
type Document map[string]any

// Filter is one [field, operator, value] or [doctype, field, operator, value] triple.
type Filter []string

func Eq(field, value string) Filter {
	return Filter{field, "=", value}
}

// LinkedTo returns the Dynamic Link filters selecting documents attached to a customer.
func LinkedTo(customerID string) []Filter {
	return []Filter{
		{"Dynamic Link", "link_doctype", "=", "Customer"},
		{"Dynamic Link", "link_name", "=", customerID},
	}
}

var (
	customerFields = []string{"name", "customer_name", "mobile_no", "customer_primary_address"}
	addressFields  = []string{
		"name", "address_title", "address_line1", "address_line2", "city",
		"state", "pincode", "country", "phone", "email_id",
	}
)

// resourceEnvelope wraps every /api/resource response: {"data": ...}.
type resourceEnvelope[T any] struct {
	Data T `json:"data"`
}
