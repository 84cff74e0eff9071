package enums

import "fmt"

// CustomerKind discriminates the customer variants sharing one table.
type CustomerKind string

const (
	CustomerKindIndividual CustomerKind = "individual"
	CustomerKindBusiness   CustomerKind = "business"
)

var validCustomerKinds = []CustomerKind{
	CustomerKindIndividual,
	CustomerKindBusiness,
}

// String implements fmt.Stringer.
func (k CustomerKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known CustomerKind.
func (k CustomerKind) IsValid() bool {
	for _, candidate := range validCustomerKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseCustomerKind converts raw input into a CustomerKind.
func ParseCustomerKind(value string) (CustomerKind, error) {
	for _, candidate := range validCustomerKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer kind %q", value)
}
