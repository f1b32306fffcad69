package order

// Kind is the ordering category of a type member. Kinds are declared in
// canonical order, so a Kind's numeric value is its rank.
type Kind int

const (
	StaticField Kind = iota
	InstanceField
	StaticInitializer
	InstanceInitializer
	Constructor
	Method
	NestedType
)

var kindNames = map[Kind]string{
	StaticField:         "static-field",
	InstanceField:       "instance-field",
	StaticInitializer:   "static-initializer",
	InstanceInitializer: "instance-initializer",
	Constructor:         "constructor",
	Method:              "method",
	NestedType:          "nested-type",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Rank returns the position of k in the canonical member order.
func (k Kind) Rank() int {
	return int(k)
}

// Kinds returns every kind in canonical order.
func Kinds() []Kind {
	return []Kind{StaticField, InstanceField, StaticInitializer, InstanceInitializer, Constructor, Method, NestedType}
}
