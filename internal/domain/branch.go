package domain

// Branch is a physical hub in the network. The location name doubles as the
// node key in the geo tables. Branches are reference data maintained outside
// the engine; the engine only reads them.
type Branch struct {
	BranchID int
	Location string
}
