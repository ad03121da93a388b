package enums

// CartAddOutcome reports what AddOrIncrement did with a catalog payload.
type CartAddOutcome string

const (
	CartAddOutcomeAdded       CartAddOutcome = "added"
	CartAddOutcomeIncremented CartAddOutcome = "incremented"
	CartAddOutcomeIgnored     CartAddOutcome = "ignored"
)

// String implements fmt.Stringer.
func (c CartAddOutcome) String() string {
	return string(c)
}
