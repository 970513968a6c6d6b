package passive

// RuleReader defines read operations for rule storage
type RuleReader interface {
	// ReadAll returns all rules from storage
	ReadAll() (Library, error)

	// Read returns a single rule by name
	Read(name string) (Rule, error)
}

// RuleWriter defines write operations for rule storage
type RuleWriter interface {
	// Write persists a rule to storage
	Write(r Rule) error
}

// RuleRepository combines read and write operations
type RuleRepository interface {
	RuleReader
	RuleWriter
}
