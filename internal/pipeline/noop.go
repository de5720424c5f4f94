package pipeline

// PassthroughTransformer returns tables unchanged. Used for raw extraction
// runs that persist query results without feature derivation.
type PassthroughTransformer struct{}

func (PassthroughTransformer) Transform(t *Table) (*Table, error) { return t, nil }
