package printer

// Tee returns an encoder that forwards every record to each of encs in
// order. The first error stops the fan-out for that record. Close closes
// every encoder and returns the first error.
func Tee(encs ...Encoder) Encoder {
	return tee(encs)
}

type tee []Encoder

func (t tee) each(fn func(Encoder) error) error {
	for _, e := range t {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) BeginGroup(g GroupRecord) error {
	return t.each(func(e Encoder) error { return e.BeginGroup(g) })
}

func (t tee) EndGroup() error { return t.each(Encoder.EndGroup) }

func (t tee) OpenGraph(title string, props []Property) error {
	return t.each(func(e Encoder) error { return e.OpenGraph(title, props) })
}

func (t tee) Node(n NodeRecord) error   { return t.each(func(e Encoder) error { return e.Node(n) }) }
func (t tee) Block(b BlockRecord) error { return t.each(func(e Encoder) error { return e.Block(b) }) }
func (t tee) CloseGraph() error         { return t.each(Encoder.CloseGraph) }

func (t tee) Close() error {
	var first error
	for _, e := range t {
		if err := e.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
