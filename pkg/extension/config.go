package extension

// Ref is an opaque extension reference as written in a descriptor, e.g.
// "buster-coffee" or "./plugins/coffee.js". It is only interpreted when a
// Manager resolves it.
type Ref string

func (r Ref) String() string {
	return string(r)
}

// Refs converts a list of references to plain strings.
func Refs(refs []Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = string(r)
	}

	return out
}
