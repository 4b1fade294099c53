package game

// Group is a named set of patterns played in order
type Group struct {
	Name        string
	Title       string
	Description string
	Difficulty  int
	Patterns    [][]Position
}

// Keys returns the distinct pattern keys in play order
func (g *Group) Keys() []string {
	seen := map[string]bool{}
	keys := []string{}
	for _, p := range g.Patterns {
		k := Key(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}
