package canvas

// CharacterMerger resolves what to draw when two characters land on the same cell.
type CharacterMerger struct {
	mergeMap map[mergePair]rune
}

type mergePair struct {
	existing rune
	new      rune
}

// NewCharacterMerger creates a merger with the box-drawing merge rules.
func NewCharacterMerger() *CharacterMerger {
	m := &CharacterMerger{
		mergeMap: make(map[mergePair]rune),
	}
	m.initializeMergeRules()
	return m
}

// Merge combines two characters. Merging is commutative; unknown pairs keep the existing
// character, except that line characters always replace padding dots.
func (m *CharacterMerger) Merge(existing, new rune) rune {
	if existing == ' ' || existing == '\x00' || existing == '·' {
		return new
	}
	if existing == new || new == '·' {
		return existing
	}

	// Endpoint markers are never overwritten
	if isMarker(existing) {
		return existing
	}
	if isMarker(new) {
		return new
	}

	if merged, ok := m.mergeMap[mergePair{existing, new}]; ok {
		return merged
	}
	if merged, ok := m.mergeMap[mergePair{new, existing}]; ok {
		return merged
	}
	return existing
}

func isMarker(r rune) bool {
	switch r {
	case '▶', '◀', '▲', '▼', '>', '<', '^', 'v', 'o', '●':
		return true
	}
	return false
}

func (m *CharacterMerger) initializeMergeRules() {
	m.mergeMap[mergePair{'─', '│'}] = '┼'

	// Corner + line = T
	m.mergeMap[mergePair{'┌', '─'}] = '┬'
	m.mergeMap[mergePair{'┌', '│'}] = '├'
	m.mergeMap[mergePair{'┐', '─'}] = '┬'
	m.mergeMap[mergePair{'┐', '│'}] = '┤'
	m.mergeMap[mergePair{'└', '─'}] = '┴'
	m.mergeMap[mergePair{'└', '│'}] = '├'
	m.mergeMap[mergePair{'┘', '─'}] = '┴'
	m.mergeMap[mergePair{'┘', '│'}] = '┤'

	// T + perpendicular line
	m.mergeMap[mergePair{'┬', '│'}] = '┼'
	m.mergeMap[mergePair{'┴', '│'}] = '┼'
	m.mergeMap[mergePair{'├', '─'}] = '┼'
	m.mergeMap[mergePair{'┤', '─'}] = '┼'

	// Corner + corner
	m.mergeMap[mergePair{'┌', '┘'}] = '┼'
	m.mergeMap[mergePair{'┐', '└'}] = '┼'
	m.mergeMap[mergePair{'┌', '┐'}] = '┬'
	m.mergeMap[mergePair{'└', '┘'}] = '┴'
	m.mergeMap[mergePair{'┌', '└'}] = '├'
	m.mergeMap[mergePair{'┐', '┘'}] = '┤'

	// ASCII
	m.mergeMap[mergePair{'-', '|'}] = '+'
	m.mergeMap[mergePair{'+', '-'}] = '+'
	m.mergeMap[mergePair{'+', '|'}] = '+'
}
