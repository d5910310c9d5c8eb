package nimmt

// Pile is one of the four shared stacks on the table. The oldest card is first,
// the top card is the most recently appended one
type Pile struct {
	cards []Card
}

// NewPile seeds a pile with a single card
func NewPile(seed Card) *Pile {
	return &Pile{cards: []Card{seed}}
}

// Top returns the most recently appended card
func (p *Pile) Top() (Card, error) {
	if len(p.cards) == 0 {
		return 0, ErrEmptyPile
	}
	return p.cards[len(p.cards)-1], nil
}

// Append puts a card on top of the pile. It does not check the card against the
// current top, that is the resolver's job
func (p *Pile) Append(c Card) {
	p.cards = append(p.cards, c)
}

// Take empties the pile and returns its cards with their summed bull points.
// The caller must reseed the pile afterwards
func (p *Pile) Take() ([]Card, int) {
	taken := p.cards
	p.cards = nil
	return taken, SumPoints(taken)
}

// Reseed makes the given card the only card of the pile
func (p *Pile) Reseed(c Card) {
	p.cards = []Card{c}
}

func (p *Pile) Len() int {
	return len(p.cards)
}

// Points is the total penalty value currently on the pile
func (p *Pile) Points() int {
	return SumPoints(p.cards)
}

// Cards returns a copy of the pile contents, oldest first
func (p *Pile) Cards() []Card {
	return copyCards(p.cards)
}
