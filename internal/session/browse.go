package session

import (
	"context"

	"github.com/marcus/notry/internal/notes"
)

// NoteGetter resolves note ids.
type NoteGetter interface {
	Get(ctx context.Context, id int64) (*notes.Note, error)
}

// Browse is the sub-session over the marked notes. Cards are fixed at entry
// (marked ids ascending, unresolvable ids dropped); marking inside Browse
// mutates the shared MarkedSet directly.
type Browse struct {
	marks  *MarkedSet
	cards  []notes.Note
	cursor int
}

// NewBrowse loads the cards for the ids currently in marks.
func NewBrowse(ctx context.Context, repo NoteGetter, marks *MarkedSet) (*Browse, error) {
	b := &Browse{marks: marks}
	for _, id := range marks.IDs() {
		n, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue
		}
		b.cards = append(b.cards, *n)
	}
	return b, nil
}

func (b *Browse) Items() []notes.Note { return b.cards }
func (b *Browse) Cursor() int { return b.cursor }
func (b *Browse) Marks() *MarkedSet { return b.marks }

func (b *Browse) Down() {
	if b.cursor < len(b.cards)-1 {
		b.cursor++
	}
}

func (b *Browse) Up() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// Selected returns the id of the focused card, or 0 when there are none.
func (b *Browse) Selected() int64 {
	if b.cursor < 0 || b.cursor >= len(b.cards) {
		return 0
	}
	return b.cards[b.cursor].ID
}

// ToggleMark flips the focused card and advances.
func (b *Browse) ToggleMark() {
	id := b.Selected()
	if id == 0 {
		return
	}
	b.marks.Toggle(id)
	b.Down()
}

// MarkAll marks every card.
func (b *Browse) MarkAll() {
	for _, n := range b.cards {
		b.marks.Add(n.ID)
	}
}

// ClearMarks empties the shared marked set.
func (b *Browse) ClearMarks() {
	b.marks.Clear()
}
