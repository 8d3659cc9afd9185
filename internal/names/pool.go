package names

import (
	"math/rand"
	"sync"
)

// defaultNames is the pool of display names used for fabricated
// social-proof events (withdrawal pings, leaderboard entries).
var defaultNames = []string{
	"Adam", "Alice", "Alexander", "Amelia", "Andrew", "Anna", "Anthony", "Ava",
	"Arthur", "Beatrice", "Benjamin", "Charlotte", "Charles", "Chloe", "Christian", "Clara",
	"Christopher", "Diana", "Daniel", "Elena", "David", "Elise", "Edward", "Elizabeth",
	"Elias", "Ella", "Emil", "Emilia", "Ethan", "Emily", "Felix", "Emma",
	"Finn", "Eva", "Frederik", "Evelyn", "Gabriel", "Fiona", "George", "Freya",
	"Henry", "Grace", "Hugo", "Hannah", "Isaac", "Isabella", "Jack", "Isabelle",
	"Jacob", "Ivy", "James", "Johanna", "Jasper", "Josephine", "John", "Julia",
	"Joseph", "Laura", "Julian", "Lily", "Leo", "Lisa", "Liam", "Louise",
	"Louis", "Lucia", "Lucas", "Lucy", "Martin", "Maria", "Matthew", "Marie",
	"Michael", "Maya", "Nathan", "Mia", "Nicholas", "Mila", "Noah", "Natalie",
	"Oliver", "Olivia", "Oscar", "Rose", "Patrick", "Sarah", "Paul", "Sofia",
	"Peter", "Sophia", "Samuel", "Stella", "Sebastian", "Victoria", "Thomas", "Violet",
	"William", "Zoe", "Zachary", "Yana", "Ivan", "Alexandr",
}

// Pool hands out display names in a shuffled, non-repeating sequence. Once
// every name has been used the pool reshuffles and starts over.
type Pool struct {
	mu    sync.Mutex
	rng   *rand.Rand
	names []string
	next  int
}

// NewPool creates a pool over the default name list.
func NewPool(rng *rand.Rand) *Pool {
	return NewPoolWithNames(rng, defaultNames)
}

// NewPoolWithNames creates a pool over a caller-supplied name list.
func NewPoolWithNames(rng *rand.Rand, source []string) *Pool {
	p := &Pool{rng: rng, names: make([]string, len(source))}
	copy(p.names, source)
	p.shuffle()
	return p
}

// Next returns the next name in the current shuffle.
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.next >= len(p.names) {
		p.shuffle()
	}
	name := p.names[p.next]
	p.next++
	return name
}

// Pick returns n distinct names without consuming the pool's sequence.
func (p *Pool) Pick(n int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n > len(p.names) {
		n = len(p.names)
	}
	picked := make([]string, len(p.names))
	copy(picked, p.names)
	p.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n]
}

// Size returns the number of names in the pool.
func (p *Pool) Size() int {
	return len(p.names)
}

func (p *Pool) shuffle() {
	p.rng.Shuffle(len(p.names), func(i, j int) {
		p.names[i], p.names[j] = p.names[j], p.names[i]
	})
	p.next = 0
}
