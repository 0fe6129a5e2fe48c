package words

import (
	"math/rand/v2"
	"strings"
)

var vocabulary = []string{
	"Cat", "Dog", "Banana", "Pizza", "Robot",
	"Rocket", "Cupcake", "Rainbow", "Dinosaur", "Castle",
	"Dragon", "Elephant", "Sushi", "Giraffe", "Penguin",
	"Zombie", "Unicorn", "Mermaid", "Octopus", "Toothbrush",
	"Cactus", "Icecream", "Ninja", "Wizard", "Ghost",
	"Spider", "Monkey", "Lion", "Tiger", "Shark",
	"Crown", "Sword", "Moon", "Star", "Cloud",
	"Sun", "Balloon", "Car", "Train", "Bicycle",
	"Skateboard", "Rocketship", "Pumpkin", "Snowman", "Butterfly",
	"Flower", "Tree", "Pineapple", "Apple", "Bread",
	"Cheese", "Cake", "Cookie", "Donut", "Pie",
	"Watermelon", "Orange", "Strawberry", "Lemon", "Cherry",
	"Bear", "Frog", "Snake", "Bat", "Horse",
	"Sheep", "Cow", "Pig", "Fox", "Rabbit",
	"Bee", "Ant", "Fish", "Whale", "Dolphin",
	"Turtle", "Crab", "Lobster", "Parrot", "Owl",
	"Eagle", "Peacock", "Crow", "Flamingo", "Chair",
	"Table", "Lamp", "Book", "Phone", "Computer",
	"Glasses", "Hat", "Shoes", "Watch", "Key",
	"Door", "Window", "Bottle", "Pen", "Pencil",
	"Clock", "Bag", "Ring", "Necklace",
}

// Pool is a fixed vocabulary the drawer's options are drawn from.
type Pool struct {
	words []string
}

// NewPool drops blanks and case-insensitive duplicates, keeping the first
// spelling seen.
func NewPool(words []string) *Pool {
	seen := make(map[string]bool, len(words))
	p := &Pool{words: make([]string, 0, len(words))}
	for _, w := range words {
		w = strings.TrimSpace(w)
		key := strings.ToLower(w)
		if w == "" || seen[key] {
			continue
		}
		seen[key] = true
		p.words = append(p.words, w)
	}
	return p
}

func Default() *Pool {
	return NewPool(vocabulary)
}

func (p *Pool) Len() int {
	return len(p.words)
}

// Choices samples n distinct words uniformly. It returns fewer when the
// pool is smaller than n.
func (p *Pool) Choices(n int) []string {
	if n > len(p.words) {
		n = len(p.words)
	}
	out := make([]string, 0, n)
	for _, i := range rand.Perm(len(p.words))[:n] {
		out = append(out, p.words[i])
	}
	return out
}
