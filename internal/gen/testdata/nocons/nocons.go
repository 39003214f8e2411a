package nocons

type Point interface {
	X() int
}

type point struct{ x int }

func (p point) X() int { return p.x }
