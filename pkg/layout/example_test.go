package layout_test

import (
	"fmt"

	"github.com/matzehuels/phyloscope/pkg/layout"
	"github.com/matzehuels/phyloscope/pkg/tree"
)

func ExampleCompute() {
	t, err := tree.ParseNewick("(((a:1,e:2):1,b:2)g:1,(:1,d:3)h:2):1;")
	if err != nil {
		panic(err)
	}
	t.UpdateGeometry(true)

	l, err := layout.Compute(t, 5, 4)
	if err != nil {
		panic(err)
	}

	fmt.Println(l.DefaultName())
	rect := l.Placements[layout.KindRectangular]
	fmt.Printf("g at (%g, %g)\n", rect.X[1], rect.Y[1])
	// Output:
	// Rectangular
	// g at (1, -1.125)
}
