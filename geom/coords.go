package geom

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// coordLexer tokenizes coordinate lists such as "1,2,3,4", "1 2 3 4" or "1,2 3,4".
var coordLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type coordinateList struct {
	Values []string `parser:"@Number ( Comma? @Number )*"`
}

var coordParser = participle.MustBuild[coordinateList](
	participle.Lexer(coordLexer),
	participle.Elide("Whitespace"),
)

// Coordinate is one x/y pair, kept as the original text.
type Coordinate struct {
	X string
	Y string
}

// ParseCoordinates splits a comma and/or whitespace separated list of numbers into x/y pairs.
func ParseCoordinates(s string) ([]Coordinate, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrNoCoordinates
	}

	list, err := coordParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("geom: invalid coordinate list: %w", err)
	}
	if len(list.Values)%2 != 0 {
		return nil, fmt.Errorf("%w: %d values", ErrOddCoordinates, len(list.Values))
	}

	coords := make([]Coordinate, 0, len(list.Values)/2)
	for i := 0; i < len(list.Values); i += 2 {
		coords = append(coords, Coordinate{X: list.Values[i], Y: list.Values[i+1]})
	}
	return coords, nil
}

// OpenLayersToPostGIS converts "x,y,x,y,..." into "x y,x y,...".
func OpenLayersToPostGIS(s string) (string, error) {
	coords, err := ParseCoordinates(s)
	if err != nil {
		return "", err
	}
	return joinPairs(coords), nil
}

// GMLToPostGIS converts cadastral GML coordinates "x,y x,y ..." into "x y,x y,...".
func GMLToPostGIS(s string) (string, error) {
	return OpenLayersToPostGIS(s)
}

// ReverseXY swaps every x/y pair. sepIn is informational only, both commas and
// whitespace are accepted; sepOut separates every value in the result.
//
//	ReverseXY("1,2,1,2", ",", ",") == "2,1,2,1"
func ReverseXY(s, sepIn, sepOut string) (string, error) {
	if sepIn != "," && sepIn != " " {
		return "", fmt.Errorf("geom: unsupported input separator %q", sepIn)
	}

	coords, err := ParseCoordinates(s)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(coords)*2)
	for _, c := range coords {
		parts = append(parts, c.Y, c.X)
	}
	return strings.Join(parts, sepOut), nil
}

func joinPairs(coords []Coordinate) string {
	pairs := make([]string, len(coords))
	for i, c := range coords {
		pairs[i] = c.X + " " + c.Y
	}
	return strings.Join(pairs, ",")
}
