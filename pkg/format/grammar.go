package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	constraintLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Comment", Pattern: `//[^\n]*`},
		{Name: "Sep", Pattern: `[\n;]+`},
		{Name: "Identifier", Pattern: `'[^'\n]*'`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`},
		{Name: "Name", Pattern: `[\p{L}$_][\p{L}\p{N}_]*`},
		{Name: "Relation", Pattern: `==|>=|<=|=|≥|≤`},
		{Name: "Symbol", Pattern: `[.*+\-@]`},
	})

	documentParser = participle.MustBuild[document](
		participle.Lexer(constraintLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// document is the root AST node of a constraint list.
type document struct {
	Statements []*statement `parser:"( Sep | @@ )*"`
}

type statement struct {
	Pos        lexer.Position
	Identifier *quoted  `parser:"@Identifier?"`
	First      *operand `parser:"@@"`
	Relation   string   `parser:"@Relation"`
	Second     *term    `parser:"@@?"`
	Constant   *signed  `parser:"@( ( '+' | '-' )? Number )?"`
	Priority   *signed  `parser:"( '@' @Number )?"`
}

type operand struct {
	Item      string `parser:"@Name"`
	Attribute string `parser:"'.' @Name"`
}

type term struct {
	Operand    *operand `parser:"@@"`
	Multiplier *signed  `parser:"( ( '*' | 'x' ) @( '-'? Number ) )?"`
}

// quoted strips the single quotes of an identifier on capture.
type quoted string

// Capture implements participle.Capture.
func (q *quoted) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("identifier capture requires value")
	}
	*q = quoted(strings.Trim(values[0], "'"))
	return nil
}

// signed joins an optional sign token with the number that follows it.
type signed float64

// Capture implements participle.Capture.
func (s *signed) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("number capture requires value")
	}
	v, err := strconv.ParseFloat(strings.Join(values, ""), 64)
	if err != nil {
		return err
	}
	*s = signed(v)
	return nil
}

func parseDocument(name string, r io.Reader) (*document, error) {
	return documentParser.Parse(name, r)
}
