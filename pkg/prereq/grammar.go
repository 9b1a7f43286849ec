package prereq

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// CreditsSymbol stands for the running credit total of the visited subjects
const CreditsSymbol = "@"

var prerequisiteLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Subject", Pattern: `[A-Z]+[0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Credits", Pattern: `@`},
	{Name: "Operator", Pattern: `>=|<=|==|!=|>|<`},
	{Name: "Punct", Pattern: `[|&()]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var prerequisiteParser = participle.MustBuild[expression](
	participle.Lexer(prerequisiteLexer),
	participle.Elide("Whitespace"),
)

// Disjunction of conjunctions, "&" binds tighter than "|"
type expression struct {
	Disjuncts []*conjunction `@@ ( "|" @@ )*`
}

type conjunction struct {
	Conjuncts []*operand `@@ ( "&" @@ )*`
}

type operand struct {
	Threshold *threshold  `  @@`
	Subject   string      `| @Subject`
	Group     *expression `| "(" @@ ")"`
}

type threshold struct {
	Left     *value `@@`
	Operator string `@Operator`
	Right    *value `@@`
}

type value struct {
	Credits bool   `  @Credits`
	Literal uint64 `| @Int`
}

// IsSubjectId reports whether id is a single subject token, i.e. whether a prerequisite can reference it
func IsSubjectId(id string) bool {
	lex, err := prerequisiteLexer.LexString("", id)
	if err != nil {
		return false
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return false
	}
	// The last token is always EOF
	return len(tokens) == 2 && tokens[0].Type == prerequisiteLexer.Symbols()["Subject"]
}
