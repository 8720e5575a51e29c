package session

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ParsedInput is the structured form of one console line:
//
//	<command> [<arg> [and <arg>]*] [<key>: <value>]*
type ParsedInput struct {
	Command string
	Args    []string
	Params  map[string]string
}

var inputLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Key", Pattern: `[^\s:]+:`},
	{Name: "Word", Pattern: `\S+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type inputLine struct {
	Command string        `parser:"@(Word | Key)"`
	Args    []string      `parser:"@Word*"`
	Params  []*inputParam `parser:"@@*"`
}

type inputParam struct {
	Key   string   `parser:"@Key"`
	Value []string `parser:"@Word*"`
}

var inputParser = participle.MustBuild[inputLine](
	participle.Lexer(inputLexer),
	participle.Elide("Whitespace"),
)

// ParseInput splits a console line into command, positional arguments and
// key: value parameters.
//
// Examples:
//
//	"sell chicken"               → Command="sell", Args=["chicken"]
//	"sell chicken and cow"       → Command="sell", Args=["chicken","cow"]
//	"redeem code: welcome"       → Command="redeem", Params={"code":"welcome"}
//	"buy cow price: 50"          → Command="buy", Args=["cow"], Params={"price":"50"}
//	"name Ada Lovelace"          → Command="name", Args=["Ada","Lovelace"]
func ParseInput(input string) ParsedInput {
	result := ParsedInput{
		Params: make(map[string]string),
	}

	line, err := inputParser.ParseString("", strings.TrimSpace(input))
	if err != nil {
		return result
	}
	result.Command = strings.ToLower(line.Command)

	for _, arg := range line.Args {
		if !strings.EqualFold(arg, "and") {
			result.Args = append(result.Args, arg)
		}
	}
	for _, p := range line.Params {
		key := strings.ToLower(strings.TrimSuffix(p.Key, ":"))
		result.Params[key] = strings.Join(p.Value, " ")
	}

	return result
}

// Arg returns the named parameter, falling back to the positional arguments
// joined by spaces.
func (p ParsedInput) Arg(key string) string {
	if v, ok := p.Params[key]; ok {
		return v
	}
	return strings.Join(p.Args, " ")
}
