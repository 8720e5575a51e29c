package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInput_SimpleCommand(t *testing.T) {
	p := ParseInput("help")
	assert.Equal(t, "help", p.Command)
	assert.Empty(t, p.Args)
}

func TestParseInput_CommandIsCaseInsensitive(t *testing.T) {
	p := ParseInput("  SELL chicken ")
	assert.Equal(t, "sell", p.Command)
	assert.Equal(t, []string{"chicken"}, p.Args)
}

func TestParseInput_ArgumentsJoinedByAnd(t *testing.T) {
	p := ParseInput("sell chicken and cow AND sheep")
	assert.Equal(t, []string{"chicken", "cow", "sheep"}, p.Args)
}

func TestParseInput_Params(t *testing.T) {
	p := ParseInput("buy cow price: 50")
	assert.Equal(t, "buy", p.Command)
	assert.Equal(t, []string{"cow"}, p.Args)
	assert.Equal(t, "50", p.Params["price"])
}

func TestParseInput_ParamValuesKeepAnd(t *testing.T) {
	p := ParseInput("name as: Salt and Pepper")
	assert.Equal(t, "Salt and Pepper", p.Params["as"])
	assert.Equal(t, "Salt and Pepper", p.Arg("as"))
}

func TestParseInput_ArgFallsBackToPositional(t *testing.T) {
	p := ParseInput("name Ada Lovelace")
	assert.Equal(t, "Ada Lovelace", p.Arg("as"))

	p = ParseInput("redeem code: welcome")
	assert.Equal(t, "welcome", p.Arg("code"))
}

func TestParseInput_EmptyInput(t *testing.T) {
	p := ParseInput("   ")
	assert.Equal(t, "", p.Command)
	assert.NotNil(t, p.Params)
}

func TestParseInput_LaterParamWins(t *testing.T) {
	p := ParseInput("redeem code: first code: second")
	assert.Equal(t, "second", p.Params["code"])
}

func TestParseInput_KeysAreCaseInsensitive(t *testing.T) {
	p := ParseInput("buy cow PRICE: 50")
	assert.Equal(t, "50", p.Arg("price"))
}
