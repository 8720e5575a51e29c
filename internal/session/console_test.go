package session

import (
	"context"
	"testing"

	"github.com/suderio/farmstead/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	steps := []struct {
		line string
		want string
		err  error
	}{
		{line: "sell chicken", want: "Sold chicken for 5 coins."},
		{line: "sell cow", want: "You have no cow to sell from."},
		{line: "buy cow", want: "Bought a Cow for 50 coins."},
		{line: "automate chicken", err: engine.ErrInsufficientFunds},
		{line: "redeem welcome", want: "Success! Received 100 coins!"},
		{line: "redeem code: WELCOME", err: engine.ErrCodeAlreadyUsed},
		{line: "redeem", err: engine.ErrEmptyCode},
		{line: "automate chicken", want: "Auto-seller for chicken is now level 1 (every 15s) for 100 coins."},
		{line: "name Ada Lovelace", want: "Welcome, Ada Lovelace!"},
		{line: "buy goat", err: engine.ErrUnknownProducer},
		{line: "dance", err: ErrUnknownCommand},
		{line: "", want: ""},
	}
	for _, step := range steps {
		got, err := f.session.Execute(ctx, step.line)
		if step.err != nil {
			assert.ErrorIs(t, err, step.err, step.line)
			continue
		}
		require.NoError(t, err, step.line)
		assert.Equal(t, step.want, got, step.line)
	}

	status, err := f.session.Execute(ctx, "status")
	require.NoError(t, err)
	assert.Contains(t, status, "Ada Lovelace: 5 coins")
	assert.Contains(t, status, "auto level 1 every 15s")
	assert.Contains(t, status, "achievements 2/6")
}

func TestBuyAlwaysChargesTheShopPrice(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	got, err := f.session.Execute(ctx, "buy cow price: 0")
	require.NoError(t, err)
	assert.Equal(t, "Bought a Cow for 50 coins.", got)

	state, err := f.session.State(ctx)
	require.NoError(t, err)
	assert.Zero(t, state.Currency)
	assert.Equal(t, 1, state.Producers["cow"].Count)
}

func TestBuySeveralReportsWhatWasBought(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	got, err := f.session.Execute(ctx, "buy cow and cow")
	assert.ErrorIs(t, err, engine.ErrInsufficientFunds)
	assert.Equal(t, "Bought a Cow for 50 coins.", got)

	state, err := f.session.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Producers["cow"].Count)
}

func TestAutomateReportsThePriceCharged(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	_, err := f.session.Execute(ctx, "redeem harvest")
	require.NoError(t, err)

	got, err := f.session.Execute(ctx, "automate chicken")
	require.NoError(t, err)
	assert.Equal(t, "Auto-seller for chicken is now level 1 (every 15s) for 100 coins.", got)

	got, err = f.session.Execute(ctx, "upgrade chicken")
	require.NoError(t, err)
	assert.Equal(t, "Auto-seller for chicken is now level 2 (every 10s) for 200 coins.", got)

	state, err := f.session.State(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 50+500-100-200, state.Currency)
}

func TestFormatCoins(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{1250, "1.2k"},
		{999_999, "1000.0k"},
		{1_000_000, "1.0m"},
		{3_450_000, "3.5m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCoins(tt.amount), tt.amount)
	}
	assert.Equal(t, "15s", FormatInterval(15000))
	assert.Equal(t, "2.5s", FormatInterval(2500))
}
