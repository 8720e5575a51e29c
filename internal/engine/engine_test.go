package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/suderio/farmstead/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTimers captures scheduler calls in order.
type recordingTimers struct {
	calls []string
	armed map[catalog.ProducerType]time.Duration
}

func newRecordingTimers() *recordingTimers {
	return &recordingTimers{armed: make(map[catalog.ProducerType]time.Duration)}
}

func (r *recordingTimers) Arm(t catalog.ProducerType, d time.Duration) {
	r.calls = append(r.calls, "arm:"+string(t))
	r.armed[t] = d
}

func (r *recordingTimers) Retire(t catalog.ProducerType) {
	r.calls = append(r.calls, "retire:"+string(t))
	delete(r.armed, t)
}

func newTestEngine(t *testing.T) (*Engine, *recordingTimers) {
	t.Helper()
	cat := catalog.Default()
	cat.AddCodes(map[string]int64{"ABC": 200})
	timers := newRecordingTimers()
	return New(NewState(cat), cat, timers), timers
}

func assertInvariants(t *testing.T, s *GameState) {
	t.Helper()
	assert.GreaterOrEqual(t, s.Currency, int64(0), "currency must never go negative")
	for pt, a := range s.Automations {
		assert.GreaterOrEqual(t, s.AutomationTierIndex[pt], a.Tier, "tier index below held tier for %s", pt)
	}
}

func TestNewState(t *testing.T) {
	e, _ := newTestEngine(t)
	s := e.State()

	assert.Equal(t, int64(50), s.Currency)
	require.Contains(t, s.Producers, catalog.ProducerType("chicken"))
	assert.Equal(t, ProducerHolding{Count: 1, ProductName: "egg", UnitValue: 5}, *s.Producers["chicken"])
	assert.Equal(t, int64(1), s.Stats.TotalProducersBought)
	assert.Equal(t, map[catalog.ProducerType]int{"chicken": 1, "cow": 1, "sheep": 1}, s.AutomationTierIndex)
	assert.Empty(t, s.Automations)
}

func TestSellManual(t *testing.T) {
	e, _ := newTestEngine(t)
	var events []Earned
	e.SetObserver(ObserverFunc(func(ev Earned) { events = append(events, ev) }))

	earned, ok := e.SellManual("chicken", Point{X: 10, Y: 20})
	require.True(t, ok)
	assert.Equal(t, int64(5), earned)
	assert.Equal(t, int64(55), e.State().Currency)
	assert.Equal(t, int64(1), e.State().Stats.TotalManualSales)
	assert.Equal(t, int64(5), e.State().Stats.TotalCurrencyEarned)
	require.Len(t, events, 1)
	assert.Equal(t, Earned{Type: "chicken", Amount: 5, At: Point{X: 10, Y: 20}, Manual: true}, events[0])
}

func TestSellManual_NothingOwnedIsNoop(t *testing.T) {
	e, _ := newTestEngine(t)
	before := e.Snapshot()

	_, ok := e.SellManual("cow", Point{})
	assert.False(t, ok)

	e.State().Producers["chicken"].Count = 0
	_, ok = e.SellManual("chicken", Point{})
	assert.False(t, ok)

	assert.Equal(t, before.Currency, e.State().Currency)
	assert.Equal(t, before.Stats, e.State().Stats)
}

func TestBuyProducer(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.BuyProducer("cow", 50))
	s := e.State()
	assert.Equal(t, int64(0), s.Currency)
	assert.Equal(t, ProducerHolding{Count: 1, ProductName: "milk", UnitValue: 20}, *s.Producers["cow"])
	assert.Equal(t, int64(2), s.Stats.TotalProducersBought)

	err := e.BuyProducer("chicken", 10)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 1, s.Producers["chicken"].Count)
	assert.Equal(t, int64(2), s.Stats.TotalProducersBought)
}

func TestBuyProducer_KeepsIdentityFromAcquisition(t *testing.T) {
	e, _ := newTestEngine(t)
	e.State().Producers["chicken"].UnitValue = 7

	require.NoError(t, e.BuyProducer("chicken", 10))
	assert.Equal(t, int64(7), e.State().Producers["chicken"].UnitValue)
	assert.Equal(t, 2, e.State().Producers["chicken"].Count)
}

func TestBuyProducer_Rejections(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.ErrorIs(t, e.BuyProducer("dragon", 1), ErrUnknownProducer)
	assert.ErrorIs(t, e.BuyProducer("chicken", -1), ErrInvalidPrice)
	assert.Equal(t, int64(50), e.State().Currency)
	assertInvariants(t, e.State())
}

func TestBuyAutomation_FirstTier(t *testing.T) {
	e, timers := newTestEngine(t)
	e.State().Currency = 100

	bought, err := e.BuyAutomation("chicken")
	require.NoError(t, err)

	s := e.State()
	assert.Equal(t, Purchase{Holding: AutomationHolding{Tier: 1, IntervalMs: 15000}, Price: 100}, bought)
	assert.Equal(t, int64(0), s.Currency)
	assert.Equal(t, AutomationHolding{Tier: 1, IntervalMs: 15000}, s.Automations["chicken"])
	assert.Equal(t, 2, s.AutomationTierIndex["chicken"])
	assert.Equal(t, int64(1), s.Stats.TotalAutomationsBought)
	assert.Equal(t, []string{"retire:chicken", "arm:chicken"}, timers.calls)
	assert.Equal(t, 15*time.Second, timers.armed["chicken"])
	assertInvariants(t, s)
}

func TestBuyAutomation_UpgradeRetiresOldTimer(t *testing.T) {
	e, timers := newTestEngine(t)
	e.State().Currency = 100 + 200 + 500

	_, err := e.BuyAutomation("chicken")
	require.NoError(t, err)
	_, err = e.BuyAutomation("chicken")
	require.NoError(t, err)
	_, err = e.BuyAutomation("chicken")
	require.NoError(t, err)

	s := e.State()
	assert.Equal(t, int64(0), s.Currency)
	assert.Equal(t, AutomationHolding{Tier: 3, IntervalMs: 5000}, s.Automations["chicken"])
	assert.Equal(t, 4, s.AutomationTierIndex["chicken"])
	assert.Equal(t, []string{
		"retire:chicken", "arm:chicken",
		"retire:chicken", "arm:chicken",
		"retire:chicken", "arm:chicken",
	}, timers.calls)
	assert.Equal(t, 5*time.Second, timers.armed["chicken"])

	s.Currency = 1_000_000
	_, err = e.BuyAutomation("chicken")
	assert.ErrorIs(t, err, ErrMaxTierReached)
	assert.Equal(t, int64(1_000_000), s.Currency)
	assert.Equal(t, int64(3), s.Stats.TotalAutomationsBought)
	assert.Len(t, timers.calls, 6)
	assertInvariants(t, s)
}

func TestBuyAutomation_InsufficientFundsChangesNothing(t *testing.T) {
	e, timers := newTestEngine(t)
	e.State().Currency = 99
	before := e.Snapshot()

	_, err := e.BuyAutomation("chicken")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, before.Currency, e.State().Currency)
	assert.Equal(t, before.AutomationTierIndex, e.State().AutomationTierIndex)
	assert.Empty(t, e.State().Automations)
	assert.Empty(t, timers.calls)
}

func TestBuyAutomation_PriceDerivesFromCurrentIndex(t *testing.T) {
	e, _ := newTestEngine(t)
	e.State().AutomationTierIndex["cow"] = 2

	offer, err := e.AutomationOffer("cow")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), offer.Price)
	assert.Equal(t, int64(10000), offer.IntervalMs)
	assert.Nil(t, offer.Current)

	_, err = e.AutomationOffer("dragon")
	assert.ErrorIs(t, err, ErrUnknownProducer)
}

func TestApplyAutomatedIncome(t *testing.T) {
	e, _ := newTestEngine(t)
	e.State().Producers["chicken"].Count = 2
	before := e.Snapshot()

	earned, ok := e.ApplyAutomatedIncome("chicken")
	require.True(t, ok)
	assert.Equal(t, int64(10), earned)
	assert.Equal(t, before.Currency+10, e.State().Currency)
	assert.Equal(t, before.Stats.TotalCurrencyEarned+10, e.State().Stats.TotalCurrencyEarned)
	assert.Equal(t, before.Stats.TotalManualSales, e.State().Stats.TotalManualSales)

	e.State().Producers["chicken"].Count = 0
	_, ok = e.ApplyAutomatedIncome("chicken")
	assert.False(t, ok)
	_, ok = e.ApplyAutomatedIncome("sheep")
	assert.False(t, ok)
}

func TestRedeemCode(t *testing.T) {
	e, _ := newTestEngine(t)
	e.State().Currency = 0

	amount, err := e.RedeemCode("ABC")
	require.NoError(t, err)
	assert.Equal(t, int64(200), amount)
	assert.Equal(t, int64(200), e.State().Currency)
	assert.Equal(t, []string{"ABC"}, e.State().SortedCodes())

	_, err = e.RedeemCode(" abc ")
	assert.ErrorIs(t, err, ErrCodeAlreadyUsed)
	assert.Equal(t, int64(200), e.State().Currency)

	_, err = e.RedeemCode("nope")
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = e.RedeemCode("   ")
	assert.ErrorIs(t, err, ErrEmptyCode)
	assert.Equal(t, int64(200), e.State().Currency)
}

func TestSetPlayerName(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.ErrorIs(t, e.SetPlayerName("  "), ErrEmptyName)
	require.NoError(t, e.SetPlayerName(" Farmer Joe "))
	assert.Equal(t, "Farmer Joe", e.State().PlayerName)
}

func TestReinstateAutomation(t *testing.T) {
	e, timers := newTestEngine(t)

	e.ReinstateAutomation("sheep", AutomationHolding{Tier: 2, IntervalMs: 10000})
	assert.Equal(t, AutomationHolding{Tier: 2, IntervalMs: 10000}, e.State().Automations["sheep"])
	assert.Equal(t, 3, e.State().AutomationTierIndex["sheep"])
	assert.Equal(t, 10*time.Second, timers.armed["sheep"])
	assert.Equal(t, int64(50), e.State().Currency)
	assertInvariants(t, e.State())
}

func TestSaturatingArithmetic(t *testing.T) {
	e, _ := newTestEngine(t)
	e.State().Currency = math.MaxInt64 - 1

	_, ok := e.SellManual("chicken", Point{})
	require.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), e.State().Currency)
	assert.Equal(t, int64(math.MaxInt64), mulSat(math.MaxInt64, 2))
}

// TestRandomWalkKeepsInvariants drives a fixed sequence of mixed operations and
// checks that currency stays non-negative and lifetime earnings never shrink.
func TestRandomWalkKeepsInvariants(t *testing.T) {
	e, _ := newTestEngine(t)
	types := []catalog.ProducerType{"chicken", "cow", "sheep"}

	lastEarned := e.State().Stats.TotalCurrencyEarned
	for i := 0; i < 500; i++ {
		pt := types[i%len(types)]
		switch i % 5 {
		case 0:
			e.SellManual(pt, Point{})
		case 1:
			item, _ := e.Catalog().ShopItem(pt)
			err := e.BuyProducer(pt, item.Price)
			if err != nil {
				require.True(t, errors.Is(err, ErrInsufficientFunds))
			}
		case 2:
			_, err := e.BuyAutomation(pt)
			if err != nil {
				require.True(t, errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrMaxTierReached))
			}
		case 3:
			e.ApplyAutomatedIncome(pt)
		case 4:
			_, _ = e.RedeemCode("ABC")
		}

		assertInvariants(t, e.State())
		require.GreaterOrEqual(t, e.State().Stats.TotalCurrencyEarned, lastEarned)
		lastEarned = e.State().Stats.TotalCurrencyEarned
	}
}
