package holdem

import "fmt"

type Config struct {
	TableID    string
	MaxPlayers int

	// Blinds and buy-in (chips; BuyInBB is in big blinds)
	SmallBlind int
	BigBlind   int
	BuyInBB    int

	// AutoTopup refills a zero stack when payouts are applied.
	AutoTopup int

	// Optional cashout policy: at hand start, stacks at or above the
	// threshold are debited by the cashout amount. Disabled by default.
	AutoCashout      bool
	CashoutThreshold int
	CashoutAmount    int

	// SaveEarnings is surfaced in snapshots so clients know whether
	// results are being persisted.
	SaveEarnings bool

	// RNG seed (0 => time-based)
	Seed int64
}

// DefaultConfig matches the live table: 1/3 blinds, 100bb buy-in.
func DefaultConfig() Config {
	return Config{
		TableID:          "table-1",
		MaxPlayers:       6,
		SmallBlind:       1,
		BigBlind:         3,
		BuyInBB:          100,
		AutoTopup:        300,
		CashoutThreshold: 600,
		CashoutAmount:    300,
	}
}

// BuyIn is the starting stack in chips.
func (c Config) BuyIn() int { return c.BuyInBB * c.BigBlind }

func (c Config) validate() error {
	if c.MaxPlayers < 2 {
		return fmt.Errorf("MaxPlayers must be >= 2")
	}
	if c.SmallBlind <= 0 || c.BigBlind <= 0 || c.SmallBlind > c.BigBlind {
		return fmt.Errorf("invalid blinds: sb=%d bb=%d", c.SmallBlind, c.BigBlind)
	}
	if c.BuyInBB <= 0 {
		return fmt.Errorf("BuyInBB must be > 0")
	}
	if c.AutoTopup < 0 {
		return fmt.Errorf("AutoTopup must be >= 0")
	}
	if c.AutoCashout && (c.CashoutThreshold <= 0 || c.CashoutAmount <= 0) {
		return fmt.Errorf("cashout policy requires positive threshold and amount")
	}
	return nil
}
