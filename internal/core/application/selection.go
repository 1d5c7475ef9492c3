package application

import (
	"sort"

	"github.com/arkade-os/ledgerkit/internal/core/domain"
)

// selectCoins picks coins largest-first until their sum covers the target.
// It returns the selected coins, their total and whether the target is reached.
func selectCoins(coins []domain.Coin, target uint64) ([]domain.Coin, uint64, bool) {
	if target == 0 {
		return []domain.Coin{}, 0, true
	}

	sorted := make([]domain.Coin, len(coins))
	copy(sorted, coins)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Amount == sorted[j].Amount {
			return sorted[i].UtxoID < sorted[j].UtxoID
		}
		return sorted[i].Amount > sorted[j].Amount
	})

	selected := make([]domain.Coin, 0)
	var total uint64
	for _, coin := range sorted {
		if total >= target {
			break
		}
		selected = append(selected, coin)
		total += coin.Amount
	}
	return selected, total, total >= target
}
