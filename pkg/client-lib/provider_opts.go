package ledgersdk

type ProviderOption func(*Provider)

// WithBalancesPageSize sets the number of balances requested per page by
// GetBalances and GetAllBalances.
func WithBalancesPageSize(size int32) ProviderOption {
	return func(p *Provider) {
		if size > 0 {
			p.balancesPageSize = size
		}
	}
}
