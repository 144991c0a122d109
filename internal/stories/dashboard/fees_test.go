package dashboard

import "testing"

func TestSplitPayout(t *testing.T) {
	tests := []struct {
		amount  float64
		percent float64
		net     float64
		fee     float64
	}{
		{amount: 1000, percent: 4, net: 960, fee: 40},
		{amount: 10, percent: 4, net: 9.6, fee: 0.4},
		{amount: 33.33, percent: 4, net: 32, fee: 1.33},
		{amount: 0.1, percent: 4, net: 0.1, fee: 0},
		{amount: 250, percent: 0, net: 250, fee: 0},
	}

	for _, tt := range tests {
		net, fee := SplitPayout(tt.amount, tt.percent)
		if net != tt.net || fee != tt.fee {
			t.Errorf("SplitPayout(%v, %v) = %v/%v, want %v/%v", tt.amount, tt.percent, net, fee, tt.net, tt.fee)
		}
		if addMoney(net, fee) != tt.amount {
			t.Errorf("SplitPayout(%v, %v): net+fee = %v", tt.amount, tt.percent, addMoney(net, fee))
		}
	}
}
