package dashboard

import "testing"

func TestComputeAdminKPIs(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  AdminKPIs
	}{
		{
			name: "earnings are capped per client",
			state: State{Clients: []Client{
				{ID: 1, Balance: 10000},
				{ID: 2, Balance: 999999},
			}},
			want: AdminKPIs{EarningsToday: 3000, WalletBalance: 1009999},
		},
		{
			name: "small balances are floored",
			state: State{Clients: []Client{
				{ID: 1, Balance: 99},
				{ID: 2, Balance: 4.9},
			}},
			want: AdminKPIs{EarningsToday: 19, WalletBalance: 103.9},
		},
		{
			name: "spend is capped per budget",
			state: State{Budgets: []Budget{
				{ClientID: 1, Spent: 1234},
				{ClientID: 2, Spent: 100000},
			}},
			want: AdminKPIs{SpendToday: 623},
		},
		{
			name:  "empty state",
			state: DefaultState(),
			want:  AdminKPIs{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAdminKPIs(tt.state)
			if got != tt.want {
				t.Errorf("ComputeAdminKPIs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeClientKPIs(t *testing.T) {
	state := State{
		Clients: []Client{{ID: 7, FirstName: "Ana", Balance: 1000, ROI: 1.5}},
		Sales: []Sale{
			{ID: "V-1", ClientID: 7},
			{ID: "V-2", ClientID: 7},
			{ID: "V-3", ClientID: 8},
		},
		AdBalances: map[int64]float64{7: 41},
	}

	got := ComputeClientKPIs(state, 7)
	want := ClientKPIs{
		ClientID:  7,
		Name:      "Ana",
		Available: 1000,
		Collected: 700,
		OnHold:    300,
		AdBalance: 41,
		Sales:     2,
		ROI:       1.5,
		CPA:       21,
		ROAS:      1.8,
	}
	if got != want {
		t.Errorf("ComputeClientKPIs() = %+v, want %+v", got, want)
	}
}

func TestComputeClientKPIsDefaults(t *testing.T) {
	state := State{Clients: []Client{{ID: 7}}}

	got := ComputeClientKPIs(state, 7)
	if got.Name != "N/A" || got.ROI != defaultROI || got.CPA != defaultAdSpend || got.ROAS != 1.44 {
		t.Errorf("defaults = %+v", got)
	}

	missing := ComputeClientKPIs(state, 99)
	if missing != (ClientKPIs{ClientID: 99, Name: "N/A"}) {
		t.Errorf("missing client = %+v", missing)
	}
}
