package schedule_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcmartins/payable/internal/installment"
	"github.com/tcmartins/payable/internal/schedule"
)

func validParams(mode schedule.Mode) schedule.Params {
	return schedule.Params{
		Description:  "Office rent",
		Counterparty: "Imobiliaria Central",
		Category:     "rent",
		EntityID:     uuid.New(),
		Mode:         mode,
		StartDate:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		TotalValue:   30000,
		Installments: 3,
	}
}

func TestGenerate_Single(t *testing.T) {
	p := validParams(schedule.ModeSingle)
	p.TotalValue = 12345

	drafts, err := schedule.Generate(p)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	assert.Equal(t, int64(12345), drafts[0].Amount)
	assert.Equal(t, p.StartDate, drafts[0].DueDate)
	assert.Nil(t, drafts[0].SeriesID)
	assert.False(t, drafts[0].Recurring)
}

func TestGenerate_FixedSeries(t *testing.T) {
	p := validParams(schedule.ModeFixed)

	drafts, err := schedule.Generate(p)
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	wantDue := []time.Time{
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}

	for i, d := range drafts {
		assert.Equal(t, int64(10000), d.Amount)
		assert.Equal(t, wantDue[i], d.DueDate)
		assert.Equal(t, i+1, d.SeriesIndex)
		assert.Equal(t, 3, d.SeriesCount)
		assert.Equal(t, int64(30000), d.SeriesTotal)
		assert.True(t, d.FixedValue)
		require.NotNil(t, d.SeriesID)
		assert.Equal(t, *drafts[0].SeriesID, *d.SeriesID)
	}
}

func TestGenerate_FixedSplitSumsToTotal(t *testing.T) {
	// Totals that do not divide evenly must still sum exactly; the
	// remainder lands on the last installment.
	type testCase struct {
		name  string
		total int64
		n     int
		first int64
		last  int64
	}

	tests := []testCase{
		{name: "ThreeWay", total: 10000, n: 3, first: 3333, last: 3334},
		{name: "SevenWay", total: 100, n: 7, first: 14, last: 16},
		{name: "Exact", total: 1000, n: 4, first: 250, last: 250},
		{name: "MaxInstallments", total: 119, n: 119, first: 1, last: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams(schedule.ModeFixed)
			p.TotalValue = tt.total
			p.Installments = tt.n

			drafts, err := schedule.Generate(p)
			require.NoError(t, err)
			require.Len(t, drafts, tt.n)

			var sum int64
			for _, d := range drafts {
				sum += d.Amount
			}

			assert.Equal(t, tt.total, sum)
			assert.Equal(t, tt.first, drafts[0].Amount)
			assert.Equal(t, tt.last, drafts[tt.n-1].Amount)

			for _, d := range drafts[:tt.n-1] {
				assert.Equal(t, drafts[0].Amount, d.Amount)
			}
		})
	}
}

func TestGenerate_RecurringDefaultHorizon(t *testing.T) {
	per := new(int64(5000))

	p := validParams(schedule.ModeRecurring)
	p.PerPeriodValue = per

	drafts, err := schedule.Generate(p)
	require.NoError(t, err)
	require.Len(t, drafts, schedule.DefaultHorizon)

	for i, d := range drafts {
		assert.Equal(t, int64(5000), d.Amount)
		assert.True(t, d.Recurring)
		assert.True(t, d.FixedValue)
		assert.Equal(t, installment.RecurrenceMonthly, d.RecurrenceKind)
		assert.Equal(t, i+1, d.SeriesIndex)
		assert.Equal(t, schedule.DefaultHorizon, d.SeriesCount)

		want := time.Date(2024, time.Month(1+i), 5, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, want, d.DueDate)
	}
}

func TestGenerate_RecurringEndDate(t *testing.T) {
	end := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	p := validParams(schedule.ModeRecurring)
	p.EndDate = &end

	drafts, err := schedule.Generate(p)
	require.NoError(t, err)
	require.Len(t, drafts, 4)

	assert.Equal(t, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), drafts[3].DueDate)
}

func TestGenerate_RecurringVariableValue(t *testing.T) {
	p := validParams(schedule.ModeRecurring)

	drafts, err := schedule.Generate(p)
	require.NoError(t, err)
	require.Len(t, drafts, schedule.DefaultHorizon)

	// No per-period value declared: amounts stay zero for manual entry.
	for _, d := range drafts {
		assert.Zero(t, d.Amount)
		assert.False(t, d.FixedValue)
	}
}

func TestGenerate_RecurringFarEndDateCapped(t *testing.T) {
	end := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

	p := validParams(schedule.ModeRecurring)
	p.EndDate = &end

	drafts, err := schedule.Generate(p)
	require.NoError(t, err)
	assert.Len(t, drafts, schedule.MaxInstallments)
}

func TestGenerate_DayClamping(t *testing.T) {
	type testCase struct {
		name    string
		start   time.Time
		day     int
		wantDue []time.Time
	}

	tests := []testCase{
		{
			name:  "Day31ClampsToFebruary",
			start: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			wantDue: []time.Time{
				time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:  "NonLeapFebruary",
			start: time.Date(2023, 1, 30, 0, 0, 0, 0, time.UTC),
			wantDue: []time.Time{
				time.Date(2023, 1, 30, 0, 0, 0, 0, time.UTC),
				time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
				time.Date(2023, 3, 30, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:  "OverrideDay15",
			start: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			day:   15,
			wantDue: []time.Time{
				time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams(schedule.ModeFixed)
			p.StartDate = tt.start
			p.DayOfMonth = tt.day

			drafts, err := schedule.Generate(p)
			require.NoError(t, err)
			require.Len(t, drafts, 3)

			for i, d := range drafts {
				assert.Equal(t, tt.wantDue[i], d.DueDate)
			}
		})
	}
}

func TestGenerate_Validation(t *testing.T) {
	type testCase struct {
		name      string
		mutate    func(p *schedule.Params)
		wantField string
	}

	tests := []testCase{
		{
			name:      "MissingStartDate",
			mutate:    func(p *schedule.Params) { p.StartDate = time.Time{} },
			wantField: "start date",
		},
		{
			name:      "MissingCounterparty",
			mutate:    func(p *schedule.Params) { p.Counterparty = "" },
			wantField: "counterparty",
		},
		{
			name:      "MissingCategory",
			mutate:    func(p *schedule.Params) { p.Category = "" },
			wantField: "category",
		},
		{
			name:      "MissingEntity",
			mutate:    func(p *schedule.Params) { p.EntityID = uuid.Nil },
			wantField: "entity",
		},
		{
			name:      "ZeroValue",
			mutate:    func(p *schedule.Params) { p.TotalValue = 0 },
			wantField: "total value",
		},
		{
			name:      "NegativeValue",
			mutate:    func(p *schedule.Params) { p.TotalValue = -100 },
			wantField: "total value",
		},
		{
			name:      "ZeroInstallments",
			mutate:    func(p *schedule.Params) { p.Installments = 0 },
			wantField: "installment count",
		},
		{
			name:      "TooManyInstallments",
			mutate:    func(p *schedule.Params) { p.Installments = 121 },
			wantField: "installment count",
		},
		{
			name: "TotalSmallerThanCount",
			mutate: func(p *schedule.Params) {
				p.TotalValue = 5
				p.Installments = 10
			},
			wantField: "total value",
		},
		{
			name:      "DayOfMonthOutOfRange",
			mutate:    func(p *schedule.Params) { p.DayOfMonth = 32 },
			wantField: "day of month",
		},
		{
			name:      "UnknownMode",
			mutate:    func(p *schedule.Params) { p.Mode = "weekly" },
			wantField: "mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams(schedule.ModeFixed)
			tt.mutate(&p)

			drafts, err := schedule.Generate(p)
			assert.Nil(t, drafts)

			var verr *schedule.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestGenerate_RecurringNegativePerPeriod(t *testing.T) {
	p := validParams(schedule.ModeRecurring)
	p.PerPeriodValue = new(int64(-1))

	_, err := schedule.Generate(p)

	var verr *schedule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "per-period value", verr.Field)
}
