package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tcmartins/payable/internal/installment"
	"github.com/tcmartins/payable/internal/statement"
)

func tx(description string, cents int64) statement.Transaction {
	return statement.Transaction{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: description,
		Amount:      cents,
	}
}

func inst(counterparty string, cents int64) *installment.Installment {
	return &installment.Installment{
		Counterparty: counterparty,
		Amount:       cents,
	}
}

func TestScore_ExactMatch(t *testing.T) {
	got := Score(
		tx("PAGAMENTO FORNECEDOR ABC LTDA", 150000),
		inst("Fornecedor ABC Ltda", 150000),
	)

	// Exact value and a partial name hit ("abc" is too short to count,
	// "fornecedor" and "ltda" both appear) keep this near the top.
	assert.InDelta(t, 1.0, got, 0.01)
}

func TestScore_Bounds(t *testing.T) {
	type testCase struct {
		name string
		tx   statement.Transaction
		inst *installment.Installment
	}

	tests := []testCase{
		{name: "Identical", tx: tx("ACME CORP PAYMENT", 1000), inst: inst("Acme Corp", 1000)},
		{name: "Disjoint", tx: tx("SOMETHING ELSE", 1), inst: inst("Acme Corp", 99999)},
		{name: "ZeroInstallmentValue", tx: tx("X", 1000), inst: inst("Acme Corp", 0)},
		{name: "HugeTransaction", tx: tx("ACME", 1000000), inst: inst("Acme Corp", 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.tx, tt.inst)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestScore_DissimilarBelowThreshold(t *testing.T) {
	got := Score(
		tx("SUPERMERCADO PREÇO BAIXO", 4321),
		inst("Imobiliaria Central", 150000),
	)

	assert.LessOrEqual(t, got, ScoreThreshold)
}

func TestScore_Ranking(t *testing.T) {
	t1 := tx("PAGAMENTO FORNECEDOR ABC LTDA", 150000)

	strong := inst("Fornecedor ABC Ltda", 150000)
	valueOnly := inst("Imobiliaria Central", 150000)
	nameOnly := inst("Fornecedor ABC Ltda", 90000)

	sStrong := Score(t1, strong)
	sValue := Score(t1, valueOnly)
	sName := Score(t1, nameOnly)

	assert.Greater(t, sStrong, sValue)
	assert.Greater(t, sStrong, sName)
}

func TestValueScore(t *testing.T) {
	type testCase struct {
		name string
		tx   int64
		inst int64
		want float64
	}

	tests := []testCase{
		{name: "Exact", tx: 1000, inst: 1000, want: 1.0},
		{name: "TenPercentOff", tx: 900, inst: 1000, want: 0.9},
		{name: "DoubleValue", tx: 2000, inst: 1000, want: 0.0},
		{name: "FarOff", tx: 100000, inst: 1000, want: 0.0},
		{name: "ZeroInstallment", tx: 1000, inst: 0, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, valueScore(tt.tx, tt.inst), 0.0001)
		})
	}
}

func TestNameScore(t *testing.T) {
	type testCase struct {
		name         string
		counterparty string
		description  string
		want         float64
	}

	tests := []testCase{
		{
			name:         "AllTokensHit",
			counterparty: "Fornecedor Central Ltda",
			description:  "PAGAMENTO FORNECEDOR CENTRAL LTDA 03/24",
			want:         1.0,
		},
		{
			name:         "HalfTokensHit",
			counterparty: "Condominio Jardim",
			description:  "TRANSF CONDOMINIO 123",
			want:         0.5,
		},
		{
			name:         "ShortTokensIgnored",
			counterparty: "Luz e Gas do Sul",
			description:  "nothing in common",
			want:         0.0,
		},
		{
			name:         "OnlyShortTokens",
			counterparty: "A B C",
			description:  "A B C",
			want:         0.0,
		},
		{
			name:         "CaseInsensitive",
			counterparty: "ACME",
			description:  "payment to acme corp",
			want:         1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, nameScore(tt.counterparty, tt.description), 0.0001)
		})
	}
}
