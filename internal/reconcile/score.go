package reconcile

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tcmartins/payable/internal/installment"
	"github.com/tcmartins/payable/internal/statement"
)

const (
	valueWeight = 0.6
	nameWeight  = 0.4

	// ScoreThreshold is the cut below which a pairing is not worth
	// offering to the operator. Candidates scoring at or under it are
	// discarded.
	ScoreThreshold = 0.3

	// Counterparty tokens must be longer than this to count towards the
	// name score; short tokens ("de", "ltda" stays, "e" goes) match too
	// freely.
	minTokenLen = 3
)

// Score rates how likely a statement transaction pays an installment,
// in [0,1]. Value proximity weighs 0.6, counterparty-name token overlap
// with the transaction description weighs 0.4.
func Score(tx statement.Transaction, inst *installment.Installment) float64 {
	return valueWeight*valueScore(tx.Amount, inst.Amount) + nameWeight*nameScore(inst.Counterparty, tx.Description)
}

func valueScore(txCents, instCents int64) float64 {
	if instCents <= 0 {
		return 0
	}

	diff := math.Abs(float64(txCents-instCents)) / float64(instCents)

	return math.Max(0, 1-diff)
}

func nameScore(counterparty, description string) float64 {
	desc := strings.ToLower(description)

	var tokens, hits int

	for _, tok := range strings.Fields(counterparty) {
		if utf8.RuneCountInString(tok) <= minTokenLen {
			continue
		}

		tokens++

		if strings.Contains(desc, strings.ToLower(tok)) {
			hits++
		}
	}

	if tokens == 0 {
		return 0
	}

	return float64(hits) / float64(tokens)
}
