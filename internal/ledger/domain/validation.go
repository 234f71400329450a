package domain

// ValidateBalanced checks that debits equal credits across all lines.
func ValidateBalanced(lines []LedgerEntryLine) error {
	if len(lines) < 2 {
		return ErrInvalidEntryLines
	}

	var debits, credits int64
	for _, line := range lines {
		switch line.Direction {
		case LedgerEntryDirectionDebit:
			debits += line.Amount
		case LedgerEntryDirectionCredit:
			credits += line.Amount
		default:
			return ErrInvalidDirection
		}
	}

	if debits != credits {
		return ErrUnbalancedEntry
	}
	return nil
}
