package excel

import "strings"

// Config holds data source settings
type Config struct {
	// Sheet is the worksheet read from xlsx files; empty selects the first sheet.
	Sheet string `json:"sheet"`
	// MissingTokens are cell values treated as missing.
	MissingTokens []string `json:"missing_tokens"`
}

// DefaultConfig returns the conventional missing-value spellings
func DefaultConfig() Config {
	return Config{
		MissingTokens: []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None"},
	}
}

func (c Config) isMissing(cell string) bool {
	cell = strings.TrimSpace(cell)
	for _, tok := range c.MissingTokens {
		if cell == tok {
			return true
		}
	}
	return false
}
