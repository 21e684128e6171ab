package exchange

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source indica a origem da cotação retornada
type Source string

const (
	SourceFresh  Source = "fresh"  // Obtida agora do provedor externo
	SourceCached Source = "cached" // Reaproveitada do cache local
	SourceManual Source = "manual" // Fixada manualmente pelo administrador
)

// Rate representa uma cotação de câmbio (dólar -> real).
// Invariante: Value > 0.
type Rate struct {
	Value      decimal.Decimal `json:"rate"`
	Source     Source          `json:"source"`
	ObservedAt time.Time       `json:"observed_at"`
}

// FreshWithin informa se a cotação ainda está dentro do prazo de validade
func (r Rate) FreshWithin(ttl time.Duration, now time.Time) bool {
	return now.Sub(r.ObservedAt) <= ttl
}
