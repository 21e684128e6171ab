package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://economia.awesomeapi.com.br"

// AwesomeAPIClient busca a cotação USD-BRL na AwesomeAPI.
// Implementa exchange.Fetcher.
type AwesomeAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAwesomeAPIClient cria um novo cliente da AwesomeAPI
func NewAwesomeAPIClient() *AwesomeAPIClient {
	return &AwesomeAPIClient{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// NewAwesomeAPIClientWithBaseURL cria um cliente apontando para outra URL base
func NewAwesomeAPIClientWithBaseURL(baseURL string) *AwesomeAPIClient {
	c := NewAwesomeAPIClient()
	c.baseURL = baseURL
	return c
}

// quoteResponse espelha o formato de resposta da AwesomeAPI
type quoteResponse struct {
	USDBRL struct {
		Bid string `json:"bid"`
	} `json:"USDBRL"`
}

// Fetch busca a cotação de compra (bid) atual do par USD-BRL
func (c *AwesomeAPIClient) Fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json/last/USD-BRL", nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("falha ao montar requisição de cotação: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("falha ao consultar cotação: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("provedor de cotação respondeu com status %d", resp.StatusCode)
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return decimal.Zero, fmt.Errorf("falha ao decodificar resposta de cotação: %w", err)
	}

	bid, err := decimal.NewFromString(quote.USDBRL.Bid)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cotação inválida na resposta do provedor: %w", err)
	}

	return bid, nil
}
