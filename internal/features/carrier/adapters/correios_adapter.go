package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shipping-quoter/internal/core/cache"
	"shipping-quoter/internal/core/config"
	"shipping-quoter/internal/core/logger"
	"shipping-quoter/internal/features/carrier/domain"
	"shipping-quoter/internal/features/carrier/ports"

	"go.uber.org/zap"
)

const (
	defaultTokenURL = "https://cws.correios.com.br/token/v1/autentica"
	defaultPriceURL = "https://cws.correios.com.br/preco-prazo/v1/preco"

	// Tokens are valid for roughly 6 hours; cache for 5 to stay clear of
	// expiry mid-quote.
	tokenCacheTTL = 5 * time.Hour
	tokenCacheKey = "correios:token"
)

// CorreiosAdapter implements ports.RateProvider against the Correios CWS
// REST API. The legacy SOAP webservice was retired in August 2023; this is
// the contract-holder replacement.
type CorreiosAdapter struct {
	cfg       config.CorreiosConfig
	originCEP string
	tokenURL  string
	priceURL  string
	client    *http.Client
	cache     cache.Cache
	logger    *zap.Logger
}

// NewCorreiosAdapter creates a CorreiosAdapter. The cache may be nil, which
// forces a fresh token per quote.
func NewCorreiosAdapter(cfg config.CorreiosConfig, originCEP string, client *http.Client, c cache.Cache) *CorreiosAdapter {
	return &CorreiosAdapter{
		cfg:       cfg,
		originCEP: domain.SanitizeCEP(originCEP),
		tokenURL:  defaultTokenURL,
		priceURL:  defaultPriceURL,
		client:    client,
		cache:     c,
		logger:    logger.Get(),
	}
}

// Configured reports whether contract credentials are present.
func (a *CorreiosAdapter) Configured() bool {
	return a.cfg.ContractCode != "" && a.cfg.ContractPassword != ""
}

type tokenResponse struct {
	Token string `json:"token"`
}

// token returns a bearer token, from cache when possible.
func (a *CorreiosAdapter) token(ctx context.Context) (string, error) {
	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, tokenCacheKey); err == nil && len(cached) > 0 {
			return string(cached), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(a.cfg.ContractCode, a.cfg.ContractPassword)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("correios auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("correios auth status %d", resp.StatusCode)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding correios token: %w", err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("correios auth returned no token")
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, tokenCacheKey, []byte(body.Token), tokenCacheTTL); err != nil {
			a.logger.Warn("Correios token cache write failed", zap.Error(err))
		}
	}

	return body.Token, nil
}

type priceRequest struct {
	CoProduto   string  `json:"coProduto"`
	CepOrigem   string  `json:"cepOrigem"`
	CepDestino  string  `json:"cepDestino"`
	PsObjeto    int     `json:"psObjeto"`
	Comprimento int     `json:"comprimento"`
	Altura      int     `json:"altura"`
	Largura     int     `json:"largura"`
	TpObjeto    int     `json:"tpObjeto"`
	VlDeclarado float64 `json:"vlDeclarado,omitempty"`
}

// priceField tolerates both JSON encodings the API emits: a quoted
// Brazilian-formatted string and a bare number.
type priceField string

func (p *priceField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = priceField(s)
		return nil
	}
	*p = priceField(data)
	return nil
}

type priceResponse struct {
	PcFinal      priceField `json:"pcFinal"`
	PrazoEntrega int        `json:"prazoEntrega"`
}

// Quote prices the package for every enabled service. Services that fail are
// skipped individually; the call errors only when none return a price.
func (a *CorreiosAdapter) Quote(ctx context.Context, destinationCEP string, pkg domain.Package) ([]domain.Rate, error) {
	if !a.Configured() {
		return nil, fmt.Errorf("correios contract not configured")
	}

	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}

	var rates []domain.Rate
	for _, code := range a.cfg.ServiceCodes() {
		rate, err := a.quoteService(ctx, token, code, destinationCEP, pkg)
		if err != nil {
			a.logger.Debug("Correios service quote failed",
				zap.String("service", code),
				zap.Error(err),
			)
			continue
		}
		rates = append(rates, *rate)
	}

	if len(rates) == 0 {
		return nil, ports.ErrNoRates
	}
	return rates, nil
}

func (a *CorreiosAdapter) quoteService(ctx context.Context, token, code, destinationCEP string, pkg domain.Package) (*domain.Rate, error) {
	payload, err := json.Marshal(priceRequest{
		CoProduto:   code,
		CepOrigem:   a.originCEP,
		CepDestino:  destinationCEP,
		PsObjeto:    int(pkg.WeightKg * 1000),
		Comprimento: int(pkg.LengthCm),
		Altura:      int(pkg.HeightCm),
		Largura:     int(pkg.WidthCm),
		TpObjeto:    2,
		VlDeclarado: pkg.DeclaredValue,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.priceURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price status %d", resp.StatusCode)
	}

	var body priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding price response: %w", err)
	}

	cost := domain.ParsePrice(string(body.PcFinal))
	if cost <= 0 {
		return nil, fmt.Errorf("service returned no price")
	}

	return &domain.Rate{
		ID:           "correios_" + code,
		ServiceCode:  code,
		Label:        domain.RateLabel(code, body.PrazoEntrega),
		Cost:         cost,
		DeadlineDays: body.PrazoEntrega,
	}, nil
}
