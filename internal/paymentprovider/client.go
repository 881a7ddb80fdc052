// Package paymentprovider реализует клиент внешнего платёжного провайдера.
// Контракт — три последовательных вызова: регистрация продукта, создание
// цены и создание платёжной сессии с ссылкой на оплату. Каждый следующий
// вызов использует идентификатор из предыдущего, распараллелить цепочку нельзя.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/magabrotheeeer/learning-platform/internal/apperr"
)

// Client — HTTP-клиент платёжного провайдера.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент провайдера.
func NewClient(apiURL, secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrProvider, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: unexpected status %s", apperr.ErrProvider, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", apperr.ErrProvider, err)
	}
	return nil
}

// CreateProduct регистрирует продукт у провайдера и возвращает его идентификатор.
func (c *Client) CreateProduct(ctx context.Context, name, description string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/products", CreateProductRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return "", err
	}
	var resp CreateProductResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.Join(apperr.ErrProvider, errors.New("empty product id"))
	}
	return resp.ID, nil
}

// CreatePrice создаёт цену для продукта в минимальных единицах валюты.
func (c *Client) CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/prices", CreatePriceRequest{
		ProductID:  productID,
		UnitAmount: unitAmount,
		Currency:   currency,
	})
	if err != nil {
		return "", err
	}
	var resp CreatePriceResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.Join(apperr.ErrProvider, errors.New("empty price id"))
	}
	return resp.ID, nil
}

// CreateCheckoutSession создаёт платёжную сессию разового платежа
// и возвращает её идентификатор и ссылку на оплату.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID string, quantity int, successURL, cancelURL string) (string, string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/checkout/sessions", CreateSessionRequest{
		LineItems: []LineItem{
			{PriceID: priceID, Quantity: quantity},
		},
		Mode:       "payment",
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	})
	if err != nil {
		return "", "", err
	}
	var resp CreateSessionResponse
	if err := c.do(req, &resp); err != nil {
		return "", "", err
	}
	return resp.ID, resp.URL, nil
}
