package paymentprovider

// CreateProductRequest — запрос на регистрацию продукта у провайдера.
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateProductResponse — ответ провайдера с идентификатором продукта.
type CreateProductResponse struct {
	ID string `json:"id"`
}

// CreatePriceRequest — запрос на создание цены продукта.
// UnitAmount задаётся в минимальных единицах валюты.
type CreatePriceRequest struct {
	ProductID  string `json:"product"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

// CreatePriceResponse — ответ провайдера с идентификатором цены.
type CreatePriceResponse struct {
	ID string `json:"id"`
}

// LineItem — позиция платёжной сессии.
type LineItem struct {
	PriceID  string `json:"price"`
	Quantity int    `json:"quantity"`
}

// CreateSessionRequest — запрос на создание платёжной сессии.
// Mode "payment" означает разовый платёж, не подписочное списание.
type CreateSessionRequest struct {
	LineItems  []LineItem `json:"line_items"`
	Mode       string     `json:"mode"`
	SuccessURL string     `json:"success_url"`
	CancelURL  string     `json:"cancel_url"`
}

// CreateSessionResponse — ответ провайдера: идентификатор сессии и
// ссылка для перенаправления пользователя на оплату.
type CreateSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
