package freekassa

import "fmt"

type Config struct {
	MerchantID string `envconfig:"MERCHANT_ID"`
	// Secret1 подпись ссылки на оплату
	Secret1 string `envconfig:"SECRET_1"`
	// Secret2 подпись уведомления об оплате
	Secret2  string `envconfig:"SECRET_2"`
	BaseURL  string `envconfig:"BASE_URL" default:"https://pay.freekassa.ru/"`
	Currency string `envconfig:"CURRENCY" default:"RUB"`
}

func (c *Config) Validate() error {
	if c.MerchantID == "" {
		return fmt.Errorf("freekassa merchant id is required")
	}
	if c.Secret1 == "" || c.Secret2 == "" {
		return fmt.Errorf("freekassa secrets are required")
	}
	return nil
}
