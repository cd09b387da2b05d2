package freekassa

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"log/slog"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/stars-bot/internal/ports/payment"
)

var _ paymentPort.IPaymentProvider = (*Provider)(nil)

// Provider касса FreeKassa: ссылка на оплату и проверка подписи уведомлений.
// MD5 над строкой через двоеточие задан протоколом кассы, более стойкой схемы она не предлагает.
type Provider struct {
	cfg *Config
	log *slog.Logger
}

func NewProvider(cfg *Config, log *slog.Logger) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid freekassa base url: %w", err)
	}

	return &Provider{
		cfg: cfg,
		log: log,
	}, nil
}

func (p *Provider) Mode() domain.PaymentMode {
	return domain.PaymentModeWebhook
}

// Instruction ссылка на оплату, в us_user_id касса вернёт id покупателя
func (p *Provider) Instruction(_ context.Context, order *domain.Order) (domain.PaymentInstruction, error) {
	link, err := url.Parse(p.cfg.BaseURL)
	if err != nil {
		return domain.PaymentInstruction{}, fmt.Errorf("invalid freekassa base url: %w", err)
	}

	amount := order.Cost.StringFixedBank(2)

	q := url.Values{}
	q.Set("m", p.cfg.MerchantID)
	q.Set("oa", amount)
	q.Set("o", order.ID)
	q.Set("s", p.linkSign(amount, order.ID))
	q.Set("currency", p.cfg.Currency)
	q.Set("us_user_id", strconv.FormatInt(order.UserID, 10))
	link.RawQuery = q.Encode()

	return domain.PaymentInstruction{URL: link.String()}, nil
}

// VerifyNotification сверяет SIGN с md5(MERCHANT_ID:AMOUNT:secret2:MERCHANT_ORDER_ID) без учёта регистра
func (p *Provider) VerifyNotification(n domain.PaymentNotification) error {
	expected := NotificationSign(n.MerchantID, n.Amount, p.cfg.Secret2, n.OrderID)
	if n.Sign == "" || !strings.EqualFold(expected, n.Sign) {
		p.log.Warn("freekassa notification sign mismatch",
			"order_id", n.OrderID,
			"merchant_id", n.MerchantID,
			"amount", n.Amount,
		)
		return domain.ErrInvalidSignature
	}
	if n.MerchantID != p.cfg.MerchantID {
		p.log.Warn("freekassa notification for foreign merchant",
			"order_id", n.OrderID,
			"merchant_id", n.MerchantID,
		)
		return domain.ErrInvalidSignature
	}
	return nil
}

func (p *Provider) linkSign(amount, orderID string) string {
	return md5Hex(strings.Join([]string{p.cfg.MerchantID, amount, p.cfg.Secret1, p.cfg.Currency, orderID}, ":"))
}

// NotificationSign подпись уведомления в формате кассы
func NotificationSign(merchantID, amount, secret, orderID string) string {
	return md5Hex(strings.Join([]string{merchantID, amount, secret, orderID}, ":"))
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
