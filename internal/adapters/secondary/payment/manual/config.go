package manual

type Config struct {
	CardNumber string `envconfig:"CARD_NUMBER"`
}
