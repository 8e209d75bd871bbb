package booking

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// PaymentInfo is the card form submitted at checkout.  Nothing is
// charged; the card is only validated and masked onto the order.
type PaymentInfo struct {
	CardNumber   string `json:"cardNumber" validate:"required,len=16,numeric"`
	Expiry       string `json:"expiryDate" validate:"required,card_expiry"`
	CVV          string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	HolderName   string `json:"cardName" validate:"required,min=2"`
	Installments int    `json:"installments" validate:"gte=1,lte=3"`
}

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

// normalized strips the separators a card form usually inserts and
// defaults installments to a single payment.
func (p PaymentInfo) normalized() PaymentInfo {
	p.CardNumber = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '-':
			return -1
		}
		return r
	}, p.CardNumber)
	p.HolderName = strings.TrimSpace(p.HolderName)
	if p.Installments == 0 {
		p.Installments = 1
	}
	return p
}

// LastFour returns the final four digits of the card number.
func (p PaymentInfo) LastFour() string {
	n := p.normalized().CardNumber
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	return v
}

// PaymentProcessor authorises a charge.  Implementations must return
// ctx.Err() when the context ends first.
type PaymentProcessor interface {
	Authorize(ctx context.Context, amount decimal.Decimal, p PaymentInfo) error
}

// SimulatedProcessor approves every payment after Delay on Clock.
type SimulatedProcessor struct {
	Clock clockwork.Clock
	Delay time.Duration
}

func (s SimulatedProcessor) Authorize(ctx context.Context, _ decimal.Decimal, _ PaymentInfo) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	clock := s.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	timer := clock.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}
