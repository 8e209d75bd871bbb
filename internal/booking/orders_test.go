package booking

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemax-booking/internal/model"
)

func TestOrderQueries(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first, err := e.svc.CommitOrder(ctx, e.buyer, e.session.ID, fullItems(e.session.ID, "A1", "A2"), validPayment)
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
	second, err := e.svc.CommitOrder(ctx, model.User{ID: "2"}, e.session.ID, fullItems(e.session.ID, "B1"), validPayment)
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
	third, err := e.svc.CommitOrder(ctx, e.buyer, e.session.ID, fullItems(e.session.ID, "B2"), validPayment)
	require.NoError(t, err)

	mine := e.svc.OrdersByUser(e.buyer.ID)
	require.Len(t, mine, 2)
	assert.Equal(t, third.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	all := e.svc.Orders()
	require.Len(t, all, 3)
	assert.Equal(t, second.ID, all[1].ID)

	_, err = e.svc.Order("nope")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	assert.Len(t, e.svc.FilterOrders(OrderFilter{Query: "agente"}), 3)
	assert.Len(t, e.svc.FilterOrders(OrderFilter{Query: "COPACABANA"}), 3)
	assert.Len(t, e.svc.FilterOrders(OrderFilter{Query: second.ID}), 1)
	assert.Empty(t, e.svc.FilterOrders(OrderFilter{Query: "galáxia"}))
	assert.Len(t, e.svc.FilterOrders(OrderFilter{Status: model.OrderConfirmed}), 3)
	assert.Empty(t, e.svc.FilterOrders(OrderFilter{Status: model.OrderCancelled}))

	st := e.svc.Stats()
	assert.Equal(t, "128", st.Revenue.String())
	assert.Equal(t, 4, st.TicketsSold)
	assert.Equal(t, 3, st.ConfirmedOrders)
}

func TestStats_IgnoresCancelled(t *testing.T) {
	e := newEnv(t)
	o, err := e.svc.CommitOrder(context.Background(), e.buyer, e.session.ID, fullItems(e.session.ID, "A1"), validPayment)
	require.NoError(t, err)

	cancelled := o
	cancelled.ID = "legacy"
	cancelled.Status = model.OrderCancelled
	e.svc.orders = append(e.svc.orders, cancelled)

	st := e.svc.Stats()
	assert.Equal(t, 1, st.ConfirmedOrders)
	assert.Equal(t, "32", st.Revenue.String())
}

func TestTicketQR(t *testing.T) {
	png, err := TicketQR(model.Order{QRCode: "TICKET-ABCD1234"}, 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
