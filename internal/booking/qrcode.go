package booking

import (
	"bytes"
	"image/png"

	"github.com/skip2/go-qrcode"

	"github.com/iliyamo/cinemax-booking/internal/model"
)

// TicketQR renders the order's QR token as a size×size PNG.
func TicketQR(o model.Order, size int) ([]byte, error) {
	qr, err := qrcode.New(o.QRCode, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
