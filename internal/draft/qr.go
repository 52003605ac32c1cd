package draft

import qrcode "github.com/skip2/go-qrcode"

// shareQR renders the public event page URL as a PNG QR code, shown on the
// confirmation screen after publishing.
func shareQR(url string) ([]byte, error) {
	return qrcode.Encode(url, qrcode.Medium, 256)
}
