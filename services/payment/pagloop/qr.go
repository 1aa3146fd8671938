package pagloop

import "net/url"

const qrImageEndpoint = "https://quickchart.io/qr"

// QRImageURL deriva uma imagem escaneável a partir do código PIX bruto.
// A Pagloop não devolve imagem; a derivação é puramente determinística.
func QRImageURL(qrCodeText string) string {
    return qrImageEndpoint + "?text=" + url.QueryEscape(qrCodeText)
}
