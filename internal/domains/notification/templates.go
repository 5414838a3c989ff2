package notification

import "text/template"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`Olá {{.Booking.GuestName}},

A sua reserva no {{.Hotel.Name}} está confirmada.

Reserva:   {{.Booking.BookingNumber}}
Quarto:    {{.Room.Name}} ({{.Room.RoomType}})
Check-in:  {{.CheckIn}}
Check-out: {{.CheckOut}}
Noites:    {{.Nights}}
Hóspedes:  {{.Booking.Guests}}
{{- if .Booking.SpecialRequests}}
Pedidos:   {{.Booking.SpecialRequests}}
{{- end}}

Total: {{.Currency}} {{.Total}}

{{.Hotel.Name}}
{{- if .Hotel.Address}}
{{.Hotel.Address}}
{{- end}}
{{- if .Hotel.Phone}}
Tel: {{.Hotel.Phone}}
{{- end}}
`))

var invoiceTemplate = template.Must(template.New("invoice").Parse(`{{.Hotel.Name}}
{{- if .Hotel.Address}}
{{.Hotel.Address}}
{{- end}}
{{- if .Hotel.Phone}}
Tel: {{.Hotel.Phone}}
{{- end}}

FATURA / INVOICE
Nº:   {{.Booking.BookingNumber}}
Data: {{.IssuedAt}}

DADOS DO HÓSPEDE / GUEST INFORMATION
Nome / Name:      {{.Booking.GuestName}}
Email:            {{.Booking.GuestEmail}}
Telefone / Phone: {{.Booking.GuestPhone}}

DETALHES DA RESERVA / BOOKING DETAILS
{{.Room.Name}}
Check-in:  {{.CheckIn}}
Check-out: {{.CheckOut}}
{{.Nights}} noites / nights x {{.Currency}} {{.Rate}}

Subtotal: {{.Currency}} {{.Total}}
TOTAL:    {{.Currency}} {{.Total}}
Estado do pagamento / Payment status: {{.Booking.PaymentStatus}}
`))
